package wire

// Accepted guess and card attribute values, for clients building prompts.
// The server validates against its own model.
var (
	CardTypes = []string{
		"machine", "warrior", "spellcaster", "pyro", "thunder",
		"divine-beast", "zombie", "beast-warrior", "dinosaur", "sea-serpent",
	}
	Elements = []string{"wind", "light", "dark", "fire", "earth", "divine", "water"}
)

const (
	MinLevel = 1
	MaxLevel = 12
)
