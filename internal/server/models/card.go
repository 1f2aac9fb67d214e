package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/mysterycard/internal/common"
)

type CardType string

const (
	CardTypeMachine      CardType = "machine"
	CardTypeWarrior      CardType = "warrior"
	CardTypeSpellcaster  CardType = "spellcaster"
	CardTypePyro         CardType = "pyro"
	CardTypeThunder      CardType = "thunder"
	CardTypeDivineBeast  CardType = "divine-beast"
	CardTypeZombie       CardType = "zombie"
	CardTypeBeastWarrior CardType = "beast-warrior"
	CardTypeDinosaur     CardType = "dinosaur"
	CardTypeSeaSerpent   CardType = "sea-serpent"
)

// CardTypes lists every accepted card type.
var CardTypes = []CardType{
	CardTypeMachine, CardTypeWarrior, CardTypeSpellcaster, CardTypePyro, CardTypeThunder,
	CardTypeDivineBeast, CardTypeZombie, CardTypeBeastWarrior, CardTypeDinosaur, CardTypeSeaSerpent,
}

func (t CardType) Valid() bool { return slices.Contains(CardTypes, t) }

type Element string

const (
	ElementWind   Element = "wind"
	ElementLight  Element = "light"
	ElementDark   Element = "dark"
	ElementFire   Element = "fire"
	ElementEarth  Element = "earth"
	ElementDivine Element = "divine"
	ElementWater  Element = "water"
)

// Elements lists every accepted element class.
var Elements = []Element{
	ElementWind, ElementLight, ElementDark, ElementFire, ElementEarth, ElementDivine, ElementWater,
}

func (e Element) Valid() bool { return slices.Contains(Elements, e) }

const (
	MinLevel = 1
	MaxLevel = 12
)

func ValidLevel(level int) bool { return level >= MinLevel && level <= MaxLevel }

// Card is a playable card. Name and RevealedImageRef are the answer and
// must only reach a player inside a fully correct GuessResult.
type Card struct {
	ID               int64
	Name             string
	HiddenImageRef   string
	RevealedImageRef string
	Type             CardType
	Level            int
	ElementClass     Element
}

// Validate checks the writable fields of c. Errors wrap common.ErrorValidation.
func (c *Card) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if strings.TrimSpace(c.HiddenImageRef) == "" {
		errs = append(errs, errors.New("hidden image is required"))
	}
	if strings.TrimSpace(c.RevealedImageRef) == "" {
		errs = append(errs, errors.New("revealed image is required"))
	}
	if err := validateAttributes(c.Type, c.Level, c.ElementClass); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", common.ErrorValidation, errors.Join(errs...))
	}
	return nil
}

func validateAttributes(t CardType, level int, e Element) error {
	var errs []error
	if !t.Valid() {
		errs = append(errs, fmt.Errorf("unknown type %q", t))
	}
	if !ValidLevel(level) {
		errs = append(errs, fmt.Errorf("level %d out of range [%d, %d]", level, MinLevel, MaxLevel))
	}
	if !e.Valid() {
		errs = append(errs, fmt.Errorf("unknown element class %q", e))
	}
	return errors.Join(errs...)
}
