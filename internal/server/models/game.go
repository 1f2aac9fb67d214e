package models

import (
	"fmt"

	"github.com/dmitrijs2005/mysterycard/internal/common"
)

// MysteryCard is what a player sees when a round starts.
type MysteryCard struct {
	ID             int64
	HiddenImageRef string
}

// Guess is a player's claim about a card's attributes.
type Guess struct {
	Type         CardType
	Level        int
	ElementClass Element
}

func (g Guess) Validate() error {
	if err := validateAttributes(g.Type, g.Level, g.ElementClass); err != nil {
		return fmt.Errorf("%w: %w", common.ErrorValidation, err)
	}
	return nil
}

type FieldMatches struct {
	Type         bool
	Level        bool
	ElementClass bool
}

// Reveal is set only on a fully correct guess.
type Reveal struct {
	Name             string
	RevealedImageRef string
}

type GuessResult struct {
	PerField   FieldMatches
	AllCorrect bool
	Reveal     *Reveal
}
