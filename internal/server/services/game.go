package services

import (
	"context"
	"database/sql"
	"errors"
	"math/rand/v2"

	"github.com/dmitrijs2005/mysterycard/internal/common"
	"github.com/dmitrijs2005/mysterycard/internal/server/models"
	"github.com/dmitrijs2005/mysterycard/internal/server/repositories/repomanager"
)

// a card deleted between Count and FindAtOffset triggers a fresh draw
const maxDrawAttempts = 3

// GameService picks mystery cards and scores guesses against them.
type GameService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	intN        func(n int) int
}

func NewGameService(db *sql.DB, m repomanager.RepositoryManager) *GameService {
	return &GameService{
		db:          db,
		repomanager: m,
		intN:        rand.IntN,
	}
}

// StartGame draws a card uniformly at random. Only its id and hidden image
// are returned.
func (s *GameService) StartGame(ctx context.Context) (*models.MysteryCard, error) {
	repo := s.repomanager.Cards(s.db)

	for range maxDrawAttempts {
		count, err := repo.Count(ctx)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, common.ErrorNotFound
		}

		card, err := repo.FindAtOffset(ctx, s.intN(count))
		if errors.Is(err, common.ErrorNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		return &models.MysteryCard{ID: card.ID, HiddenImageRef: card.HiddenImageRef}, nil
	}

	return nil, common.ErrorNotFound
}

// SubmitGuess compares guess with the card's attributes. The card's name and
// revealed image are included only when every attribute matches.
func (s *GameService) SubmitGuess(ctx context.Context, cardID int64, guess models.Guess) (*models.GuessResult, error) {
	if err := guess.Validate(); err != nil {
		return nil, err
	}

	card, err := s.repomanager.Cards(s.db).FindByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	return evaluate(card, guess), nil
}

func evaluate(card *models.Card, guess models.Guess) *models.GuessResult {
	per := models.FieldMatches{
		Type:         card.Type == guess.Type,
		Level:        card.Level == guess.Level,
		ElementClass: card.ElementClass == guess.ElementClass,
	}

	res := &models.GuessResult{
		PerField:   per,
		AllCorrect: per.Type && per.Level && per.ElementClass,
	}
	if res.AllCorrect {
		res.Reveal = &models.Reveal{Name: card.Name, RevealedImageRef: card.RevealedImageRef}
	}

	return res
}
