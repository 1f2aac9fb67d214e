package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/mysterycard/internal/dbx"
	"github.com/dmitrijs2005/mysterycard/internal/server/models"
	"github.com/dmitrijs2005/mysterycard/internal/server/repositories/repomanager"
)

// CardPatch holds optional card changes. Nil fields are left as is.
type CardPatch struct {
	Name             *string
	HiddenImageRef   *string
	RevealedImageRef *string
	Type             *models.CardType
	Level            *int
	ElementClass     *models.Element
}

// CardService manages the card catalogue.
type CardService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCardService(db *sql.DB, m repomanager.RepositoryManager) *CardService {
	return &CardService{db: db, repomanager: m}
}

func (s *CardService) CreateCard(ctx context.Context, card models.Card) (*models.Card, error) {
	card.ID = 0
	if err := card.Validate(); err != nil {
		return nil, err
	}
	return s.repomanager.Cards(s.db).Create(ctx, &card)
}

func (s *CardService) GetCard(ctx context.Context, id int64) (*models.Card, error) {
	return s.repomanager.Cards(s.db).FindByID(ctx, id)
}

func (s *CardService) ListCards(ctx context.Context) ([]models.Card, error) {
	return s.repomanager.Cards(s.db).List(ctx)
}

// UpdateCard applies patch and re-validates the whole card before saving.
func (s *CardService) UpdateCard(ctx context.Context, id int64, patch CardPatch) (*models.Card, error) {
	var updated *models.Card
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Cards(tx)

		card, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		patch.apply(card)
		if err := card.Validate(); err != nil {
			return err
		}

		if err := repo.Update(ctx, card); err != nil {
			return err
		}
		updated = card
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *CardService) DeleteCard(ctx context.Context, id int64) error {
	return s.repomanager.Cards(s.db).Delete(ctx, id)
}

func (p CardPatch) apply(c *models.Card) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.HiddenImageRef != nil {
		c.HiddenImageRef = *p.HiddenImageRef
	}
	if p.RevealedImageRef != nil {
		c.RevealedImageRef = *p.RevealedImageRef
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Level != nil {
		c.Level = *p.Level
	}
	if p.ElementClass != nil {
		c.ElementClass = *p.ElementClass
	}
}
