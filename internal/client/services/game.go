// Package services holds the client's use cases: signing in, playing rounds
// and the admin card tools, with state kept in the local store.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/mysterycard/internal/client/models"
	"github.com/dmitrijs2005/mysterycard/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/mysterycard/internal/client/repositories/rounds"
	"github.com/dmitrijs2005/mysterycard/internal/wire"
)

const sessionKey = "session"

var ErrNotSignedIn = errors.New("not signed in")

// API is the part of the remote service the client uses.
type API interface {
	SetToken(token string)
	Ping(ctx context.Context) error
	Register(ctx context.Context, email, password string) (*wire.AccountView, error)
	Login(ctx context.Context, email, password string) (*wire.SessionResponse, error)
	AdminKey(ctx context.Context, key string) (*wire.SessionResponse, error)
	StartGame(ctx context.Context) (*wire.MysteryCardResponse, error)
	SubmitGuess(ctx context.Context, req *wire.GuessRequest) (*wire.GuessResponse, error)
	Profile(ctx context.Context) (*wire.AccountView, error)
	ListCards(ctx context.Context) ([]wire.CardView, error)
	CreateCard(ctx context.Context, req *wire.CardRequest) (*wire.CardView, error)
	DeleteCard(ctx context.Context, id int64) error
	ImageUploadURL(ctx context.Context) (*wire.ImageUploadResponse, error)
}

// Guess is what the player typed for a round.
type Guess struct {
	Type         string
	Level        int
	ElementClass string
}

type GameService struct {
	api      API
	metadata metadata.Repository
	rounds   rounds.Repository
	now      func() time.Time

	session *models.Session
	current *wire.MysteryCardResponse
}

func NewGameService(api API, md metadata.Repository, r rounds.Repository) *GameService {
	return &GameService{api: api, metadata: md, rounds: r, now: time.Now}
}

// Restore loads a saved, unexpired session. It reports whether one was found.
func (s *GameService) Restore(ctx context.Context) (bool, error) {
	var session models.Session
	found, err := s.metadata.Load(ctx, sessionKey, &session)
	switch {
	case errors.Is(err, metadata.ErrUndecodable):
		return false, s.metadata.Delete(ctx, sessionKey)
	case err != nil || !found:
		return false, err
	}

	if session.Expired(s.now()) {
		return false, s.metadata.Delete(ctx, sessionKey)
	}

	s.use(&session)
	return true, nil
}

func (s *GameService) Session() *models.Session {
	return s.session
}

func (s *GameService) Register(ctx context.Context, email, password string) error {
	_, err := s.api.Register(ctx, strings.TrimSpace(email), password)
	return err
}

func (s *GameService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	resp, err := s.api.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, resp)
}

// Elevate trades the admin key for an admin session.
func (s *GameService) Elevate(ctx context.Context, key string) (*models.Session, error) {
	resp, err := s.api.AdminKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, resp)
}

func (s *GameService) Logout(ctx context.Context) error {
	s.session = nil
	s.current = nil
	s.api.SetToken("")
	return s.metadata.Delete(ctx, sessionKey)
}

// Play starts a round and remembers its card for the next Guess.
func (s *GameService) Play(ctx context.Context) (*wire.MysteryCardResponse, error) {
	if s.session == nil {
		return nil, ErrNotSignedIn
	}
	card, err := s.api.StartGame(ctx)
	if err != nil {
		return nil, err
	}
	s.current = card
	return card, nil
}

// Guess submits g for the current round and records the outcome. A solved
// round is finished; a missed one stays open for another try.
func (s *GameService) Guess(ctx context.Context, g Guess) (*wire.GuessResponse, error) {
	if s.session == nil {
		return nil, ErrNotSignedIn
	}
	if s.current == nil {
		return nil, errors.New("no round in progress, use play first")
	}

	req := &wire.GuessRequest{
		CardID:       s.current.CardID,
		Type:         strings.ToLower(strings.TrimSpace(g.Type)),
		Level:        g.Level,
		ElementClass: strings.ToLower(strings.TrimSpace(g.ElementClass)),
	}
	resp, err := s.api.SubmitGuess(ctx, req)
	if err != nil {
		return nil, err
	}

	round := &models.Round{
		CardID:         req.CardID,
		GuessedType:    req.Type,
		GuessedLevel:   req.Level,
		GuessedElement: req.ElementClass,
		AllCorrect:     resp.AllCorrect,
		CardName:       resp.CardName,
		PlayedAt:       s.now(),
	}
	if _, err := s.rounds.Add(ctx, round); err != nil {
		return resp, fmt.Errorf("record round: %w", err)
	}

	if resp.AllCorrect {
		s.current = nil
	}
	return resp, nil
}

func (s *GameService) History(ctx context.Context, limit int) ([]models.Round, models.Stats, error) {
	list, err := s.rounds.Recent(ctx, limit)
	if err != nil {
		return nil, models.Stats{}, err
	}
	stats, err := s.rounds.Stats(ctx)
	if err != nil {
		return nil, models.Stats{}, err
	}
	return list, stats, nil
}

// ClearHistory forgets every locally recorded round.
func (s *GameService) ClearHistory(ctx context.Context) error {
	return s.rounds.Clear(ctx)
}

func (s *GameService) Profile(ctx context.Context) (*wire.AccountView, error) {
	if s.session == nil {
		return nil, ErrNotSignedIn
	}
	return s.api.Profile(ctx)
}

func (s *GameService) Ping(ctx context.Context) error {
	return s.api.Ping(ctx)
}

func (s *GameService) save(ctx context.Context, resp *wire.SessionResponse) (*models.Session, error) {
	session := &models.Session{
		Token:     resp.Token,
		AccountID: resp.AccountID,
		Email:     resp.Email,
		IsAdmin:   resp.IsAdmin,
		ExpiresAt: resp.ExpiresAt,
	}

	if err := s.metadata.Save(ctx, sessionKey, session); err != nil {
		return nil, err
	}

	s.use(session)
	return session, nil
}

func (s *GameService) use(session *models.Session) {
	s.session = session
	s.current = nil
	s.api.SetToken(session.Token)
}
