// Package cli is the interactive terminal client for Mystery Card.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/mysterycard/internal/client/api"
	"github.com/dmitrijs2005/mysterycard/internal/client/config"
	"github.com/dmitrijs2005/mysterycard/internal/client/models"
	"github.com/dmitrijs2005/mysterycard/internal/client/services"
	"github.com/dmitrijs2005/mysterycard/internal/client/store"
	"github.com/dmitrijs2005/mysterycard/internal/filex"
	"github.com/dmitrijs2005/mysterycard/internal/wire"
)

const (
	stateFile    = "state.db"
	historyLimit = 10
)

type gameService interface {
	Restore(ctx context.Context) (bool, error)
	Session() *models.Session
	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Elevate(ctx context.Context, key string) (*models.Session, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*wire.AccountView, error)
	Play(ctx context.Context) (*wire.MysteryCardResponse, error)
	Guess(ctx context.Context, g services.Guess) (*wire.GuessResponse, error)
	History(ctx context.Context, limit int) ([]models.Round, models.Stats, error)
	ClearHistory(ctx context.Context) error
	Ping(ctx context.Context) error
}

type cardAdmin interface {
	List(ctx context.Context) ([]wire.CardView, error)
	Create(ctx context.Context, req *wire.CardRequest) (*wire.CardView, error)
	Delete(ctx context.Context, id int64) error
	UploadImage(ctx context.Context, path string) (string, error)
}

type App struct {
	config *config.Config
	game   gameService
	admin  cardAdmin
	reader *bufio.Reader
	out    io.Writer
	closer func() error
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	dir, err := filex.EnsureDir(cfg.StateDir)
	if err != nil {
		return nil, err
	}

	repos, err := store.Open(ctx, filepath.Join(dir, stateFile))
	if err != nil {
		return nil, fmt.Errorf("error initializing local state: %w", err)
	}

	client, err := api.NewGRPCClient(cfg.ServerEndpointAddr, cfg.RequestTimeout)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	return &App{
		config: cfg,
		game:   services.NewGameService(client, repos.Metadata, repos.Rounds),
		admin:  services.NewCardAdmin(client),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		closer: func() error {
			return errors.Join(client.Close(), repos.Close())
		},
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.closer(); err != nil {
			log.Printf("close: %v", err)
		}
	}()

	fmt.Fprintln(a.out, "Welcome to Mystery Card (type 'help' for commands)")

	if ok, err := a.game.Restore(ctx); err != nil {
		log.Printf("restore session: %v", err)
	} else if ok {
		fmt.Fprintf(a.out, "Signed in as %s\n", a.who())
	}

	if err := a.game.Ping(ctx); err != nil {
		log.Printf("Server unavailable at %s: %v", a.config.ServerEndpointAddr, err)
	}

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.game.Session() != nil
}

func (a *App) isAdmin() bool {
	s := a.game.Session()
	return s != nil && s.IsAdmin
}

func (a *App) who() string {
	s := a.game.Session()
	switch {
	case s == nil:
		return ""
	case s.Email != "":
		return s.Email
	default:
		return "admin"
	}
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return ""
	}
	s := a.who()
	if a.isAdmin() && s != "admin" {
		s += " admin"
	}
	return "(" + s + ")"
}
