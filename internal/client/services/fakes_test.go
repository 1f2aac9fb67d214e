package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/mysterycard/internal/client/store"
	"github.com/dmitrijs2005/mysterycard/internal/wire"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	token string

	session  *wire.SessionResponse
	loginErr error

	card     *wire.MysteryCardResponse
	guess    *wire.GuessResponse
	guessErr error
	gotGuess *wire.GuessRequest

	cards     []wire.CardView
	deletedID int64
	upload    *wire.ImageUploadResponse
}

func (f *fakeAPI) SetToken(token string)      { f.token = token }
func (f *fakeAPI) Ping(context.Context) error { return nil }

func (f *fakeAPI) Register(_ context.Context, email, _ string) (*wire.AccountView, error) {
	return &wire.AccountView{ID: 1, Email: email}, nil
}

func (f *fakeAPI) Login(context.Context, string, string) (*wire.SessionResponse, error) {
	return f.session, f.loginErr
}

func (f *fakeAPI) AdminKey(context.Context, string) (*wire.SessionResponse, error) {
	return f.session, f.loginErr
}

func (f *fakeAPI) StartGame(context.Context) (*wire.MysteryCardResponse, error) {
	return f.card, nil
}

func (f *fakeAPI) SubmitGuess(_ context.Context, req *wire.GuessRequest) (*wire.GuessResponse, error) {
	f.gotGuess = req
	return f.guess, f.guessErr
}

func (f *fakeAPI) Profile(context.Context) (*wire.AccountView, error) {
	return &wire.AccountView{ID: 1}, nil
}

func (f *fakeAPI) ListCards(context.Context) ([]wire.CardView, error) { return f.cards, nil }

func (f *fakeAPI) CreateCard(_ context.Context, req *wire.CardRequest) (*wire.CardView, error) {
	return &wire.CardView{ID: 1, Name: req.Name}, nil
}

func (f *fakeAPI) DeleteCard(_ context.Context, id int64) error {
	f.deletedID = id
	return nil
}

func (f *fakeAPI) ImageUploadURL(context.Context) (*wire.ImageUploadResponse, error) {
	return f.upload, nil
}

func openStore(t *testing.T) *store.Repositories {
	t.Helper()
	repos, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}
