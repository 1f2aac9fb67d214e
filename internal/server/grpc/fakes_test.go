package grpc

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/mysterycard/internal/common"
	"github.com/dmitrijs2005/mysterycard/internal/logging"
	"github.com/dmitrijs2005/mysterycard/internal/server/auth"
	"github.com/dmitrijs2005/mysterycard/internal/server/gate"
	"github.com/dmitrijs2005/mysterycard/internal/server/models"
	"github.com/dmitrijs2005/mysterycard/internal/server/services"
	"github.com/dmitrijs2005/mysterycard/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
)

// ---- fakes ----

type fakeAccounts struct {
	registerResp *models.Account
	registerErr  error

	loginResp *services.LoginResult
	loginErr  error

	account    *models.Account
	accountErr error
	gotID      int64
	gotPatch   services.AccountPatch

	list    []models.Account
	listErr error

	deleteErr error
}

func (f *fakeAccounts) Register(ctx context.Context, email, secret string) (*models.Account, error) {
	return f.registerResp, f.registerErr
}

func (f *fakeAccounts) Login(ctx context.Context, email, secret string) (*services.LoginResult, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAccounts) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	f.gotID = id
	return f.account, f.accountErr
}

func (f *fakeAccounts) UpdateProfile(ctx context.Context, id int64, patch services.AccountPatch) (*models.Account, error) {
	f.gotID, f.gotPatch = id, patch
	return f.account, f.accountErr
}

func (f *fakeAccounts) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return f.list, f.listErr
}

func (f *fakeAccounts) UpdateAccount(ctx context.Context, id int64, patch services.AccountPatch) (*models.Account, error) {
	f.gotID, f.gotPatch = id, patch
	return f.account, f.accountErr
}

func (f *fakeAccounts) DeleteAccount(ctx context.Context, id int64) error {
	f.gotID = id
	return f.deleteErr
}

type fakeAdminKeys struct {
	codec *auth.Codec
	key   string
	err   error
}

func (f *fakeAdminKeys) Elevate(ctx context.Context, candidate string) (*services.LoginResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if candidate != f.key {
		return nil, common.ErrorUnauthorized
	}
	token, claims, err := f.codec.Issue(auth.Identity{IsAdmin: true})
	if err != nil {
		return nil, err
	}
	return &services.LoginResult{Token: token, Claims: claims}, nil
}

type fakeGame struct {
	mystery  *models.MysteryCard
	startErr error

	result   *models.GuessResult
	guessErr error
	gotCard  int64
	gotGuess models.Guess
}

func (f *fakeGame) StartGame(ctx context.Context) (*models.MysteryCard, error) {
	return f.mystery, f.startErr
}

func (f *fakeGame) SubmitGuess(ctx context.Context, cardID int64, guess models.Guess) (*models.GuessResult, error) {
	f.gotCard, f.gotGuess = cardID, guess
	return f.result, f.guessErr
}

type fakeCards struct {
	card *models.Card
	err  error
	list []models.Card

	created  models.Card
	gotID    int64
	gotPatch services.CardPatch
}

func (f *fakeCards) CreateCard(ctx context.Context, card models.Card) (*models.Card, error) {
	f.created = card
	return f.card, f.err
}

func (f *fakeCards) GetCard(ctx context.Context, id int64) (*models.Card, error) {
	f.gotID = id
	return f.card, f.err
}

func (f *fakeCards) ListCards(ctx context.Context) ([]models.Card, error) {
	return f.list, f.err
}

func (f *fakeCards) UpdateCard(ctx context.Context, id int64, patch services.CardPatch) (*models.Card, error) {
	f.gotID, f.gotPatch = id, patch
	return f.card, f.err
}

func (f *fakeCards) DeleteCard(ctx context.Context, id int64) error {
	f.gotID = id
	return f.err
}

// prefixImages resolves refs by prefixing them, so tests can tell a
// resolved URL from a raw ref.
type prefixImages struct {
	uploadErr error
}

func (prefixImages) Resolve(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	return "https://img.test/" + ref, nil
}

func (p prefixImages) UploadURL(ctx context.Context) (string, string, error) {
	if p.uploadErr != nil {
		return "", "", p.uploadErr
	}
	return "cards/k", "https://img.test/upload/cards/k", nil
}

type recordingObserver struct {
	mu      sync.Mutex
	gates   []string
	guesses []bool
	calls   []string
}

func (r *recordingObserver) ObserveGate(state string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gates = append(r.gates, state)
}

func (r *recordingObserver) ObserveGuess(allCorrect bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guesses = append(r.guesses, allCorrect)
}

func (r *recordingObserver) ObserveCall(method, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, method+" "+code)
}

// ---- in-process server ----

type testEnv struct {
	conn     *grpc.ClientConn
	codec    *auth.Codec
	accounts *fakeAccounts
	admin    *fakeAdminKeys
	game     *fakeGame
	cards    *fakeCards
	observer *recordingObserver
}

const testAdminKey = "admin-key-for-tests"

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	codec, err := auth.NewCodec([]byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	env := &testEnv{
		codec:    codec,
		accounts: &fakeAccounts{},
		admin:    &fakeAdminKeys{codec: codec, key: testAdminKey},
		game:     &fakeGame{},
		cards:    &fakeCards{},
		observer: &recordingObserver{},
	}

	s := NewGRPCServer("bufnet", logging.Nop(), Deps{
		Accounts:  env.accounts,
		AdminKeys: env.admin,
		Game:      env.game,
		Cards:     env.cards,
		Images:    prefixImages{},
		Gate:      gate.New(AccessPolicy(), codec),
		Observer:  env.observer,
	})

	lis := bufconn.Listen(1 << 20)
	srv := s.NewServer()
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(wire.CodecName)),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	env.conn = conn
	return env
}

func (e *testEnv) invoke(ctx context.Context, method string, in, out any) error {
	return e.conn.Invoke(ctx, wire.FullMethod(method), in, out)
}

func (e *testEnv) token(t *testing.T, id auth.Identity) string {
	t.Helper()
	token, _, err := e.codec.Issue(id)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

func withToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "access_token", token)
}
