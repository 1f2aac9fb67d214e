// Package grpc exposes the game and its administration over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/mysterycard/internal/logging"
	"github.com/dmitrijs2005/mysterycard/internal/server/gate"
	"github.com/dmitrijs2005/mysterycard/internal/server/models"
	"github.com/dmitrijs2005/mysterycard/internal/server/services"
	"github.com/dmitrijs2005/mysterycard/internal/wire"
	"google.golang.org/grpc"
)

type AccountService interface {
	Register(ctx context.Context, email, secret string) (*models.Account, error)
	Login(ctx context.Context, email, secret string) (*services.LoginResult, error)
	GetAccount(ctx context.Context, id int64) (*models.Account, error)
	UpdateProfile(ctx context.Context, id int64, patch services.AccountPatch) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	UpdateAccount(ctx context.Context, id int64, patch services.AccountPatch) (*models.Account, error)
	DeleteAccount(ctx context.Context, id int64) error
}

type AdminKeyService interface {
	Elevate(ctx context.Context, candidate string) (*services.LoginResult, error)
}

type GameService interface {
	StartGame(ctx context.Context) (*models.MysteryCard, error)
	SubmitGuess(ctx context.Context, cardID int64, guess models.Guess) (*models.GuessResult, error)
}

type CardService interface {
	CreateCard(ctx context.Context, card models.Card) (*models.Card, error)
	GetCard(ctx context.Context, id int64) (*models.Card, error)
	ListCards(ctx context.Context) ([]models.Card, error)
	UpdateCard(ctx context.Context, id int64, patch services.CardPatch) (*models.Card, error)
	DeleteCard(ctx context.Context, id int64) error
}

// ImageStore resolves stored image refs into client URLs.
type ImageStore interface {
	Resolve(ctx context.Context, ref string) (string, error)
	UploadURL(ctx context.Context) (key, url string, err error)
}

// Observer receives per-call counters.
type Observer interface {
	ObserveGate(state string)
	ObserveGuess(allCorrect bool)
	ObserveCall(method, code string)
}

type nopObserver struct{}

func (nopObserver) ObserveGate(string)         {}
func (nopObserver) ObserveGuess(bool)          {}
func (nopObserver) ObserveCall(string, string) {}

// Deps groups what the server dispatches to. Observer may be nil.
type Deps struct {
	Accounts  AccountService
	AdminKeys AdminKeyService
	Game      GameService
	Cards     CardService
	Images    ImageStore
	Gate      *gate.Gate
	Observer  Observer
}

type GRPCServer struct {
	address   string
	logger    logging.Logger
	accounts  AccountService
	adminKeys AdminKeyService
	game      GameService
	cards     CardService
	images    ImageStore
	gate      *gate.Gate
	observer  Observer
}

func NewGRPCServer(address string, l logging.Logger, d Deps) *GRPCServer {
	obs := d.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	return &GRPCServer{
		address:   address,
		logger:    l.With("module", "grpc_server"),
		accounts:  d.Accounts,
		adminKeys: d.AdminKeys,
		game:      d.Game,
		cards:     d.Cards,
		images:    d.Images,
		gate:      d.Gate,
		observer:  obs,
	}
}

// NewServer returns a grpc.Server with the interceptors installed and the
// service registered, ready to Serve.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.ForceServerCodec(wire.Codec{}),
		grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessInterceptor),
	}, opts...)

	srv := grpc.NewServer(opts...)
	srv.RegisterService(&serviceDesc, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve accepts calls on lis until ctx is cancelled, then drains in-flight
// calls and returns nil.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}
