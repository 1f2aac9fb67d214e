// Package api is the client side of the Mystery Card gRPC service.
package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/mysterycard/internal/common"
	"github.com/dmitrijs2005/mysterycard/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	conn    *grpc.ClientConn
	timeout time.Duration

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := c.Token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient prepares a lazy connection to endpoint; nothing is dialled
// until the first call. Extra dial options are appended, which tests use to
// swap the transport.
func NewGRPCClient(endpoint string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{timeout: timeout}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(wire.CodecName)),
	}, opts...)

	conn, err := grpc.NewClient(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

func (c *GRPCClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *GRPCClient) invoke(ctx context.Context, method string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return mapError(c.conn.Invoke(ctx, wire.FullMethod(method), in, out))
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	var resp wire.PingResponse
	if err := c.invoke(ctx, wire.MethodPing, &wire.Empty{}, &resp); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (c *GRPCClient) Register(ctx context.Context, email, password string) (*wire.AccountView, error) {
	var resp wire.AccountResponse
	if err := c.invoke(ctx, wire.MethodRegister, &wire.CredentialsRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp.Account, nil
}

func (c *GRPCClient) Login(ctx context.Context, email, password string) (*wire.SessionResponse, error) {
	var resp wire.SessionResponse
	if err := c.invoke(ctx, wire.MethodLogin, &wire.CredentialsRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *GRPCClient) AdminKey(ctx context.Context, key string) (*wire.SessionResponse, error) {
	var resp wire.SessionResponse
	if err := c.invoke(ctx, wire.MethodAdminKey, &wire.AdminKeyRequest{Key: key}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *GRPCClient) StartGame(ctx context.Context) (*wire.MysteryCardResponse, error) {
	var resp wire.MysteryCardResponse
	if err := c.invoke(ctx, wire.MethodStartGame, &wire.Empty{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *GRPCClient) SubmitGuess(ctx context.Context, req *wire.GuessRequest) (*wire.GuessResponse, error) {
	var resp wire.GuessResponse
	if err := c.invoke(ctx, wire.MethodSubmitGuess, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *GRPCClient) Profile(ctx context.Context) (*wire.AccountView, error) {
	var resp wire.AccountResponse
	if err := c.invoke(ctx, wire.MethodGetProfile, &wire.Empty{}, &resp); err != nil {
		return nil, err
	}
	return &resp.Account, nil
}

func (c *GRPCClient) ListCards(ctx context.Context) ([]wire.CardView, error) {
	var resp wire.CardListResponse
	if err := c.invoke(ctx, wire.MethodListCards, &wire.Empty{}, &resp); err != nil {
		return nil, err
	}
	return resp.Cards, nil
}

func (c *GRPCClient) CreateCard(ctx context.Context, req *wire.CardRequest) (*wire.CardView, error) {
	var resp wire.CardResponse
	if err := c.invoke(ctx, wire.MethodCreateCard, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Card, nil
}

func (c *GRPCClient) DeleteCard(ctx context.Context, id int64) error {
	return c.invoke(ctx, wire.MethodDeleteCard, &wire.CardIDRequest{ID: id}, &wire.Empty{})
}

func (c *GRPCClient) ImageUploadURL(ctx context.Context) (*wire.ImageUploadResponse, error) {
	var resp wire.ImageUploadResponse
	if err := c.invoke(ctx, wire.MethodImageUploadURL, &wire.Empty{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// mapError turns gRPC statuses into the package's sentinel errors.
// Validation messages from the server are kept.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return ErrForbidden
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalid, st.Message())
	case codes.FailedPrecondition:
		return ErrNotConfigured
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
