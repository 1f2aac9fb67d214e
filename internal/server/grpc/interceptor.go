package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/mysterycard/internal/common"
	"github.com/dmitrijs2005/mysterycard/internal/logging"
	"github.com/dmitrijs2005/mysterycard/internal/server/auth"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// ClaimsFromContext returns the session claims stored by the access
// interceptor. Public routes have none.
func ClaimsFromContext(ctx context.Context) (*auth.SessionClaims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.SessionClaims)
	return c, ok && c != nil
}

// tokenFromMetadata prefers the access_token key and falls back to an
// "authorization: Bearer" header.
func tokenFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 && values[0] != "" {
		return values[0]
	}
	for _, v := range md.Get(common.AuthorizationHeaderName) {
		if scheme, token, ok := strings.Cut(v, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return ""
}

func (s *GRPCServer) accessInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	d := s.gate.Check(info.FullMethod, tokenFromMetadata(ctx))
	s.observer.ObserveGate(d.State.String())

	if !d.Allowed() {
		s.logger.Debug(ctx, "access denied", "method", info.FullMethod, "reason", d.Reason)
		return nil, toStatus(d.Reason)
	}

	if d.Claims != nil {
		ctx = context.WithValue(ctx, claimsKey, d.Claims)
	}

	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	requestID := uuid.NewString()
	_ = grpc.SetHeader(ctx, metadata.Pairs("x-request-id", requestID))
	ctx = logging.ContextWith(ctx, "request_id", requestID)

	resp, err := handler(ctx, req)

	code := status.Code(err)
	s.observer.ObserveCall(info.FullMethod, code.String())
	s.logger.Info(ctx, "grpc call",
		"method", info.FullMethod,
		"code", code.String(),
		"duration", time.Since(start),
	)

	return resp, err
}
