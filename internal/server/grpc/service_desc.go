package grpc

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mysterycard/internal/common"
	"github.com/dmitrijs2005/mysterycard/internal/wire"
	"google.golang.org/grpc"
)

// errMalformedRequest is returned for bodies that do not decode into the
// method's request type. The decoder's message is not passed on.
var errMalformedRequest = fmt.Errorf("%w: malformed request", common.ErrorValidation)

// unary builds a MethodDesc that decodes a *Req, runs the interceptor chain
// and dispatches to call. A body that fails to decode still goes through
// the chain, so the caller gets the gate's answer before InvalidArgument.
func unary[Req, Resp any](method string, call func(*GRPCServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			decErr := dec(in)
			s := srv.(*GRPCServer)
			handler := func(ctx context.Context, req any) (any, error) {
				if decErr != nil {
					return nil, toStatus(errMalformedRequest)
				}
				return call(s, ctx, req.(*Req))
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: wire.FullMethod(method)}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: wire.ServiceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		unary(wire.MethodPing, (*GRPCServer).Ping),
		unary(wire.MethodRegister, (*GRPCServer).Register),
		unary(wire.MethodLogin, (*GRPCServer).Login),
		unary(wire.MethodAdminKey, (*GRPCServer).AdminKey),
		unary(wire.MethodStartGame, (*GRPCServer).StartGame),
		unary(wire.MethodSubmitGuess, (*GRPCServer).SubmitGuess),
		unary(wire.MethodGetProfile, (*GRPCServer).GetProfile),
		unary(wire.MethodUpdateProfile, (*GRPCServer).UpdateProfile),
		unary(wire.MethodListCards, (*GRPCServer).ListCards),
		unary(wire.MethodGetCard, (*GRPCServer).GetCard),
		unary(wire.MethodCreateCard, (*GRPCServer).CreateCard),
		unary(wire.MethodUpdateCard, (*GRPCServer).UpdateCard),
		unary(wire.MethodDeleteCard, (*GRPCServer).DeleteCard),
		unary(wire.MethodImageUploadURL, (*GRPCServer).ImageUploadURL),
		unary(wire.MethodListAccounts, (*GRPCServer).ListAccounts),
		unary(wire.MethodUpdateAccount, (*GRPCServer).UpdateAccount),
		unary(wire.MethodDeleteAccount, (*GRPCServer).DeleteAccount),
	},
	Metadata: "mysterycard/v1/service",
}
