package grpc

import (
	"github.com/dmitrijs2005/mysterycard/internal/server/gate"
	"github.com/dmitrijs2005/mysterycard/internal/wire"
)

// AccessPolicy is the single source of truth for who may call what.
// ListCards and GetCard expose answers and stay admin-only.
func AccessPolicy() gate.Policy {
	return gate.Policy{
		wire.FullMethod(wire.MethodPing):     gate.Public,
		wire.FullMethod(wire.MethodRegister): gate.Public,
		wire.FullMethod(wire.MethodLogin):    gate.Public,
		wire.FullMethod(wire.MethodAdminKey): gate.Public,

		wire.FullMethod(wire.MethodStartGame):     gate.Authenticated,
		wire.FullMethod(wire.MethodSubmitGuess):   gate.Authenticated,
		wire.FullMethod(wire.MethodGetProfile):    gate.Authenticated,
		wire.FullMethod(wire.MethodUpdateProfile): gate.Authenticated,

		wire.FullMethod(wire.MethodListCards):      gate.AdminOnly,
		wire.FullMethod(wire.MethodGetCard):        gate.AdminOnly,
		wire.FullMethod(wire.MethodCreateCard):     gate.AdminOnly,
		wire.FullMethod(wire.MethodUpdateCard):     gate.AdminOnly,
		wire.FullMethod(wire.MethodDeleteCard):     gate.AdminOnly,
		wire.FullMethod(wire.MethodImageUploadURL): gate.AdminOnly,
		wire.FullMethod(wire.MethodListAccounts):   gate.AdminOnly,
		wire.FullMethod(wire.MethodUpdateAccount):  gate.AdminOnly,
		wire.FullMethod(wire.MethodDeleteAccount):  gate.AdminOnly,
	}
}
