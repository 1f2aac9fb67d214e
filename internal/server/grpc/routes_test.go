package grpc

import (
	"testing"

	"github.com/dmitrijs2005/mysterycard/internal/server/gate"
	"github.com/dmitrijs2005/mysterycard/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessPolicy_CoversEveryMethod(t *testing.T) {
	policy := AccessPolicy()

	require.Len(t, policy, len(serviceDesc.Methods))
	for _, m := range serviceDesc.Methods {
		_, ok := policy[wire.FullMethod(m.MethodName)]
		assert.Truef(t, ok, "method %s has no access rule", m.MethodName)
	}
}

func TestAccessPolicy_Levels(t *testing.T) {
	policy := AccessPolicy()

	tests := []struct {
		method string
		want   gate.Access
	}{
		{wire.MethodPing, gate.Public},
		{wire.MethodRegister, gate.Public},
		{wire.MethodLogin, gate.Public},
		{wire.MethodAdminKey, gate.Public},
		{wire.MethodStartGame, gate.Authenticated},
		{wire.MethodSubmitGuess, gate.Authenticated},
		{wire.MethodGetProfile, gate.Authenticated},
		{wire.MethodListCards, gate.AdminOnly},
		{wire.MethodGetCard, gate.AdminOnly},
		{wire.MethodCreateCard, gate.AdminOnly},
		{wire.MethodImageUploadURL, gate.AdminOnly},
		{wire.MethodDeleteAccount, gate.AdminOnly},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.For(wire.FullMethod(tt.method)))
		})
	}
}

func TestFullMethod(t *testing.T) {
	assert.Equal(t, "/mysterycard.v1.MysteryCardService/Ping", wire.FullMethod(wire.MethodPing))
}
