package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/wildpay/pkg/api"
)

func TestAuthService(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "dana@example.com", DisplayName: "Dana", Password: "long-password",
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Msg.Token)
	assert.Equal(t, "Dana", reg.Msg.User.DisplayName)

	t.Run("register errors", func(t *testing.T) {
		tests := []struct {
			name string
			req  *api.RegisterRequest
			want connect.Code
		}{
			{"duplicate", &api.RegisterRequest{Email: "dana@example.com", DisplayName: "D", Password: "long-password"}, connect.CodeAlreadyExists},
			{"weak password", &api.RegisterRequest{Email: "eve@example.com", DisplayName: "Eve", Password: "short"}, connect.CodeInvalidArgument},
			{"no name", &api.RegisterRequest{Email: "eve@example.com", Password: "long-password"}, connect.CodeInvalidArgument},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := env.auth.Register(ctx, connect.NewRequest(tt.req))
				assert.Equal(t, tt.want, connect.CodeOf(err))
			})
		}
	})

	t.Run("login", func(t *testing.T) {
		resp, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "dana@example.com", Password: "long-password"}))
		require.NoError(t, err)
		assert.Equal(t, reg.Msg.User.ID, resp.Msg.User.ID)

		_, err = env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "dana@example.com", Password: "wrong-password"}))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

		_, err = env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "dana@example.com"}))
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})

	t.Run("current user", func(t *testing.T) {
		req := connect.NewRequest(&emptypb.Empty{})
		req.Header().Set("Authorization", "Bearer "+reg.Msg.Token)
		resp, err := env.auth.GetCurrentUser(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "dana@example.com", resp.Msg.User.Email)

		_, err = env.auth.GetCurrentUser(ctx, connect.NewRequest(&emptypb.Empty{}))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})
}
