package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/wildpay/internal/auth"
	"github.com/mmynk/wildpay/internal/events"
	"github.com/mmynk/wildpay/internal/metrics"
	"github.com/mmynk/wildpay/internal/middleware"
	"github.com/mmynk/wildpay/internal/models"
	"github.com/mmynk/wildpay/internal/storage/sqlite"
	"github.com/mmynk/wildpay/pkg/api"
)

// testEnv is a running server over a temp SQLite database plus typed clients.
type testEnv struct {
	store        *sqlite.SQLiteStore
	jwt          *auth.JWTManager
	events       *events.Recorder
	metrics      *metrics.Metrics
	auth         *api.AuthServiceClient
	groups       *api.GroupServiceClient
	expenditures *api.ExpenditureServiceClient
	settlements  *api.SettlementServiceClient
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "create store")

	env := &testEnv{
		store:   store,
		jwt:     auth.NewJWTManager("test-secret", time.Hour),
		events:  &events.Recorder{},
		metrics: metrics.New(),
	}

	required := connect.WithInterceptors(middleware.RequireAuth(env.jwt))
	optional := connect.WithInterceptors(middleware.OptionalAuth(env.jwt))
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	mux := http.NewServeMux()
	mux.Handle(api.NewAuthServiceHandler(NewAuthService(authenticator, env.jwt, store, nil), optional))
	mux.Handle(api.NewGroupServiceHandler(NewGroupService(store), required))
	mux.Handle(api.NewExpenditureServiceHandler(NewExpenditureService(store, env.events), required))
	mux.Handle(api.NewSettlementServiceHandler(NewSettlementService(store, env.events, env.metrics), required))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	env.auth = api.NewAuthServiceClient(server.Client(), server.URL)
	env.groups = api.NewGroupServiceClient(server.Client(), server.URL)
	env.expenditures = api.NewExpenditureServiceClient(server.Client(), server.URL)
	env.settlements = api.NewSettlementServiceClient(server.Client(), server.URL)
	return env
}

// testUser is a registered account plus a valid token.
type testUser struct {
	*models.User
	token string
}

func (env *testEnv) user(t *testing.T, name string) testUser {
	t.Helper()

	u := models.NewUser(auth.NormalizeEmail(name+"@example.com"), name, "unused")
	require.NoError(t, env.store.CreateUser(context.Background(), u))
	token, err := env.jwt.Generate(u)
	require.NoError(t, err)
	return testUser{User: u, token: token}
}

// as builds a request authenticated as u.
func as[T any](u testUser, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+u.token)
	return req
}

// group creates a group owned by owner and adds the other users.
func (env *testEnv) group(t *testing.T, owner testUser, others ...testUser) string {
	t.Helper()
	ctx := context.Background()

	resp, err := env.groups.CreateGroup(ctx, as(owner, &api.CreateGroupRequest{Name: "Test group"}))
	require.NoError(t, err)
	groupID := resp.Msg.Group.ID

	for _, u := range others {
		_, err := env.groups.AddMember(ctx, as(owner, &api.AddMemberRequest{GroupID: groupID, Email: u.Email}))
		require.NoError(t, err)
	}
	return groupID
}

func (env *testEnv) expenditure(t *testing.T, u testUser, req *api.CreateExpenditureRequest) *api.Expenditure {
	t.Helper()

	resp, err := env.expenditures.CreateExpenditure(context.Background(), as(u, req))
	require.NoError(t, err)
	return resp.Msg.Expenditure
}
