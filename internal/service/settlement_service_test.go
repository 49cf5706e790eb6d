package service

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/wildpay/internal/calculator"
	"github.com/mmynk/wildpay/internal/events"
	"github.com/mmynk/wildpay/internal/models"
	"github.com/mmynk/wildpay/pkg/api"
)

func (env *testEnv) balances(t *testing.T, u testUser, groupID string) *api.GetGroupBalancesResponse {
	t.Helper()

	resp, err := env.settlements.GetGroupBalances(context.Background(), as(u, &api.GetGroupBalancesRequest{GroupID: groupID}))
	require.NoError(t, err)
	return resp.Msg
}

func TestGetGroupBalances_Settled(t *testing.T) {
	env := setupTestServer(t)
	alice := env.user(t, "Alice")
	bob := env.user(t, "Bob")
	charlie := env.user(t, "Charlie")
	groupID := env.group(t, alice, bob, charlie)
	everyone := []string{alice.ID, bob.ID, charlie.ID}

	env.expenditure(t, alice, &api.CreateExpenditureRequest{
		GroupID: groupID, Title: "Cabin", Amount: 90, PayerID: alice.ID, ContributorIDs: everyone,
	})

	got := env.balances(t, bob, groupID)

	assert.Equal(t, 90.0, got.TotalAmount)
	assert.Equal(t, "90.00", got.TotalDisplay)
	assert.Equal(t, []api.MemberBalance{
		{MemberID: alice.ID, DisplayName: "Alice", Balance: 60, BalanceDisplay: "60.00"},
		{MemberID: bob.ID, DisplayName: "Bob", Balance: -30, BalanceDisplay: "-30.00"},
		{MemberID: charlie.ID, DisplayName: "Charlie", Balance: -30, BalanceDisplay: "-30.00"},
	}, got.Balances)
	assert.Equal(t, []api.Debt{
		{FromID: bob.ID, FromName: "Bob", ToID: alice.ID, ToName: "Alice", Amount: 30, AmountDisplay: "30.00"},
		{FromID: charlie.ID, FromName: "Charlie", ToID: alice.ID, ToName: "Alice", Amount: 30, AmountDisplay: "30.00"},
	}, got.Debts)
	assert.Empty(t, got.Warnings)
	assert.Equal(t, "settled", got.Status)
	assert.Equal(t, calculator.MessageSettled, got.Message)

	computed := env.events.OfType(events.SettlementComputed)
	require.Len(t, computed, 1)
	assert.Equal(t, groupID, computed[0].GroupID)
}

func TestGetGroupBalances_StatusMessages(t *testing.T) {
	tests := []struct {
		name         string
		expenditures func(groupID string, alice, bob testUser) []*api.CreateExpenditureRequest
		wantStatus   string
		wantMessage  string
		wantWarnings []string
	}{
		{
			name: "no expenditures",
			expenditures: func(string, testUser, testUser) []*api.CreateExpenditureRequest {
				return nil
			},
			wantStatus:  "nothing_to_settle",
			wantMessage: calculator.MessageNothingToSettle,
		},
		{
			name: "missing payer",
			expenditures: func(groupID string, alice, bob testUser) []*api.CreateExpenditureRequest {
				return []*api.CreateExpenditureRequest{
					{GroupID: groupID, Title: "Unpaid", Amount: 30, ContributorIDs: []string{alice.ID, bob.ID}},
				}
			},
			wantStatus:   "excluded",
			wantMessage:  calculator.MessageExcluded,
			wantWarnings: []string{"missing_payer"},
		},
		{
			name: "empty contributors",
			expenditures: func(groupID string, alice, _ testUser) []*api.CreateExpenditureRequest {
				return []*api.CreateExpenditureRequest{
					{GroupID: groupID, Title: "Nobody", Amount: 30, PayerID: alice.ID},
				}
			},
			wantStatus:   "rejected",
			wantMessage:  calculator.MessageRejected,
			wantWarnings: []string{"empty_contributor_set"},
		},
		{
			name: "missing payer wins over empty contributors",
			expenditures: func(groupID string, alice, bob testUser) []*api.CreateExpenditureRequest {
				return []*api.CreateExpenditureRequest{
					{GroupID: groupID, Title: "Nobody", Amount: 30, PayerID: alice.ID},
					{GroupID: groupID, Title: "Unpaid", Amount: 10, ContributorIDs: []string{bob.ID}},
					{GroupID: groupID, Title: "Lunch", Amount: 20, PayerID: alice.ID, ContributorIDs: []string{alice.ID, bob.ID}},
				}
			},
			wantStatus:   "excluded",
			wantMessage:  calculator.MessageExcluded,
			wantWarnings: []string{"missing_payer", "empty_contributor_set"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestServer(t)
			alice := env.user(t, "Alice")
			bob := env.user(t, "Bob")
			groupID := env.group(t, alice, bob)

			for _, req := range tt.expenditures(groupID, alice, bob) {
				env.expenditure(t, alice, req)
			}

			got := env.balances(t, alice, groupID)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantMessage, got.Message)
			assert.Equal(t, tt.wantWarnings, got.Warnings)
			assert.Len(t, got.Balances, 2, "every member appears")
		})
	}
}

func TestGetGroupBalances_FormerMember(t *testing.T) {
	env := setupTestServer(t)
	alice := env.user(t, "Alice")
	bob := env.user(t, "Bob")
	groupID := env.group(t, alice, bob)
	ctx := context.Background()

	env.expenditure(t, bob, &api.CreateExpenditureRequest{
		GroupID: groupID, Title: "Tickets", Amount: 40, PayerID: bob.ID, ContributorIDs: []string{alice.ID, bob.ID},
	})
	_, err := env.groups.RemoveMember(ctx, as(alice, &api.RemoveMemberRequest{GroupID: groupID, UserID: bob.ID}))
	require.NoError(t, err)

	got := env.balances(t, alice, groupID)
	require.Len(t, got.Balances, 2)
	assert.Equal(t, alice.ID, got.Balances[0].MemberID)
	assert.Equal(t, "Bob", got.Balances[1].DisplayName, "former member keeps a named balance")
	assert.Equal(t, []api.Debt{
		{FromID: alice.ID, FromName: "Alice", ToID: bob.ID, ToName: "Bob", Amount: 20, AmountDisplay: "20.00"},
	}, got.Debts)
	assert.Empty(t, got.Warnings)
}

func TestGetGroupBalances_Access(t *testing.T) {
	env := setupTestServer(t)
	alice := env.user(t, "Alice")
	mallory := env.user(t, "Mallory")
	groupID := env.group(t, alice)
	ctx := context.Background()

	_, err := env.settlements.GetGroupBalances(ctx, as(mallory, &api.GetGroupBalancesRequest{GroupID: groupID}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = env.settlements.GetGroupBalances(ctx, as(alice, &api.GetGroupBalancesRequest{GroupID: "missing"}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = env.settlements.GetGroupBalances(ctx, connect.NewRequest(&api.GetGroupBalancesRequest{GroupID: groupID}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	assert.Empty(t, env.events.OfType(events.SettlementComputed), "denied requests publish nothing")
}

func TestGetGroupBalances_Metrics(t *testing.T) {
	env := setupTestServer(t)
	alice := env.user(t, "Alice")
	groupID := env.group(t, alice)

	env.balances(t, alice, groupID)
	env.balances(t, alice, groupID)

	count, err := testutil.GatherAndCount(env.metrics.Registry(), "wildpay_settlement_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "one series for status nothing_to_settle")
}

func TestGetGroupBalances_UnbalancedInput(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	env := setupTestServer(t)
	alice := env.user(t, "Alice")
	bob := env.user(t, "Bob")
	charlie := env.user(t, "Charlie")
	groupID := env.group(t, alice, bob, charlie)

	// three equal shares of 1e17 do not add back up to 1e17 in float64
	env.expenditure(t, alice, &api.CreateExpenditureRequest{
		GroupID: groupID, Title: "Yacht", Amount: 1e17, PayerID: alice.ID,
		ContributorIDs: []string{alice.ID, bob.ID, charlie.ID},
	})

	got := env.balances(t, alice, groupID)

	assert.Contains(t, got.Warnings, string(models.WarningUnbalancedInput))
	assert.Equal(t, "settled", got.Status)
	assert.Len(t, got.Debts, 2)

	assert.Contains(t, logs.String(), "Balances do not sum to zero")
	assert.Contains(t, logs.String(), "group_id="+groupID)

	expected := `
# HELP wildpay_settlement_unbalanced_total Settlements whose balances did not sum to zero.
# TYPE wildpay_settlement_unbalanced_total counter
wildpay_settlement_unbalanced_total 1
`
	require.NoError(t, testutil.GatherAndCompare(env.metrics.Registry(), strings.NewReader(expected), "wildpay_settlement_unbalanced_total"))
}
