package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/wildpay/internal/calculator"
	"github.com/mmynk/wildpay/internal/events"
	"github.com/mmynk/wildpay/internal/metrics"
	"github.com/mmynk/wildpay/internal/middleware"
	"github.com/mmynk/wildpay/internal/models"
	"github.com/mmynk/wildpay/internal/storage"
	"github.com/mmynk/wildpay/pkg/api"
)

// SettlementService implements the Connect SettlementService.
// Results are computed on every call and never stored.
type SettlementService struct {
	store     storage.Store
	publisher events.Publisher
	metrics   *metrics.Metrics
}

var _ api.SettlementServiceHandler = (*SettlementService)(nil)

// NewSettlementService creates the service. publisher and m may be nil.
func NewSettlementService(store storage.Store, publisher events.Publisher, m *metrics.Metrics) *SettlementService {
	return &SettlementService{store: store, publisher: orNoop(publisher), metrics: m}
}

// GetGroupBalances computes every member's balance and the payments that settle them.
func (s *SettlementService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetGroupBalances request received", "group_id", groupID)

	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errGroupIDRequired)
	}

	group, err := s.loadSnapshot(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupBalances failed - could not load group", "group_id", groupID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if err := checkAccess(ctx, group); err != nil {
		return nil, err
	}

	result := calculator.Settle(group)
	s.metrics.ObserveSettlement(result)

	if result.HasWarning(models.WarningUnbalancedInput) {
		slog.Warn("Balances do not sum to zero",
			"group_id", groupID,
			"imbalance", result.Imbalance,
		)
	}
	if result.MissingPayer > 0 || result.EmptyContributors > 0 {
		slog.Info("Expenditures left out of settlement",
			"group_id", groupID,
			"missing_payer", result.MissingPayer,
			"empty_contributors", result.EmptyContributors,
		)
	}

	names := s.displayNames(ctx, group, result.Balances)
	resp := &api.GetGroupBalancesResponse{
		GroupID:      group.ID,
		TotalAmount:  calculator.RoundCents(result.TotalAmount),
		TotalDisplay: calculator.FormatAmount(result.TotalAmount),
		Balances:     balancesFor(group.Members, result.Balances, names),
		Debts:        make([]api.Debt, len(result.Debts)),
		Status:       result.Status.String(),
		Message:      result.Message,
	}
	for i, d := range result.Debts {
		resp.Debts[i] = api.Debt{
			FromID:        d.From,
			FromName:      names[d.From],
			ToID:          d.To,
			ToName:        names[d.To],
			Amount:        calculator.RoundCents(d.Amount),
			AmountDisplay: calculator.FormatAmount(d.Amount),
		}
	}
	for _, w := range result.Warnings {
		resp.Warnings = append(resp.Warnings, string(w))
	}

	publish(ctx, s.publisher, events.New(events.SettlementComputed, group.ID, middleware.GetUserID(ctx),
		events.SettlementPayload{
			Status:      result.Status.String(),
			TotalAmount: result.TotalAmount,
			Debts:       len(result.Debts),
		}))

	slog.Info("GetGroupBalances successful",
		"group_id", groupID,
		"expenditures_count", len(group.Expenditures),
		"members_count", len(group.Members),
		"debts_count", len(result.Debts),
		"status", result.Status,
	)
	return connect.NewResponse(resp), nil
}

// loadSnapshot reads the group and its expenditures concurrently.
// It returns a nil group, and no error, when the group does not exist.
func (s *SettlementService) loadSnapshot(ctx context.Context, groupID string) (*models.Group, error) {
	var (
		group        *models.Group
		expenditures []models.Expenditure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		group, err = s.store.GetGroup(gctx, groupID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		expenditures, err = s.store.ListExpendituresByGroup(gctx, groupID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	if group != nil {
		group.Expenditures = expenditures
	}
	return group, nil
}

// displayNames resolves a name for every balance key. Former members are
// looked up in the user store; unknown IDs fall back to the ID itself.
func (s *SettlementService) displayNames(ctx context.Context, group *models.Group, balances map[string]float64) map[string]string {
	names := make(map[string]string, len(balances))
	for _, m := range group.Members {
		names[m.ID] = m.DisplayName
	}
	for id := range balances {
		if _, ok := names[id]; ok {
			continue
		}
		names[id] = id
		if user, err := s.store.GetUserByID(ctx, id); err == nil {
			names[id] = user.DisplayName
		}
	}
	return names
}

// balancesFor lists balances in member order, then former members by ID.
func balancesFor(members []models.Member, balances map[string]float64, names map[string]string) []api.MemberBalance {
	order := calculator.BalanceOrder(balances, members)
	out := make([]api.MemberBalance, len(order))
	for i, id := range order {
		out[i] = api.MemberBalance{
			MemberID:       id,
			DisplayName:    names[id],
			Balance:        calculator.RoundCents(balances[id]),
			BalanceDisplay: calculator.FormatAmount(balances[id]),
		}
	}
	return out
}
