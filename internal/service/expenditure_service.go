package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/wildpay/internal/events"
	"github.com/mmynk/wildpay/internal/middleware"
	"github.com/mmynk/wildpay/internal/models"
	"github.com/mmynk/wildpay/internal/storage"
	"github.com/mmynk/wildpay/pkg/api"
)

var (
	errTitleRequired     = errors.New("title required")
	errInvalidAmount     = errors.New("amount must be a non-negative number")
	errExpenditureID     = errors.New("expenditure_id required")
	errPayerNotMember    = errors.New("payer must be a member of the group")
	errContributorMember = errors.New("every contributor must be a member of the group")
)

// ExpenditureService implements the Connect ExpenditureService.
type ExpenditureService struct {
	store     storage.Store
	publisher events.Publisher
}

var _ api.ExpenditureServiceHandler = (*ExpenditureService)(nil)

// NewExpenditureService creates the service. A nil publisher discards events.
func NewExpenditureService(store storage.Store, publisher events.Publisher) *ExpenditureService {
	return &ExpenditureService{store: store, publisher: orNoop(publisher)}
}

// expenditureInput is the part of a create or update request that is validated the same way.
type expenditureInput struct {
	title        string
	amount       float64
	payerID      string
	contributors []string
}

// validate checks the input against the group's current members and
// returns the normalised expenditure fields. An empty payer is allowed and
// an empty contributor list is allowed; settlement reports both.
func (in expenditureInput) validate(group *models.Group) (string, float64, models.Payer, []string, error) {
	title := strings.TrimSpace(in.title)
	if title == "" {
		return "", 0, models.Payer{}, nil, connect.NewError(connect.CodeInvalidArgument, errTitleRequired)
	}
	if in.amount < 0 || math.IsNaN(in.amount) || math.IsInf(in.amount, 0) {
		return "", 0, models.Payer{}, nil, connect.NewError(connect.CodeInvalidArgument, errInvalidAmount)
	}

	payer := models.PaidBy(strings.TrimSpace(in.payerID))
	if id, ok := payer.Get(); ok && !group.HasMember(id) {
		return "", 0, models.Payer{}, nil, connect.NewError(connect.CodeInvalidArgument, errPayerNotMember)
	}

	contributors := make([]string, 0, len(in.contributors))
	seen := make(map[string]bool, len(in.contributors))
	for _, id := range in.contributors {
		if seen[id] {
			continue
		}
		if !group.HasMember(id) {
			return "", 0, models.Payer{}, nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%w: %q", errContributorMember, id))
		}
		seen[id] = true
		contributors = append(contributors, id)
	}

	return title, in.amount, payer, contributors, nil
}

// CreateExpenditure records a new expenditure in a group.
func (s *ExpenditureService) CreateExpenditure(ctx context.Context, req *connect.Request[api.CreateExpenditureRequest]) (*connect.Response[api.CreateExpenditureResponse], error) {
	slog.Info("CreateExpenditure request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount,
		"contributors_count", len(req.Msg.ContributorIDs),
	)

	group, err := authorizeGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	in := expenditureInput{
		title:        req.Msg.Title,
		amount:       req.Msg.Amount,
		payerID:      req.Msg.PayerID,
		contributors: req.Msg.ContributorIDs,
	}
	title, amount, payer, contributors, err := in.validate(group)
	if err != nil {
		return nil, err
	}

	exp := &models.Expenditure{
		GroupID:      group.ID,
		Title:        title,
		Amount:       amount,
		Payer:        payer,
		Contributors: contributors,
	}
	if err := s.store.CreateExpenditure(ctx, exp); err != nil {
		slog.Error("CreateExpenditure failed", "group_id", group.ID, "error", err)
		return nil, storageError(err)
	}

	if !payer.IsSet() {
		slog.Info("Expenditure recorded without a payer", "expenditure_id", exp.ID)
	}
	s.recorded(ctx, exp)

	slog.Info("Expenditure created", "expenditure_id", exp.ID, "group_id", group.ID)
	return connect.NewResponse(&api.CreateExpenditureResponse{Expenditure: toAPIExpenditure(exp)}), nil
}

// ListExpenditures returns a group's expenditures, oldest first.
func (s *ExpenditureService) ListExpenditures(ctx context.Context, req *connect.Request[api.ListExpendituresRequest]) (*connect.Response[api.ListExpendituresResponse], error) {
	slog.Info("ListExpenditures request received", "group_id", req.Msg.GroupID)

	group, err := authorizeGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	list, err := s.store.ListExpendituresByGroup(ctx, group.ID)
	if err != nil {
		slog.Error("ListExpenditures failed", "group_id", group.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Expenditure, len(list))
	for i := range list {
		out[i] = toAPIExpenditure(&list[i])
	}
	return connect.NewResponse(&api.ListExpendituresResponse{Expenditures: out}), nil
}

// UpdateExpenditure replaces an expenditure's title, amount, payer and contributors.
func (s *ExpenditureService) UpdateExpenditure(ctx context.Context, req *connect.Request[api.UpdateExpenditureRequest]) (*connect.Response[api.UpdateExpenditureResponse], error) {
	slog.Info("UpdateExpenditure request received", "expenditure_id", req.Msg.ExpenditureID)

	current, group, err := s.loadForWrite(ctx, req.Msg.ExpenditureID)
	if err != nil {
		return nil, err
	}

	in := expenditureInput{
		title:        req.Msg.Title,
		amount:       req.Msg.Amount,
		payerID:      req.Msg.PayerID,
		contributors: req.Msg.ContributorIDs,
	}
	title, amount, payer, contributors, err := in.validate(group)
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.Title = title
	updated.Amount = amount
	updated.Payer = payer
	updated.Contributors = contributors

	changed, err := expenditureChanges(current, &updated)
	if err != nil {
		slog.Warn("Could not diff expenditure", "expenditure_id", current.ID, "error", err)
	} else if len(changed) == 0 {
		slog.Info("UpdateExpenditure made no changes", "expenditure_id", current.ID)
		return connect.NewResponse(&api.UpdateExpenditureResponse{Expenditure: toAPIExpenditure(current)}), nil
	}

	if err := s.store.UpdateExpenditure(ctx, &updated); err != nil {
		slog.Error("UpdateExpenditure failed", "expenditure_id", current.ID, "error", err)
		return nil, storageError(err)
	}
	s.recorded(ctx, &updated)

	slog.Info("Expenditure updated", "expenditure_id", updated.ID, "changed", changed)
	return connect.NewResponse(&api.UpdateExpenditureResponse{Expenditure: toAPIExpenditure(&updated)}), nil
}

// DeleteExpenditure removes an expenditure.
func (s *ExpenditureService) DeleteExpenditure(ctx context.Context, req *connect.Request[api.DeleteExpenditureRequest]) (*connect.Response[emptypb.Empty], error) {
	slog.Info("DeleteExpenditure request received", "expenditure_id", req.Msg.ExpenditureID)

	exp, _, err := s.loadForWrite(ctx, req.Msg.ExpenditureID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpenditure(ctx, exp.ID); err != nil {
		slog.Error("DeleteExpenditure failed", "expenditure_id", exp.ID, "error", err)
		return nil, storageError(err)
	}

	publish(ctx, s.publisher, events.New(events.ExpenditureDeleted, exp.GroupID, middleware.GetUserID(ctx),
		events.ExpenditurePayload{ExpenditureID: exp.ID}))

	slog.Info("Expenditure deleted", "expenditure_id", exp.ID)
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// loadForWrite fetches an expenditure and checks the caller belongs to its group.
// A caller outside the group sees NotFound, the same as for a missing expenditure.
func (s *ExpenditureService) loadForWrite(ctx context.Context, expenditureID string) (*models.Expenditure, *models.Group, error) {
	if expenditureID == "" {
		return nil, nil, connect.NewError(connect.CodeInvalidArgument, errExpenditureID)
	}

	exp, err := s.store.GetExpenditure(ctx, expenditureID)
	if err != nil {
		return nil, nil, storageError(err)
	}

	group, err := authorizeGroup(ctx, s.store, exp.GroupID)
	if err != nil {
		return nil, nil, err
	}
	return exp, group, nil
}

func (s *ExpenditureService) recorded(ctx context.Context, exp *models.Expenditure) {
	publish(ctx, s.publisher, events.New(events.ExpenditureRecorded, exp.GroupID, middleware.GetUserID(ctx),
		events.ExpenditurePayload{ExpenditureID: exp.ID, Amount: exp.Amount, PayerID: exp.Payer.String()}))
}
