package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/mintsense/internal/calculator"
	"github.com/mmynk/mintsense/internal/models"
	"github.com/mmynk/mintsense/internal/money"
	"github.com/mmynk/mintsense/internal/storage"
	"github.com/mmynk/mintsense/pkg/api"
	"github.com/mmynk/mintsense/pkg/api/apiconnect"
)

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, logger: logger}
}

// allocate validates a split and divides amount among its participants.
func allocate(amount float64, payerID string, split api.Split) ([]calculator.Share, error) {
	mode, err := splitModeFromAPI(split)
	if err != nil {
		return nil, err
	}
	return calculator.BuildShares(money.FromFloat(amount), payerID, split.ParticipantIDs, mode)
}

// PreviewSplit returns the shares a split would produce without storing anything.
func (s *ExpenseService) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	s.logger.Debug("PreviewSplit request received",
		"amount", req.Msg.Amount,
		"mode", req.Msg.Split.Mode,
		"participants_count", len(req.Msg.Split.ParticipantIDs),
	)

	shares, err := allocate(req.Msg.Amount, req.Msg.PayerID, req.Msg.Split)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.PreviewSplitResponse{
		Shares: sharesToAPI(sharesFromCalculator(shares)),
	}), nil
}

// buildExpense validates the request against the group and allocates shares.
func buildExpense(group *models.Group, description string, amount float64, date int64, payerID string, split api.Split) (*models.Expense, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrMissingDescription
	}
	if err := requireMembers(group, payerID); err != nil {
		return nil, err
	}
	if err := requireMembers(group, split.ParticipantIDs...); err != nil {
		return nil, err
	}

	shares, err := allocate(amount, payerID, split)
	if err != nil {
		return nil, err
	}

	if date == 0 {
		date = time.Now().Unix()
	}
	return &models.Expense{
		GroupID:     group.ID,
		Description: description,
		Amount:      money.FromFloat(amount),
		Date:        date,
		PayerID:     payerID,
		SplitMode:   split.Mode,
		Shares:      sharesFromCalculator(shares),
	}, nil
}

// CreateExpense records an expense and its allocated shares.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	s.logger.Info("CreateExpense request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount,
		"mode", req.Msg.Split.Mode,
	)

	group, err := ownedGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	expense, err := buildExpense(group, req.Msg.Description, req.Msg.Amount, req.Msg.Date, req.Msg.PayerID, req.Msg.Split)
	if err != nil {
		s.logger.Warn("CreateExpense rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		s.logger.Error("CreateExpense failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense created", "group_id", group.ID, "expense_id", expense.ID, "amount", expense.Amount)
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// GetExpense retrieves one expense of a group.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	if _, err := ownedGroup(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.GroupID, req.Msg.ExpenseID)
	if err != nil {
		s.logger.Warn("GetExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// UpdateExpense re-validates and re-allocates an existing expense.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	s.logger.Info("UpdateExpense request received",
		"group_id", req.Msg.GroupID,
		"expense_id", req.Msg.ExpenseID,
	)

	group, err := ownedGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	existing, err := s.store.GetExpense(ctx, group.ID, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}

	date := req.Msg.Date
	if date == 0 {
		date = existing.Date
	}
	expense, err := buildExpense(group, req.Msg.Description, req.Msg.Amount, date, req.Msg.PayerID, req.Msg.Split)
	if err != nil {
		s.logger.Warn("UpdateExpense rejected", "expense_id", existing.ID, "error", err)
		return nil, toConnectError(err)
	}
	expense.ID = existing.ID
	expense.CreatedAt = existing.CreatedAt

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		s.logger.Error("UpdateExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense updated", "expense_id", expense.ID)
	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// DeleteExpense removes an expense.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	s.logger.Info("DeleteExpense request received", "group_id", req.Msg.GroupID, "expense_id", req.Msg.ExpenseID)

	if _, err := ownedGroup(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.DeleteExpense(ctx, req.Msg.GroupID, req.Msg.ExpenseID); err != nil {
		s.logger.Warn("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

func filterFromAPI(req *api.ListExpensesRequest) (models.ExpenseFilter, error) {
	filter := models.ExpenseFilter{
		Search:        strings.TrimSpace(req.Search),
		ParticipantID: req.ParticipantID,
		DateFrom:      req.DateFrom,
		DateTo:        req.DateTo,
	}
	for _, bound := range []struct {
		in  *float64
		out **money.Cents
	}{
		{req.AmountMin, &filter.AmountMin},
		{req.AmountMax, &filter.AmountMax},
	} {
		if bound.in == nil {
			continue
		}
		if *bound.in < 0 {
			return filter, ErrInvalidAmountFilter
		}
		c := money.FromFloat(*bound.in)
		*bound.out = &c
	}
	return filter, nil
}

// ListExpenses returns a group's expenses, newest first, narrowed by the request's filters.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	if _, err := ownedGroup(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}

	filter, err := filterFromAPI(req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}

	expenses, err := s.store.ListExpenses(ctx, req.Msg.GroupID, filter)
	if err != nil {
		s.logger.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(fmt.Errorf("failed to list expenses: %w", err))
	}

	out := make([]api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToAPI(e)
	}

	s.logger.Info("ListExpenses successful", "group_id", req.Msg.GroupID, "count", len(out))
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}
