package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/mintsense/internal/calculator"
	"github.com/mmynk/mintsense/internal/middleware"
	"github.com/mmynk/mintsense/internal/models"
	"github.com/mmynk/mintsense/internal/money"
	"github.com/mmynk/mintsense/internal/storage"
	"github.com/mmynk/mintsense/pkg/api"
	"github.com/mmynk/mintsense/pkg/api/apiconnect"
)

var _ apiconnect.BalanceServiceHandler = (*BalanceService)(nil)

// BalanceService implements the Connect BalanceService.
type BalanceService struct {
	store   storage.Store
	logger  *slog.Logger
	metrics *middleware.Metrics
}

// NewBalanceService creates a BalanceService. metrics may be nil.
func NewBalanceService(store storage.Store, logger *slog.Logger, metrics *middleware.Metrics) *BalanceService {
	return &BalanceService{store: store, logger: logger, metrics: metrics}
}

// GetGroupBalances computes net balances, who owes whom and a settlement plan.
func (s *BalanceService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	s.logger.Info("GetGroupBalances request received", "group_id", req.Msg.GroupID)

	group, err := ownedGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	expenses, err := s.store.ListExpenses(ctx, group.ID, models.ExpenseFilter{})
	if err != nil {
		s.logger.Error("GetGroupBalances failed to load expenses", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, group.ID)
	if err != nil {
		s.logger.Error("GetGroupBalances failed to load settlements", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	participants, exps, recorded := calculatorInputs(group, expenses, settlements)
	report, err := calculator.CalculateGroupBalances(participants, exps, recorded)
	if err != nil {
		// Stored data referencing a missing participant is corruption, not bad input.
		s.logger.Error("GetGroupBalances failed", "group_id", group.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	s.metrics.ObserveSettlementPlan(len(report.Settlements))

	s.logger.Info("GetGroupBalances successful",
		"group_id", group.ID,
		"expenses_count", len(expenses),
		"settlements_count", len(settlements),
		"plan_steps", len(report.Settlements),
	)

	return connect.NewResponse(&api.GetGroupBalancesResponse{
		Balances:    balancesToAPI(report.Balances),
		Directional: transfersToAPI(report.Directional),
		Settlements: transfersToAPI(report.Settlements),
		TotalSpent:  report.TotalSpent.Float64(),
	}), nil
}

// RecordSettlement stores a payment between two participants of the group.
func (s *BalanceService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	s.logger.Info("RecordSettlement request received",
		"group_id", req.Msg.GroupID,
		"from_id", req.Msg.FromID,
		"to_id", req.Msg.ToID,
		"amount", req.Msg.Amount,
	)

	group, err := ownedGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := requireMembers(group, req.Msg.FromID, req.Msg.ToID); err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.FromID == req.Msg.ToID {
		return nil, toConnectError(ErrSelfSettlement)
	}
	amount := money.FromFloat(req.Msg.Amount)
	if amount <= 0 {
		return nil, toConnectError(ErrNonPositiveAmount)
	}

	settlement := &models.Settlement{
		GroupID:   group.ID,
		FromID:    req.Msg.FromID,
		ToID:      req.Msg.ToID,
		Amount:    amount,
		CreatedBy: middleware.GetUserID(ctx),
		Note:      strings.TrimSpace(req.Msg.Note),
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		s.logger.Error("RecordSettlement failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Settlement recorded", "settlement_id", settlement.ID, "amount", settlement.Amount)
	return connect.NewResponse(&api.RecordSettlementResponse{Settlement: settlementToAPI(settlement)}), nil
}

// ListSettlements returns a group's recorded settlements, newest first.
func (s *BalanceService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	if _, err := ownedGroup(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}

	settlements, err := s.store.ListSettlementsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("ListSettlements failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = settlementToAPI(st)
	}
	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}

// DeleteSettlement removes a recorded settlement.
func (s *BalanceService) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	s.logger.Info("DeleteSettlement request received", "group_id", req.Msg.GroupID, "settlement_id", req.Msg.SettlementID)

	if _, err := ownedGroup(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}

	settlement, err := s.store.GetSettlement(ctx, req.Msg.SettlementID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if settlement.GroupID != req.Msg.GroupID {
		return nil, toConnectError(fmt.Errorf("settlement %s: %w", req.Msg.SettlementID, storage.ErrNotFound))
	}

	if err := s.store.DeleteSettlement(ctx, settlement.ID); err != nil {
		s.logger.Error("DeleteSettlement failed", "settlement_id", settlement.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Settlement deleted", "settlement_id", settlement.ID)
	return connect.NewResponse(&api.DeleteSettlementResponse{}), nil
}
