package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/mintsense/internal/calculator"
	"github.com/mmynk/mintsense/internal/models"
	"github.com/mmynk/mintsense/internal/money"
	"github.com/mmynk/mintsense/pkg/api"
)

func userToAPI(u *models.User) api.User {
	return api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func participantToAPI(p models.Participant) api.Participant {
	return api.Participant{
		ID:        p.ID,
		Name:      p.Name,
		Color:     p.Color,
		AvatarURL: p.AvatarURL,
		UserID:    p.UserID,
	}
}

func groupToAPI(g *models.Group) api.Group {
	participants := make([]api.Participant, len(g.Participants))
	for i, p := range g.Participants {
		participants[i] = participantToAPI(p)
	}
	return api.Group{
		ID:           g.ID,
		Name:         g.Name,
		OwnerID:      g.OwnerID,
		Participants: participants,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

func sharesToAPI(shares []models.ExpenseShare) []api.ExpenseShare {
	out := make([]api.ExpenseShare, len(shares))
	for i, s := range shares {
		out[i] = api.ExpenseShare{ParticipantID: s.ParticipantID, Amount: s.Amount.Float64()}
		if s.Percentage != nil {
			pct, _ := s.Percentage.Float64()
			out[i].Percentage = &pct
		}
	}
	return out
}

func expenseToAPI(e *models.Expense) api.Expense {
	return api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      e.Amount.Float64(),
		Date:        e.Date,
		PayerID:     e.PayerID,
		SplitMode:   e.SplitMode,
		Shares:      sharesToAPI(e.Shares),
		CreatedAt:   e.CreatedAt,
	}
}

func settlementToAPI(s *models.Settlement) api.Settlement {
	return api.Settlement{
		ID:        s.ID,
		GroupID:   s.GroupID,
		FromID:    s.FromID,
		ToID:      s.ToID,
		Amount:    s.Amount.Float64(),
		Note:      s.Note,
		CreatedBy: s.CreatedBy,
		CreatedAt: s.CreatedAt,
	}
}

func transfersToAPI(transfers []calculator.Transfer) []api.Transfer {
	out := make([]api.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = api.Transfer{
			FromID:   t.FromID,
			FromName: t.FromName,
			ToID:     t.ToID,
			ToName:   t.ToName,
			Amount:   t.Amount.Float64(),
		}
	}
	return out
}

func balancesToAPI(balances []calculator.ParticipantBalance) []api.ParticipantBalance {
	out := make([]api.ParticipantBalance, len(balances))
	for i, b := range balances {
		out[i] = api.ParticipantBalance{
			ParticipantID: b.ParticipantID,
			Name:          b.Name,
			Color:         b.Color,
			NetBalance:    b.NetBalance.Float64(),
			TotalPaid:     b.TotalPaid.Float64(),
			TotalOwed:     b.TotalOwed.Float64(),
		}
	}
	return out
}

// splitModeFromAPI converts wire split data into a calculator.SplitMode.
// Money and percentages cross from float64 here and nowhere else.
func splitModeFromAPI(split api.Split) (calculator.SplitMode, error) {
	var amounts map[string]money.Cents
	if split.Amounts != nil {
		amounts = make(map[string]money.Cents, len(split.Amounts))
		for id, a := range split.Amounts {
			amounts[id] = money.FromFloat(a)
		}
	}
	var percentages map[string]decimal.Decimal
	if split.Percentages != nil {
		percentages = make(map[string]decimal.Decimal, len(split.Percentages))
		for id, p := range split.Percentages {
			percentages[id] = decimal.NewFromFloat(p)
		}
	}
	return calculator.NewSplitMode(calculator.SplitKind(split.Mode), amounts, percentages)
}

func sharesFromCalculator(shares []calculator.Share) []models.ExpenseShare {
	out := make([]models.ExpenseShare, len(shares))
	for i, s := range shares {
		out[i] = models.ExpenseShare{ParticipantID: s.ParticipantID, Amount: s.Amount, Percentage: s.Percentage}
	}
	return out
}

// calculatorInputs projects a group's stored data into the pure calculator types.
func calculatorInputs(group *models.Group, expenses []*models.Expense, settlements []*models.Settlement) ([]calculator.Participant, []calculator.Expense, []calculator.RecordedSettlement) {
	participants := make([]calculator.Participant, len(group.Participants))
	for i, p := range group.Participants {
		participants[i] = calculator.Participant{ID: p.ID, Name: p.Name, Color: p.Color}
	}

	exps := make([]calculator.Expense, len(expenses))
	for i, e := range expenses {
		shares := make([]calculator.Share, len(e.Shares))
		for j, s := range e.Shares {
			shares[j] = calculator.Share{ParticipantID: s.ParticipantID, Amount: s.Amount, Percentage: s.Percentage}
		}
		exps[i] = calculator.Expense{PayerID: e.PayerID, Amount: e.Amount, Shares: shares}
	}

	recorded := make([]calculator.RecordedSettlement, len(settlements))
	for i, s := range settlements {
		recorded[i] = calculator.RecordedSettlement{FromID: s.FromID, ToID: s.ToID, Amount: s.Amount}
	}
	return participants, exps, recorded
}
