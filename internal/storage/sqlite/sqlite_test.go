package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/mintsense/internal/models"
	"github.com/mmynk/mintsense/internal/money"
	"github.com/mmynk/mintsense/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "mintsense-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// seedGroup creates an owner and a group with the given participant names.
func seedGroup(t *testing.T, store *SQLiteStore, names ...string) *models.Group {
	t.Helper()
	ctx := context.Background()

	owner := models.NewUser("owner-"+names[0]+"@example.com", "Owner", "hash")
	if err := store.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	group := &models.Group{Name: "Flat", OwnerID: owner.ID}
	for _, name := range names {
		group.Participants = append(group.Participants, models.Participant{Name: name})
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateGroup assigns IDs and keeps roster order", func(t *testing.T) {
		group := seedGroup(t, store, "Alice", "Bob", "Carol")

		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		if group.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		retrieved, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(retrieved.Participants) != 3 {
			t.Fatalf("Expected 3 participants, got %d", len(retrieved.Participants))
		}
		for i, want := range []string{"Alice", "Bob", "Carol"} {
			got := retrieved.Participants[i]
			if got.Name != want {
				t.Errorf("Participant %d: got %s, want %s", i, got.Name, want)
			}
			if got.ID != group.Participants[i].ID {
				t.Errorf("Participant %d ID mismatch: got %s, want %s", i, got.ID, group.Participants[i].ID)
			}
		}
	})

	t.Run("GetGroup returns ErrNotFound for nonexistent group", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("RenameGroup and ListGroupsByOwner", func(t *testing.T) {
		group := seedGroup(t, store, "Dan")

		if err := store.RenameGroup(ctx, group.ID, "Trip"); err != nil {
			t.Fatalf("RenameGroup failed: %v", err)
		}

		groups, err := store.ListGroupsByOwner(ctx, group.OwnerID)
		if err != nil {
			t.Fatalf("ListGroupsByOwner failed: %v", err)
		}
		if len(groups) != 1 {
			t.Fatalf("Expected 1 group, got %d", len(groups))
		}
		if groups[0].Name != "Trip" {
			t.Errorf("Name mismatch: got %s, want Trip", groups[0].Name)
		}
		if len(groups[0].Participants) != 1 {
			t.Errorf("Expected 1 participant, got %d", len(groups[0].Participants))
		}

		if err := store.RenameGroup(ctx, "nonexistent-id", "x"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteGroup removes expenses and settlements", func(t *testing.T) {
		group := seedGroup(t, store, "Erin", "Finn")
		a, b := group.Participants[0].ID, group.Participants[1].ID

		expense := &models.Expense{
			GroupID: group.ID, Description: "Taxi", Amount: 1000, PayerID: a, SplitMode: "EQUAL",
			Shares: []models.ExpenseShare{{ParticipantID: a, Amount: 500}, {ParticipantID: b, Amount: 500}},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		settlement := &models.Settlement{GroupID: group.ID, FromID: b, ToID: a, Amount: 500, CreatedBy: group.OwnerID}
		if err := store.CreateSettlement(ctx, settlement); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}

		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		if _, err := store.GetExpense(ctx, group.ID, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected expense to be gone, got %v", err)
		}
		if _, err := store.GetSettlement(ctx, settlement.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected settlement to be gone, got %v", err)
		}
	})
}

func TestParticipants(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := seedGroup(t, store, "Alice", "Bob")
	alice, bob := group.Participants[0].ID, group.Participants[1].ID

	t.Run("AddParticipant appends to roster", func(t *testing.T) {
		p := &models.Participant{GroupID: group.ID, Name: "Carol", Color: "#10b981"}
		if err := store.AddParticipant(ctx, p, 10); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}

		retrieved, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		last := retrieved.Participants[len(retrieved.Participants)-1]
		if last.ID != p.ID || last.Color != "#10b981" {
			t.Errorf("Expected Carol last with color, got %+v", last)
		}
	})

	t.Run("AddParticipant refuses a full roster", func(t *testing.T) {
		full := seedGroup(t, store, "Erin", "Frank")
		p := &models.Participant{GroupID: full.ID, Name: "Grace"}
		err := store.AddParticipant(ctx, p, 2)
		if !errors.Is(err, storage.ErrRosterFull) {
			t.Fatalf("Expected ErrRosterFull, got %v", err)
		}

		retrieved, err := store.GetGroup(ctx, full.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(retrieved.Participants) != 2 {
			t.Errorf("Expected roster of 2, got %d", len(retrieved.Participants))
		}
	})

	t.Run("concurrent AddParticipant stays within limit", func(t *testing.T) {
		const limit = 4
		crowded := seedGroup(t, store, "Heidi")

		var wg sync.WaitGroup
		var mu sync.Mutex
		added := 0
		for i := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				p := &models.Participant{GroupID: crowded.ID, Name: fmt.Sprintf("Guest %d", i)}
				if err := store.AddParticipant(ctx, p, limit); err == nil {
					mu.Lock()
					added++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		retrieved, err := store.GetGroup(ctx, crowded.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(retrieved.Participants) > limit {
			t.Errorf("Roster exceeded limit: %d > %d", len(retrieved.Participants), limit)
		}
		if len(retrieved.Participants) != 1+added {
			t.Errorf("Expected %d participants, got %d", 1+added, len(retrieved.Participants))
		}
	})

	t.Run("UpdateParticipant renames", func(t *testing.T) {
		p := models.Participant{ID: bob, GroupID: group.ID, Name: "Robert"}
		if err := store.UpdateParticipant(ctx, &p); err != nil {
			t.Fatalf("UpdateParticipant failed: %v", err)
		}
		retrieved, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if retrieved.FindParticipant(bob).Name != "Robert" {
			t.Errorf("Expected Robert, got %s", retrieved.FindParticipant(bob).Name)
		}
	})

	t.Run("DeleteParticipant refuses referenced participant", func(t *testing.T) {
		expense := &models.Expense{
			GroupID: group.ID, Description: "Lunch", Amount: 2000, PayerID: alice, SplitMode: "EQUAL",
			Shares: []models.ExpenseShare{{ParticipantID: alice, Amount: 1000}, {ParticipantID: bob, Amount: 1000}},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		err := store.DeleteParticipant(ctx, group.ID, bob)
		if !errors.Is(err, storage.ErrParticipantInUse) {
			t.Errorf("Expected ErrParticipantInUse, got %v", err)
		}
	})

	t.Run("DeleteParticipant removes unreferenced participant", func(t *testing.T) {
		p := &models.Participant{GroupID: group.ID, Name: "Dave"}
		if err := store.AddParticipant(ctx, p, 10); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}
		if err := store.DeleteParticipant(ctx, group.ID, p.ID); err != nil {
			t.Fatalf("DeleteParticipant failed: %v", err)
		}
		if err := store.DeleteParticipant(ctx, group.ID, p.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := seedGroup(t, store, "Alice", "Bob", "Carol")
	a, b, c := group.Participants[0].ID, group.Participants[1].ID, group.Participants[2].ID

	half := decimal.NewFromInt(50)
	dinner := &models.Expense{
		GroupID: group.ID, Description: "Dinner", Amount: 3000, Date: 1700000000, PayerID: a, SplitMode: "PERCENTAGE",
		Shares: []models.ExpenseShare{
			{ParticipantID: a, Amount: 1500, Percentage: &half},
			{ParticipantID: b, Amount: 1500, Percentage: &half},
		},
	}
	groceries := &models.Expense{
		GroupID: group.ID, Description: "Groceries", Amount: 999, Date: 1700100000, PayerID: c, SplitMode: "EQUAL",
		Shares: []models.ExpenseShare{
			{ParticipantID: a, Amount: 333}, {ParticipantID: b, Amount: 333}, {ParticipantID: c, Amount: 333},
		},
	}
	for _, e := range []*models.Expense{dinner, groceries} {
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
	}

	t.Run("GetExpense round-trips shares", func(t *testing.T) {
		retrieved, err := store.GetExpense(ctx, group.ID, dinner.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if retrieved.Amount != 3000 {
			t.Errorf("Amount mismatch: got %d, want 3000", retrieved.Amount)
		}
		if len(retrieved.Shares) != 2 {
			t.Fatalf("Expected 2 shares, got %d", len(retrieved.Shares))
		}
		if retrieved.Shares[0].Percentage == nil || !retrieved.Shares[0].Percentage.Equal(half) {
			t.Errorf("Expected percentage 50, got %v", retrieved.Shares[0].Percentage)
		}
	})

	t.Run("GetExpense is scoped to the group", func(t *testing.T) {
		_, err := store.GetExpense(ctx, "other-group", dinner.ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListExpenses orders newest first", func(t *testing.T) {
		expenses, err := store.ListExpenses(ctx, group.ID, models.ExpenseFilter{})
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 2 {
			t.Fatalf("Expected 2 expenses, got %d", len(expenses))
		}
		if expenses[0].ID != groceries.ID {
			t.Errorf("Expected groceries first, got %s", expenses[0].Description)
		}
	})

	t.Run("ListExpenses applies filters", func(t *testing.T) {
		minAmount := money.Cents(1000)
		tests := []struct {
			name   string
			filter models.ExpenseFilter
			want   []string
		}{
			{"search", models.ExpenseFilter{Search: "groc"}, []string{groceries.ID}},
			{"participant in share", models.ExpenseFilter{ParticipantID: c}, []string{groceries.ID}},
			{"participant as payer or share", models.ExpenseFilter{ParticipantID: a}, []string{groceries.ID, dinner.ID}},
			{"date range", models.ExpenseFilter{DateTo: 1700050000}, []string{dinner.ID}},
			{"amount min", models.ExpenseFilter{AmountMin: &minAmount}, []string{dinner.ID}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				expenses, err := store.ListExpenses(ctx, group.ID, tt.filter)
				if err != nil {
					t.Fatalf("ListExpenses failed: %v", err)
				}
				if len(expenses) != len(tt.want) {
					t.Fatalf("Expected %d expenses, got %d", len(tt.want), len(expenses))
				}
				for i, id := range tt.want {
					if expenses[i].ID != id {
						t.Errorf("Expense %d: got %s, want %s", i, expenses[i].ID, id)
					}
				}
			})
		}
	})

	t.Run("ListExpenses search treats wildcards literally", func(t *testing.T) {
		other := seedGroup(t, store, "Ivan")
		ivan := other.Participants[0].ID
		byDescription := make(map[string]string)
		for _, desc := range []string{"50% off pizza", "500 napkins", "a_b", "axb"} {
			e := &models.Expense{
				GroupID: other.ID, Description: desc, Amount: 100, PayerID: ivan, SplitMode: "EQUAL",
				Shares: []models.ExpenseShare{{ParticipantID: ivan, Amount: 100}},
			}
			if err := store.CreateExpense(ctx, e); err != nil {
				t.Fatalf("CreateExpense failed: %v", err)
			}
			byDescription[desc] = e.ID
		}

		for search, want := range map[string]string{"50%": "50% off pizza", "a_b": "a_b"} {
			expenses, err := store.ListExpenses(ctx, other.ID, models.ExpenseFilter{Search: search})
			if err != nil {
				t.Fatalf("ListExpenses failed: %v", err)
			}
			if len(expenses) != 1 || expenses[0].ID != byDescription[want] {
				t.Errorf("Search %q: expected only %q, got %d results", search, want, len(expenses))
			}
		}
	})

	t.Run("UpdateExpense replaces shares", func(t *testing.T) {
		updated := *dinner
		updated.Amount = 4000
		updated.SplitMode = "CUSTOM_AMOUNT"
		updated.Shares = []models.ExpenseShare{{ParticipantID: b, Amount: 4000}}
		if err := store.UpdateExpense(ctx, &updated); err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}

		retrieved, err := store.GetExpense(ctx, group.ID, dinner.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if retrieved.Amount != 4000 || len(retrieved.Shares) != 1 || retrieved.Shares[0].Percentage != nil {
			t.Errorf("Unexpected expense after update: %+v", retrieved)
		}
	})

	t.Run("DeleteExpense", func(t *testing.T) {
		if err := store.DeleteExpense(ctx, group.ID, groceries.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if err := store.DeleteExpense(ctx, group.ID, groceries.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := seedGroup(t, store, "Alice", "Bob")
	a, b := group.Participants[0].ID, group.Participants[1].ID

	settlement := &models.Settlement{GroupID: group.ID, FromID: b, ToID: a, Amount: 1234, CreatedBy: group.OwnerID, Note: "cash"}
	if err := store.CreateSettlement(ctx, settlement); err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}

	retrieved, err := store.GetSettlement(ctx, settlement.ID)
	if err != nil {
		t.Fatalf("GetSettlement failed: %v", err)
	}
	if retrieved.Amount != 1234 || retrieved.Note != "cash" || retrieved.FromID != b {
		t.Errorf("Unexpected settlement: %+v", retrieved)
	}

	list, err := store.ListSettlementsByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListSettlementsByGroup failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Expected 1 settlement, got %d", len(list))
	}

	if err := store.DeleteSettlement(ctx, settlement.ID); err != nil {
		t.Fatalf("DeleteSettlement failed: %v", err)
	}
	if err := store.DeleteSettlement(ctx, settlement.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("ana@example.com", "Ana", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byEmail, err := store.GetUserByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("ID mismatch: got %s, want %s", byEmail.ID, user.ID)
	}

	if _, err := store.GetUserByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	dup := models.NewUser("ana@example.com", "Other", "hash")
	if err := store.CreateUser(ctx, dup); !errors.Is(err, storage.ErrConflict) {
		t.Errorf("Expected ErrConflict for duplicate email, got %v", err)
	}
}
