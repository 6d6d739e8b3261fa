package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/mintsense/internal/models"
	"github.com/mmynk/mintsense/internal/money"
	"github.com/mmynk/mintsense/internal/storage"
)

const expenseColumns = "id, group_id, description, amount_cents, date, payer_id, split_mode, created_at"

// likeEscaper makes search text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CreateExpense persists a new expense and its shares.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Date == 0 {
		expense.Date = expense.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses ("+expenseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		expense.ID, expense.GroupID, expense.Description, int64(expense.Amount),
		expense.Date, expense.PayerID, expense.SplitMode, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertShares(ctx, tx, expense); err != nil {
		return err
	}
	if err := touchGroup(ctx, tx, expense.GroupID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertShares(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i, share := range expense.Shares {
		var pct any
		if share.Percentage != nil {
			pct = share.Percentage.String()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expense_shares (expense_id, participant_id, position, amount_cents, percentage)
			 VALUES (?, ?, ?, ?, ?)`,
			expense.ID, share.ParticipantID, i, int64(share.Amount), pct,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense share: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense and its shares.
func (s *SQLiteStore) GetExpense(ctx context.Context, groupID, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ? AND group_id = ?",
		expenseID, groupID,
	)
	expense, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	expense.Shares, err = s.listShares(ctx, expense.ID)
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// UpdateExpense replaces the expense's fields and all of its shares.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE expenses SET description = ?, amount_cents = ?, date = ?, payer_id = ?, split_mode = ?
		 WHERE id = ? AND group_id = ?`,
		expense.Description, int64(expense.Amount), expense.Date, expense.PayerID, expense.SplitMode,
		expense.ID, expense.GroupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if err := requireAffected(result, "expense", expense.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_shares WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to delete old shares: %w", err)
	}
	if err := insertShares(ctx, tx, expense); err != nil {
		return err
	}
	if err := touchGroup(ctx, tx, expense.GroupID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense; its shares cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, groupID, expenseID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND group_id = ?",
		expenseID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if err := requireAffected(result, "expense", expenseID); err != nil {
		return err
	}
	return touchGroup(ctx, s.db, groupID)
}

// ListExpenses returns a group's expenses matching filter, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID string, filter models.ExpenseFilter) ([]*models.Expense, error) {
	where := []string{"group_id = ?"}
	args := []any{groupID}

	if filter.Search != "" {
		where = append(where, `description LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(filter.Search)+"%")
	}
	if filter.ParticipantID != "" {
		where = append(where,
			"(payer_id = ? OR EXISTS (SELECT 1 FROM expense_shares s WHERE s.expense_id = expenses.id AND s.participant_id = ?))")
		args = append(args, filter.ParticipantID, filter.ParticipantID)
	}
	if filter.DateFrom != 0 {
		where = append(where, "date >= ?")
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != 0 {
		where = append(where, "date <= ?")
		args = append(args, filter.DateTo)
	}
	if filter.AmountMin != nil {
		where = append(where, "amount_cents >= ?")
		args = append(args, int64(*filter.AmountMin))
	}
	if filter.AmountMax != nil {
		where = append(where, "amount_cents <= ?")
		args = append(args, int64(*filter.AmountMax))
	}

	query := "SELECT " + expenseColumns + " FROM expenses WHERE " +
		strings.Join(where, " AND ") + " ORDER BY date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		expense.Shares, err = s.listShares(ctx, expense.ID)
		if err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var amount int64
	err := row.Scan(&expense.ID, &expense.GroupID, &expense.Description, &amount,
		&expense.Date, &expense.PayerID, &expense.SplitMode, &expense.CreatedAt)
	if err != nil {
		return nil, err
	}
	expense.Amount = money.Cents(amount)
	return expense, nil
}

func (s *SQLiteStore) listShares(ctx context.Context, expenseID string) ([]models.ExpenseShare, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT participant_id, amount_cents, percentage FROM expense_shares
		 WHERE expense_id = ? ORDER BY position`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense shares: %w", err)
	}
	defer rows.Close()

	var shares []models.ExpenseShare
	for rows.Next() {
		var share models.ExpenseShare
		var amount int64
		var pct sql.NullString
		if err := rows.Scan(&share.ParticipantID, &amount, &pct); err != nil {
			return nil, fmt.Errorf("failed to scan expense share: %w", err)
		}
		share.Amount = money.Cents(amount)
		if pct.Valid {
			d, err := decimal.NewFromString(pct.String)
			if err != nil {
				return nil, fmt.Errorf("corrupt percentage %q on expense %s: %w", pct.String, expenseID, err)
			}
			share.Percentage = &d
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense shares: %w", err)
	}
	return shares, nil
}
