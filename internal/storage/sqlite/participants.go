package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/mintsense/internal/models"
	"github.com/mmynk/mintsense/internal/storage"
)

// insertParticipant writes one roster entry at the given position.
func insertParticipant(ctx context.Context, db execer, p *models.Participant, position int) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO participants (id, group_id, name, color, avatar_url, user_id, position, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.GroupID, p.Name, nullable(p.Color), nullable(p.AvatarURL), nullable(p.UserID), position, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

// listParticipants returns a group's roster in the order participants were added.
func (s *SQLiteStore) listParticipants(ctx context.Context, groupID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, name, color, avatar_url, user_id, created_at
		 FROM participants WHERE group_id = ? ORDER BY position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		var color, avatar, userID sql.NullString
		if err := rows.Scan(&p.ID, &p.GroupID, &p.Name, &color, &avatar, &userID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.Color = color.String
		p.AvatarURL = avatar.String
		p.UserID = userID.String
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// AddParticipant appends a participant to the end of the group's roster.
// The roster size check runs in the same statement as the insert, so
// concurrent adds cannot push a group past limit.
func (s *SQLiteStore) AddParticipant(ctx context.Context, participant *models.Participant, limit int) error {
	if participant.ID == "" {
		participant.ID = uuid.New().String()
	}
	if participant.CreatedAt == 0 {
		participant.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO participants (id, group_id, name, color, avatar_url, user_id, position, created_at)
		 SELECT ?, ?, ?, ?, ?, ?,
		        (SELECT COALESCE(MAX(position) + 1, 0) FROM participants WHERE group_id = ?), ?
		 WHERE (SELECT COUNT(*) FROM participants WHERE group_id = ?) < ?`,
		participant.ID, participant.GroupID, participant.Name, nullable(participant.Color),
		nullable(participant.AvatarURL), nullable(participant.UserID),
		participant.GroupID, participant.CreatedAt,
		participant.GroupID, limit,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("group %s (%d): %w", participant.GroupID, limit, storage.ErrRosterFull)
	}

	if err := touchGroup(ctx, tx, participant.GroupID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateParticipant changes a participant's display fields.
func (s *SQLiteStore) UpdateParticipant(ctx context.Context, participant *models.Participant) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE participants SET name = ?, color = ?, avatar_url = ? WHERE id = ? AND group_id = ?",
		participant.Name, nullable(participant.Color), nullable(participant.AvatarURL),
		participant.ID, participant.GroupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}
	if err := requireAffected(result, "participant", participant.ID); err != nil {
		return err
	}
	return touchGroup(ctx, s.db, participant.GroupID)
}

// DeleteParticipant removes a participant that no expense or settlement refers to.
func (s *SQLiteStore) DeleteParticipant(ctx context.Context, groupID, participantID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var inUse bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM expenses WHERE payer_id = ?)
		     OR EXISTS (SELECT 1 FROM expense_shares WHERE participant_id = ?)
		     OR EXISTS (SELECT 1 FROM settlements WHERE from_id = ? OR to_id = ?)`,
		participantID, participantID, participantID, participantID,
	).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("failed to check participant references: %w", err)
	}
	if inUse {
		return fmt.Errorf("participant %s: %w", participantID, storage.ErrParticipantInUse)
	}

	result, err := tx.ExecContext(ctx,
		"DELETE FROM participants WHERE id = ? AND group_id = ?",
		participantID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	if err := requireAffected(result, "participant", participantID); err != nil {
		return err
	}
	if err := touchGroup(ctx, tx, groupID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
