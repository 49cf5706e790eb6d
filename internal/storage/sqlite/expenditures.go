package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/wildpay/internal/models"
	"github.com/mmynk/wildpay/internal/storage"
)

// CreateExpenditure persists a new expenditure and its contributors.
func (s *SQLiteStore) CreateExpenditure(ctx context.Context, exp *models.Expenditure) error {
	if exp.ID == "" {
		exp.ID = uuid.New().String()
	}
	if exp.CreatedAt == 0 {
		exp.CreatedAt = time.Now().Unix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expenditures (id, group_id, title, amount, payer_id, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			exp.ID, exp.GroupID, exp.Title, exp.Amount, payerValue(exp.Payer), exp.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expenditure: %w", err)
		}
		return insertContributors(ctx, tx, exp)
	})
}

// GetExpenditure retrieves an expenditure by ID, including its contributors.
func (s *SQLiteStore) GetExpenditure(ctx context.Context, expenditureID string) (*models.Expenditure, error) {
	exp := &models.Expenditure{}
	var payer sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, title, amount, payer_id, created_at
		 FROM expenditures WHERE id = ?`,
		expenditureID,
	).Scan(&exp.ID, &exp.GroupID, &exp.Title, &exp.Amount, &payer, &exp.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expenditure %s: %w", expenditureID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expenditure: %w", err)
	}
	exp.Payer = payerFrom(payer)

	contributors, err := s.contributorsFor(ctx, []string{exp.ID})
	if err != nil {
		return nil, err
	}
	exp.Contributors = contributors[exp.ID]

	return exp, nil
}

// ListExpendituresByGroup retrieves all expenditures for a group, oldest first.
func (s *SQLiteStore) ListExpendituresByGroup(ctx context.Context, groupID string) ([]models.Expenditure, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, title, amount, payer_id, created_at
		 FROM expenditures WHERE group_id = ? ORDER BY created_at, rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenditures by group: %w", err)
	}
	defer rows.Close()

	var expenditures []models.Expenditure
	for rows.Next() {
		var exp models.Expenditure
		var payer sql.NullString
		if err := rows.Scan(&exp.ID, &exp.GroupID, &exp.Title, &exp.Amount, &payer, &exp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expenditure: %w", err)
		}
		exp.Payer = payerFrom(payer)
		expenditures = append(expenditures, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenditures: %w", err)
	}

	ids := make([]string, len(expenditures))
	for i := range expenditures {
		ids[i] = expenditures[i].ID
	}
	contributors, err := s.contributorsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range expenditures {
		expenditures[i].Contributors = contributors[expenditures[i].ID]
	}

	return expenditures, nil
}

// UpdateExpenditure replaces an expenditure's fields and contributors.
func (s *SQLiteStore) UpdateExpenditure(ctx context.Context, exp *models.Expenditure) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			"UPDATE expenditures SET title = ?, amount = ?, payer_id = ? WHERE id = ?",
			exp.Title, exp.Amount, payerValue(exp.Payer), exp.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update expenditure: %w", err)
		}
		if err := expectAffected(result, "expenditure", exp.ID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM expenditure_contributors WHERE expenditure_id = ?", exp.ID,
		); err != nil {
			return fmt.Errorf("failed to clear contributors: %w", err)
		}
		return insertContributors(ctx, tx, exp)
	})
}

// DeleteExpenditure removes an expenditure by ID.
func (s *SQLiteStore) DeleteExpenditure(ctx context.Context, expenditureID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenditures WHERE id = ?", expenditureID)
	if err != nil {
		return fmt.Errorf("failed to delete expenditure: %w", err)
	}
	return expectAffected(result, "expenditure", expenditureID)
}

func insertContributors(ctx context.Context, tx *sql.Tx, exp *models.Expenditure) error {
	for i, userID := range exp.Contributors {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expenditure_contributors (expenditure_id, user_id, position) VALUES (?, ?, ?)",
			exp.ID, userID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert contributor: %w", err)
		}
	}
	return nil
}

// contributorsFor loads contributors for many expenditures in one query.
func (s *SQLiteStore) contributorsFor(ctx context.Context, expenditureIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(expenditureIDs))
	if len(expenditureIDs) == 0 {
		return out, nil
	}

	args := make([]any, len(expenditureIDs))
	for i, id := range expenditureIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT expenditure_id, user_id FROM expenditure_contributors
		 WHERE expenditure_id IN (`+placeholders(len(expenditureIDs))+`)
		 ORDER BY expenditure_id, position`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get contributors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expID, userID string
		if err := rows.Scan(&expID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan contributor: %w", err)
		}
		out[expID] = append(out[expID], userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributors: %w", err)
	}

	return out, nil
}

// payerValue stores an unset payer as NULL.
func payerValue(p models.Payer) any {
	if id, ok := p.Get(); ok {
		return id
	}
	return nil
}

func payerFrom(v sql.NullString) models.Payer {
	if !v.Valid {
		return models.NoPayer()
	}
	return models.PaidBy(v.String)
}
