package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/saeid-a/FitSyncBack/internal/models"
)

// ResultRepository stores completed-workout reports. Rows are insert-only: a
// logged session is immutable.
type ResultRepository struct {
	db DBTX
}

func NewResultRepository(db DBTX) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) Create(ctx context.Context, result *models.WorkoutResult) error {
	exercises, err := json.Marshal(result.Exercises)
	if err != nil {
		return fmt.Errorf("encode result exercises: %w", err)
	}

	query := `
		INSERT INTO workout_results (client_id, day, week_offset, rating, notes, exercises)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.db.QueryRow(
		ctx,
		query,
		result.ClientID,
		result.Day,
		result.WeekOffset,
		result.Rating,
		result.Notes,
		exercises,
	).Scan(&result.ID, &result.CreatedAt)
}

func (r *ResultRepository) ListByClient(ctx context.Context, clientID string) ([]models.WorkoutResult, error) {
	query := `
		SELECT id, client_id, day, week_offset, rating, notes, exercises, created_at
		FROM workout_results
		WHERE client_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]models.WorkoutResult, 0)
	for rows.Next() {
		var result models.WorkoutResult
		var exercises []byte
		if err := rows.Scan(
			&result.ID,
			&result.ClientID,
			&result.Day,
			&result.WeekOffset,
			&result.Rating,
			&result.Notes,
			&exercises,
			&result.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(exercises, &result.Exercises); err != nil {
			return nil, fmt.Errorf("decode result exercises: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
