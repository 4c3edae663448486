package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/saeid-a/FitSyncBack/internal/models"
)

// ProgramRepository persists one row per (client, week) with the day-to-blocks
// tree as JSONB. The canonical live tree stays in the in-memory store; rows
// here only seed it after a restart.
type ProgramRepository struct {
	db DBTX
}

func NewProgramRepository(db DBTX) *ProgramRepository {
	return &ProgramRepository{db: db}
}

func (r *ProgramRepository) Upsert(ctx context.Context, week *models.WeekProgram) error {
	days, err := json.Marshal(week.Days)
	if err != nil {
		return fmt.Errorf("encode program days: %w", err)
	}

	query := `
		INSERT INTO programs (client_id, week_offset, days)
		VALUES ($1, $2, $3)
		ON CONFLICT (client_id, week_offset)
		DO UPDATE SET days = EXCLUDED.days, updated_at = NOW()
	`
	_, err = r.db.Exec(ctx, query, week.ClientID, week.WeekOffset, days)
	return err
}

func (r *ProgramRepository) Get(ctx context.Context, clientID string, weekOffset int) (*models.WeekProgram, error) {
	query := `
		SELECT days
		FROM programs
		WHERE client_id = $1 AND week_offset = $2
	`

	var days []byte
	if err := r.db.QueryRow(ctx, query, clientID, weekOffset).Scan(&days); err != nil {
		return nil, err
	}

	week := models.NewWeekProgram(clientID, weekOffset)
	if err := json.Unmarshal(days, &week.Days); err != nil {
		return nil, fmt.Errorf("decode program days: %w", err)
	}
	return week, nil
}
