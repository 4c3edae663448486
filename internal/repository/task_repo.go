package repository

import (
	"context"

	"github.com/saeid-a/FitSyncBack/internal/models"
)

type TaskRepository struct {
	db DBTX
}

func NewTaskRepository(db DBTX) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, client_id, task)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query, task.ID, task.ClientID, task.Task).Scan(&task.CreatedAt)
}

func (r *TaskRepository) ListByClient(ctx context.Context, clientID string) ([]models.Task, error) {
	query := `
		SELECT id, client_id, task, created_at
		FROM tasks
		WHERE client_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.ClientID, &task.Task, &task.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
