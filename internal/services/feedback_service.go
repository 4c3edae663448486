package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/saeid-a/FitSyncBack/internal/models"
)

type resultStore interface {
	Create(ctx context.Context, result *models.WorkoutResult) error
	ListByClient(ctx context.Context, clientID string) ([]models.WorkoutResult, error)
}

type taskStore interface {
	Create(ctx context.Context, task *models.Task) error
	ListByClient(ctx context.Context, clientID string) ([]models.Task, error)
}

// FeedbackService records what a client actually did (rating, notes, the
// session as performed) and the coach's per-client task notes.
type FeedbackService struct {
	resultRepo resultStore
	taskRepo   taskStore
}

func NewFeedbackService(resultRepo resultStore, taskRepo taskStore) *FeedbackService {
	return &FeedbackService{
		resultRepo: resultRepo,
		taskRepo:   taskRepo,
	}
}

type SubmitResultInput struct {
	Day        string
	WeekOffset int
	Rating     int
	Notes      string
	Exercises  []models.Exercise
}

// SubmitResult logs a completed workout for the acting client. The logged
// exercise list is immutable from here on.
func (s *FeedbackService) SubmitResult(
	ctx context.Context,
	actorID string,
	role string,
	input SubmitResultInput,
) (*models.WorkoutResult, error) {
	if role != models.RoleClient {
		return nil, ErrForbidden
	}
	if !models.ValidDay(input.Day) {
		return nil, ErrInvalidInput
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidInput
	}

	result := &models.WorkoutResult{
		ClientID:   actorID,
		Day:        input.Day,
		WeekOffset: input.WeekOffset,
		Rating:     input.Rating,
		Notes:      strings.TrimSpace(input.Notes),
		Exercises:  input.Exercises,
	}
	if err := s.resultRepo.Create(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *FeedbackService) ListResults(
	ctx context.Context,
	actorID string,
	role string,
	clientID string,
) ([]models.WorkoutResult, error) {
	if role != models.RoleCoach && actorID != clientID {
		return nil, ErrForbidden
	}
	return s.resultRepo.ListByClient(ctx, clientID)
}

func (s *FeedbackService) AppendTask(
	ctx context.Context,
	role string,
	clientID string,
	text string,
) (*models.Task, error) {
	if role != models.RoleCoach {
		return nil, ErrForbidden
	}
	trimmed := strings.TrimSpace(text)
	if clientID == "" || trimmed == "" {
		return nil, ErrInvalidInput
	}

	task := &models.Task{
		ID:       uuid.NewString(),
		ClientID: clientID,
		Task:     trimmed,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *FeedbackService) ListTasks(
	ctx context.Context,
	role string,
	clientID string,
) ([]models.Task, error) {
	if role != models.RoleCoach {
		return nil, ErrForbidden
	}
	return s.taskRepo.ListByClient(ctx, clientID)
}
