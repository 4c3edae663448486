package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/FitSyncBack/internal/models"
	"github.com/saeid-a/FitSyncBack/internal/program"
)

type programRepo interface {
	Upsert(ctx context.Context, week *models.WeekProgram) error
	Get(ctx context.Context, clientID string, weekOffset int) (*models.WeekProgram, error)
}

// ProgramService fronts the in-memory program store for the HTTP layer. It
// hydrates a (client, week) key from persistence on first touch, authorizes
// coach-only mutations, and delegates mutations to the editor so every
// content change is persisted and announced.
type ProgramService struct {
	store  *program.Store
	editor *program.Editor
	repo   programRepo
}

func NewProgramService(store *program.Store, editor *program.Editor, repo programRepo) *ProgramService {
	return &ProgramService{
		store:  store,
		editor: editor,
		repo:   repo,
	}
}

func (s *ProgramService) GetWeek(
	ctx context.Context,
	actorID string,
	role string,
	clientID string,
	weekOffset int,
) (*models.WeekProgram, error) {
	if !canAccessProgram(role, actorID, clientID) {
		return nil, ErrForbidden
	}
	if err := s.ensureLoaded(ctx, clientID, weekOffset); err != nil {
		return nil, err
	}
	return s.store.GetWeek(clientID, weekOffset), nil
}

func (s *ProgramService) AddBlock(
	ctx context.Context,
	actorID string,
	role string,
	clientID string,
	weekOffset int,
	day string,
) (int, error) {
	if role != models.RoleCoach {
		return 0, ErrForbidden
	}
	if err := s.ensureLoaded(ctx, clientID, weekOffset); err != nil {
		return 0, err
	}
	return s.editor.AddBlock(ctx, clientID, weekOffset, day)
}

func (s *ProgramService) AppendExercise(
	ctx context.Context,
	actorID string,
	role string,
	clientID string,
	weekOffset int,
	day string,
	blockIndex int,
	exercise models.Exercise,
) (*models.Block, error) {
	if role != models.RoleCoach {
		return nil, ErrForbidden
	}
	if err := s.ensureLoaded(ctx, clientID, weekOffset); err != nil {
		return nil, err
	}
	return s.editor.AppendExercise(ctx, clientID, weekOffset, day, blockIndex, exercise)
}

func (s *ProgramService) ToggleBlockCollapsed(
	ctx context.Context,
	actorID string,
	role string,
	clientID string,
	weekOffset int,
	day string,
	blockIndex int,
) error {
	if role != models.RoleCoach {
		return ErrForbidden
	}
	if err := s.ensureLoaded(ctx, clientID, weekOffset); err != nil {
		return err
	}
	return s.editor.ToggleBlockCollapsed(clientID, weekOffset, day, blockIndex)
}

func (s *ProgramService) CopyWeek(
	ctx context.Context,
	actorID string,
	role string,
	clientID string,
	fromWeekOffset int,
	toWeekOffset int,
) (*models.WeekProgram, error) {
	if role != models.RoleCoach {
		return nil, ErrForbidden
	}
	if fromWeekOffset == toWeekOffset {
		return nil, ErrInvalidInput
	}
	if err := s.ensureLoaded(ctx, clientID, fromWeekOffset); err != nil {
		return nil, err
	}
	if err := s.ensureLoaded(ctx, clientID, toWeekOffset); err != nil {
		return nil, err
	}
	return s.editor.CopyWeek(ctx, clientID, fromWeekOffset, toWeekOffset)
}

// ensureLoaded seeds the in-memory key from persistence before the first
// read or edit, so an edit after a restart extends the stored week instead
// of shadowing it.
func (s *ProgramService) ensureLoaded(ctx context.Context, clientID string, weekOffset int) error {
	if s.store.Has(clientID, weekOffset) {
		return nil
	}

	week, err := s.repo.Get(ctx, clientID, weekOffset)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	s.store.Seed(week)
	return nil
}

func canAccessProgram(role string, actorID string, clientID string) bool {
	switch role {
	case models.RoleCoach:
		return true
	case models.RoleClient:
		return actorID == clientID
	default:
		return false
	}
}
