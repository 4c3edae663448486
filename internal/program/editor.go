package program

import (
	"context"
	"fmt"

	"github.com/saeid-a/FitSyncBack/internal/models"
)

// Persister is the data-service boundary for program content. The editor
// writes the whole week after every content mutation.
type Persister interface {
	Upsert(ctx context.Context, week *models.WeekProgram) error
}

// Notifier pushes a change event toward the target user's live connections.
// Delivery is best-effort and must never fail the edit.
type Notifier interface {
	Deliver(event *models.ChangeEvent)
}

// Editor wraps store mutations with persistence and event emission. Every
// content mutation emits exactly one program-assigned event to the owning
// client, after the mutation is applied and persisted; emission order matches
// call order. ToggleBlockCollapsed emits nothing. A failed mutation emits
// nothing and the error propagates to the caller.
type Editor struct {
	store     *Store
	persister Persister
	notifier  Notifier
}

func NewEditor(store *Store, persister Persister, notifier Notifier) *Editor {
	return &Editor{
		store:     store,
		persister: persister,
		notifier:  notifier,
	}
}

func (e *Editor) AddBlock(ctx context.Context, clientID string, weekOffset int, day string) (int, error) {
	index, err := e.store.AddBlock(clientID, weekOffset, day)
	if err != nil {
		return 0, err
	}
	if err := e.persist(ctx, clientID, weekOffset); err != nil {
		return 0, err
	}

	e.notifyAssigned(clientID, day)
	return index, nil
}

func (e *Editor) AppendExercise(ctx context.Context, clientID string, weekOffset int, day string, blockIndex int, exercise models.Exercise) (*models.Block, error) {
	block, err := e.store.AppendExercise(clientID, weekOffset, day, blockIndex, exercise)
	if err != nil {
		return nil, err
	}
	if err := e.persist(ctx, clientID, weekOffset); err != nil {
		return nil, err
	}

	e.notifyAssigned(clientID, day)
	return block, nil
}

func (e *Editor) CopyWeek(ctx context.Context, clientID string, fromWeekOffset, toWeekOffset int) (*models.WeekProgram, error) {
	copied, err := e.store.CopyWeek(clientID, fromWeekOffset, toWeekOffset)
	if err != nil {
		return nil, err
	}
	if copied.Empty() {
		// Nothing was assigned, so nothing to persist or announce.
		return copied, nil
	}
	if err := e.persister.Upsert(ctx, copied); err != nil {
		return nil, err
	}

	e.notifier.Deliver(&models.ChangeEvent{
		Kind:         models.EventProgramAssigned,
		TargetUserID: clientID,
		Payload: models.NotificationFrame{
			Type:    models.FrameTypeNotification,
			UserID:  clientID,
			Content: "Your week's program was updated",
		},
	})
	return copied, nil
}

func (e *Editor) ToggleBlockCollapsed(clientID string, weekOffset int, day string, blockIndex int) error {
	return e.store.ToggleBlockCollapsed(clientID, weekOffset, day, blockIndex)
}

func (e *Editor) persist(ctx context.Context, clientID string, weekOffset int) error {
	return e.persister.Upsert(ctx, e.store.GetWeek(clientID, weekOffset))
}

func (e *Editor) notifyAssigned(clientID, day string) {
	e.notifier.Deliver(&models.ChangeEvent{
		Kind:         models.EventProgramAssigned,
		TargetUserID: clientID,
		Payload: models.NotificationFrame{
			Type:    models.FrameTypeNotification,
			UserID:  clientID,
			Day:     day,
			Content: fmt.Sprintf("New workout assigned for %s", day),
		},
	})
}
