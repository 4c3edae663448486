package program

import (
	"errors"
	"fmt"
	"sync"

	"github.com/saeid-a/FitSyncBack/internal/models"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

type storeKey struct {
	clientID   string
	weekOffset int
}

// Store holds the canonical in-memory program tree per (client, week).
// Mutations are serialized by the store mutex, so each call is atomic per
// key. Block indices are positional and stable only until the next
// structural change; callers must re-resolve them afterwards.
type Store struct {
	mu    sync.Mutex
	weeks map[storeKey]*models.WeekProgram
}

func NewStore() *Store {
	return &Store{weeks: make(map[storeKey]*models.WeekProgram)}
}

// GetWeek returns a deep snapshot of the week, or an empty week if nothing
// has been assigned. It never fails.
func (s *Store) GetWeek(clientID string, weekOffset int) *models.WeekProgram {
	s.mu.Lock()
	defer s.mu.Unlock()

	week, ok := s.weeks[storeKey{clientID, weekOffset}]
	if !ok {
		return models.NewWeekProgram(clientID, weekOffset)
	}
	return week.Clone()
}

// Has reports whether the key is resident in memory, loaded or created.
func (s *Store) Has(clientID string, weekOffset int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.weeks[storeKey{clientID, weekOffset}]
	return ok
}

// Seed installs a week loaded from persistence without treating it as a
// mutation. An already-resident key is left alone.
func (s *Store) Seed(week *models.WeekProgram) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storeKey{week.ClientID, week.WeekOffset}
	if _, ok := s.weeks[key]; ok {
		return
	}
	s.weeks[key] = week.Clone()
}

// AddBlock appends an empty block to the day and returns its 0-based index.
// The week is created on first use.
func (s *Store) AddBlock(clientID string, weekOffset int, day string) (int, error) {
	if !models.ValidDay(day) {
		return 0, fmt.Errorf("unknown day %q: %w", day, ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	week := s.week(clientID, weekOffset)
	block := models.Block{
		Name:      "New Block",
		Exercises: []models.Exercise{},
		Rounds:    1,
	}
	week.Days[day] = append(week.Days[day], block)
	return len(week.Days[day]) - 1, nil
}

// ToggleBlockCollapsed flips the coach-side display flag. Not synced and not
// persisted.
func (s *Store) ToggleBlockCollapsed(clientID string, weekOffset int, day string, blockIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	block, err := s.block(clientID, weekOffset, day, blockIndex)
	if err != nil {
		return err
	}
	block.Collapsed = !block.Collapsed
	return nil
}

// AppendExercise validates the exercise and appends it to the block,
// returning a snapshot of the updated block. The block is unchanged on
// validation failure.
func (s *Store) AppendExercise(clientID string, weekOffset int, day string, blockIndex int, exercise models.Exercise) (*models.Block, error) {
	if exercise.Sets < 1 {
		return nil, fmt.Errorf("sets must be at least 1: %w", ErrValidation)
	}
	if !exercise.Reps.Valid() {
		return nil, fmt.Errorf("reps must be a positive integer or AMRAP: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	block, err := s.block(clientID, weekOffset, day, blockIndex)
	if err != nil {
		return nil, err
	}
	block.Exercises = append(block.Exercises, exercise)
	snapshot := models.CloneBlock(*block)
	return &snapshot, nil
}

// CopyWeek deep-copies every day from the source week into the destination,
// overwriting any existing destination content. Copying an empty or absent
// source is a no-op that leaves the destination untouched.
func (s *Store) CopyWeek(clientID string, fromWeekOffset, toWeekOffset int) (*models.WeekProgram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	source, ok := s.weeks[storeKey{clientID, fromWeekOffset}]
	if !ok || source.Empty() {
		return models.NewWeekProgram(clientID, toWeekOffset), nil
	}

	copied := source.Clone()
	copied.WeekOffset = toWeekOffset
	s.weeks[storeKey{clientID, toWeekOffset}] = copied
	return copied.Clone(), nil
}

// week returns the live week for mutation, creating it on first touch.
// Callers must hold the mutex.
func (s *Store) week(clientID string, weekOffset int) *models.WeekProgram {
	key := storeKey{clientID, weekOffset}
	week, ok := s.weeks[key]
	if !ok {
		week = models.NewWeekProgram(clientID, weekOffset)
		s.weeks[key] = week
	}
	return week
}

// block resolves a live block for mutation. Callers must hold the mutex.
func (s *Store) block(clientID string, weekOffset int, day string, blockIndex int) (*models.Block, error) {
	if !models.ValidDay(day) {
		return nil, fmt.Errorf("unknown day %q: %w", day, ErrValidation)
	}

	week, ok := s.weeks[storeKey{clientID, weekOffset}]
	if !ok {
		return nil, fmt.Errorf("week %d for client %s: %w", weekOffset, clientID, ErrNotFound)
	}
	blocks := week.Days[day]
	if blockIndex < 0 || blockIndex >= len(blocks) {
		return nil, fmt.Errorf("block %d on %s: %w", blockIndex, day, ErrNotFound)
	}
	return &blocks[blockIndex], nil
}
