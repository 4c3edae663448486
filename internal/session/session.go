// Package session holds the client-side view of a coaching session: the
// local copy of the week's program, the chat log, and the screen state
// machine. It is driven by UI actions and by frames arriving over the sync
// socket.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/saeid-a/FitSyncBack/internal/models"
)

type State int

const (
	StateUnauthenticated State = iota
	StateRoleUnselected
	StateIdle
	StateViewingWorkout
	StateReportingFeedback
	StateViewingMessages
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateRoleUnselected:
		return "role-unselected"
	case StateIdle:
		return "idle"
	case StateViewingWorkout:
		return "viewing-workout"
	case StateReportingFeedback:
		return "reporting-feedback"
	case StateViewingMessages:
		return "viewing-messages"
	default:
		return "unknown"
	}
}

var ErrBadTransition = errors.New("invalid state transition")

// ProgramFetcher re-reads program content from the server. The wire carries
// only a change notification, never the content itself, so the reducer
// re-fetches and overwrites; a duplicated notification is therefore harmless.
type ProgramFetcher interface {
	FetchDay(day string) ([]models.Block, error)
	FetchWeek(weekOffset int) (*models.WeekProgram, error)
}

// ClientSession applies incoming events to the local program view and
// message log. Chat messages are appended in arrival order and never
// deduplicated: the wire format carries no message identifier.
//
// Safe for concurrent use: the socket reader applies frames while the UI
// goroutine reads state and records input.
type ClientSession struct {
	mu       sync.Mutex
	userID   string
	role     string
	state    State
	week     *models.WeekProgram
	day      string
	messages []models.ChatMessage
	notices  []string
	fetcher  ProgramFetcher
}

func New(fetcher ProgramFetcher) *ClientSession {
	return &ClientSession{
		state:   StateUnauthenticated,
		week:    models.NewWeekProgram("", 0),
		fetcher: fetcher,
	}
}

func (s *ClientSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *ClientSession) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *ClientSession) Role() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

// Week returns a deep snapshot; the live tree may be replaced by the frame
// reducer at any time.
func (s *ClientSession) Week() *models.WeekProgram {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.week.Clone()
}

func (s *ClientSession) CurrentDay() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.day
}

func (s *ClientSession) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatMessage(nil), s.messages...)
}

// Notices drains the pending notification banners.
func (s *ClientSession) Notices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	notices := s.notices
	s.notices = nil
	return notices
}

func (s *ClientSession) Authenticate(userID string, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	s.week.ClientID = userID
	if models.ValidRole(role) {
		s.role = role
		s.state = StateIdle
		return
	}
	s.state = StateRoleUnselected
}

func (s *ClientSession) SelectRole(role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRoleUnselected {
		return fmt.Errorf("select role in state %s: %w", s.state, ErrBadTransition)
	}
	if !models.ValidRole(role) {
		return fmt.Errorf("unknown role %q", role)
	}
	s.role = role
	s.state = StateIdle
	return nil
}

func (s *ClientSession) StartWorkout(day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return fmt.Errorf("start workout in state %s: %w", s.state, ErrBadTransition)
	}
	if !models.ValidDay(day) {
		return fmt.Errorf("unknown day %q", day)
	}
	s.day = day
	s.state = StateViewingWorkout
	return nil
}

func (s *ClientSession) CompleteWorkout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateViewingWorkout {
		return fmt.Errorf("complete workout in state %s: %w", s.state, ErrBadTransition)
	}
	s.state = StateReportingFeedback
	return nil
}

func (s *ClientSession) SubmitFeedback() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReportingFeedback {
		return fmt.Errorf("submit feedback in state %s: %w", s.state, ErrBadTransition)
	}
	s.day = ""
	s.state = StateIdle
	return nil
}

func (s *ClientSession) OpenMessages() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle && s.state != StateViewingWorkout {
		return fmt.Errorf("open messages in state %s: %w", s.state, ErrBadTransition)
	}
	s.state = StateViewingMessages
	return nil
}

func (s *ClientSession) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateViewingWorkout, StateViewingMessages, StateReportingFeedback:
		s.day = ""
		s.state = StateIdle
	}
}

// RecordSent appends the user's own outgoing message to the local log. The
// hub never echoes a message back to its sender.
func (s *ClientSession) RecordSent(recipientID, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, models.ChatMessage{
		SenderID:    s.userID,
		RecipientID: recipientID,
		Content:     content,
	})
}

// Apply reduces one incoming wire frame into the session.
func (s *ClientSession) Apply(payload []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch head.Type {
	case models.FrameTypeNotification:
		var frame models.NotificationFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			return fmt.Errorf("decode notification: %w", err)
		}
		return s.applyAssigned(frame)
	case models.FrameTypeMessage:
		var frame models.MessageFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			return fmt.Errorf("decode message: %w", err)
		}
		s.messages = append(s.messages, models.ChatMessage{
			SenderID:    frame.UserID,
			RecipientID: frame.Recipient,
			Content:     frame.Content,
		})
		return nil
	case models.FrameTypeError:
		var frame models.MessageFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			return fmt.Errorf("decode error frame: %w", err)
		}
		s.notices = append(s.notices, frame.Content)
		return nil
	default:
		return fmt.Errorf("unsupported frame type %q", head.Type)
	}
}

// applyAssigned refreshes the changed day (or the whole week when no day is
// named) by re-fetching it, overwriting the local copy. Duplicate events for
// the same day converge on the same content instead of appending twice.
// Called with the mutex held.
func (s *ClientSession) applyAssigned(frame models.NotificationFrame) error {
	if frame.Day == "" {
		week, err := s.fetcher.FetchWeek(s.week.WeekOffset)
		if err != nil {
			return err
		}
		s.week = week
	} else {
		blocks, err := s.fetcher.FetchDay(frame.Day)
		if err != nil {
			return err
		}
		s.week.Days[frame.Day] = blocks
	}

	if frame.Content != "" {
		s.notices = append(s.notices, frame.Content)
	}
	if s.state == StateIdle {
		if frame.Day != "" {
			s.day = frame.Day
		}
		s.state = StateViewingWorkout
	}
	return nil
}
