package session

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/saeid-a/FitSyncBack/internal/models"
)

type stubFetcher struct {
	day       []models.Block
	dayErr    error
	week      *models.WeekProgram
	dayCalls  int
	weekCalls int
	lastDay   string
}

func (f *stubFetcher) FetchDay(day string) ([]models.Block, error) {
	f.dayCalls++
	f.lastDay = day
	return f.day, f.dayErr
}

func (f *stubFetcher) FetchWeek(weekOffset int) (*models.WeekProgram, error) {
	f.weekCalls++
	if f.week != nil {
		return f.week, nil
	}
	return models.NewWeekProgram("client-1", weekOffset), nil
}

func frame(t *testing.T, v any) []byte {
	t.Helper()
	payload, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal frame: %v", err)
	}
	return payload
}

func notification(t *testing.T, day string) []byte {
	return frame(t, models.NotificationFrame{
		Type:    models.FrameTypeNotification,
		UserID:  "client-1",
		Day:     day,
		Content: "New workout assigned for " + day,
	})
}

func authedSession(fetcher ProgramFetcher) *ClientSession {
	s := New(fetcher)
	s.Authenticate("client-1", models.RoleClient)
	return s
}

func TestAuthenticateWithoutRoleWaitsForSelection(t *testing.T) {
	s := New(&stubFetcher{})
	if s.State() != StateUnauthenticated {
		t.Fatalf("expected unauthenticated start, got %s", s.State())
	}

	s.Authenticate("client-1", "")
	if s.State() != StateRoleUnselected {
		t.Fatalf("expected role-unselected, got %s", s.State())
	}

	if err := s.SelectRole("referee"); err == nil {
		t.Fatalf("expected rejection of unknown role")
	}
	if err := s.SelectRole(models.RoleClient); err != nil {
		t.Fatalf("SelectRole: %v", err)
	}
	if s.State() != StateIdle {
		t.Fatalf("expected idle after role selection, got %s", s.State())
	}
}

func TestWorkoutFlowTransitions(t *testing.T) {
	s := authedSession(&stubFetcher{})

	if err := s.CompleteWorkout(); err == nil {
		t.Fatalf("expected complete-workout to fail from idle")
	}
	if err := s.StartWorkout("Monday"); err != nil {
		t.Fatalf("StartWorkout: %v", err)
	}
	if s.State() != StateViewingWorkout || s.CurrentDay() != "Monday" {
		t.Fatalf("unexpected state %s day %q", s.State(), s.CurrentDay())
	}
	if err := s.CompleteWorkout(); err != nil {
		t.Fatalf("CompleteWorkout: %v", err)
	}
	if err := s.SubmitFeedback(); err != nil {
		t.Fatalf("SubmitFeedback: %v", err)
	}
	if s.State() != StateIdle {
		t.Fatalf("expected idle after feedback, got %s", s.State())
	}
}

func TestProgramAssignedForcesViewingWorkout(t *testing.T) {
	fetcher := &stubFetcher{day: []models.Block{{Name: "Circuit A", Rounds: 2}}}
	s := authedSession(fetcher)

	if err := s.Apply(notification(t, "Monday")); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if s.State() != StateViewingWorkout || s.CurrentDay() != "Monday" {
		t.Fatalf("unexpected state %s day %q", s.State(), s.CurrentDay())
	}
	if len(s.Week().Days["Monday"]) != 1 || s.Week().Days["Monday"][0].Name != "Circuit A" {
		t.Fatalf("day not refreshed: %+v", s.Week().Days["Monday"])
	}
	notices := s.Notices()
	if len(notices) != 1 {
		t.Fatalf("expected one notice, got %v", notices)
	}
}

func TestDuplicateProgramAssignedOverwritesInsteadOfAppending(t *testing.T) {
	fetcher := &stubFetcher{day: []models.Block{{Name: "Circuit A", Rounds: 2}}}
	s := authedSession(fetcher)

	if err := s.Apply(notification(t, "Monday")); err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	if err := s.Apply(notification(t, "Monday")); err != nil {
		t.Fatalf("second Apply: %v", err)
	}

	if fetcher.dayCalls != 2 {
		t.Fatalf("expected a re-fetch per event, got %d", fetcher.dayCalls)
	}
	if len(s.Week().Days["Monday"]) != 1 {
		t.Fatalf("duplicate event duplicated blocks: %+v", s.Week().Days["Monday"])
	}
}

func TestWholeWeekNotificationRefreshesEveryDay(t *testing.T) {
	refreshed := models.NewWeekProgram("client-1", 0)
	refreshed.Days["Monday"] = []models.Block{{Name: "Circuit A", Rounds: 1}}
	refreshed.Days["Thursday"] = []models.Block{{Name: "Circuit B", Rounds: 3}}
	fetcher := &stubFetcher{week: refreshed}
	s := authedSession(fetcher)

	if err := s.Apply(frame(t, models.NotificationFrame{
		Type:    models.FrameTypeNotification,
		UserID:  "client-1",
		Content: "Your week's program was updated",
	})); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if fetcher.weekCalls != 1 {
		t.Fatalf("expected one week fetch, got %d", fetcher.weekCalls)
	}
	if len(s.Week().Days["Thursday"]) != 1 {
		t.Fatalf("week not replaced: %+v", s.Week().Days)
	}
}

func TestMessagesAppendInArrivalOrder(t *testing.T) {
	s := authedSession(&stubFetcher{})

	for _, content := range []string{"m1", "m2"} {
		if err := s.Apply(frame(t, models.MessageFrame{
			Type:      models.FrameTypeMessage,
			UserID:    "coach-1",
			Recipient: "client-1",
			Content:   content,
		})); err != nil {
			t.Fatalf("Apply %q: %v", content, err)
		}
	}

	messages := s.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Content != "m1" || messages[1].Content != "m2" {
		t.Fatalf("messages out of order: %+v", messages)
	}
}

func TestIdenticalMessagesAreNotDeduplicated(t *testing.T) {
	s := authedSession(&stubFetcher{})

	payload := frame(t, models.MessageFrame{
		Type:      models.FrameTypeMessage,
		UserID:    "coach-1",
		Recipient: "client-1",
		Content:   "same text",
	})
	if err := s.Apply(payload); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := s.Apply(payload); err != nil {
		t.Fatalf("Apply duplicate: %v", err)
	}

	if len(s.Messages()) != 2 {
		t.Fatalf("expected both copies kept, got %d", len(s.Messages()))
	}
}

func TestRecordSentKeepsOwnMessagesLocal(t *testing.T) {
	s := authedSession(&stubFetcher{})
	s.RecordSent("coach-1", "done with Monday")

	messages := s.Messages()
	if len(messages) != 1 || messages[0].SenderID != "client-1" {
		t.Fatalf("unexpected local log: %+v", messages)
	}
}

func TestUnsupportedFrameIsRejected(t *testing.T) {
	s := authedSession(&stubFetcher{})
	if err := s.Apply([]byte(`{"type":"ping"}`)); err == nil {
		t.Fatalf("expected error for unsupported frame")
	}
}

// The socket reader applies frames while the UI goroutine reads state and
// records input; run with -race.
func TestConcurrentFramesAndInput(t *testing.T) {
	fetcher := &stubFetcher{day: []models.Block{{Name: "Circuit A", Rounds: 2}}}
	s := authedSession(fetcher)

	assigned := notification(t, "Monday")
	incoming := frame(t, models.MessageFrame{
		Type:      models.FrameTypeMessage,
		UserID:    "coach-1",
		Recipient: "client-1",
		Content:   "how did it go",
	})

	const rounds = 200
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if err := s.Apply(assigned); err != nil {
				t.Errorf("Apply notification: %v", err)
				return
			}
			if err := s.Apply(incoming); err != nil {
				t.Errorf("Apply message: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_ = s.Week().Days["Monday"]
			_ = s.Messages()
			_ = s.Notices()
			s.RecordSent("coach-1", "done")
			if s.StartWorkout("Monday") == nil {
				s.Back()
			}
		}
	}()
	wg.Wait()

	if got := len(s.Messages()); got != 2*rounds {
		t.Fatalf("expected %d messages, got %d", 2*rounds, got)
	}
	if len(s.Week().Days["Monday"]) != 1 {
		t.Fatalf("day corrupted under concurrent access: %+v", s.Week().Days["Monday"])
	}
}
