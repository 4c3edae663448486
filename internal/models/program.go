package models

import (
	"encoding/json"
	"fmt"
)

var Days = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

func ValidDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// Reps is either a positive repetition count or AMRAP ("as many reps as
// possible"). On the wire it is an integer or the literal string "AMRAP".
type Reps struct {
	Count int
	AMRAP bool
}

func RepCount(count int) Reps {
	return Reps{Count: count}
}

func RepsAMRAP() Reps {
	return Reps{AMRAP: true}
}

func (r Reps) Valid() bool {
	if r.AMRAP {
		return true
	}
	return r.Count > 0
}

func (r Reps) MarshalJSON() ([]byte, error) {
	if r.AMRAP {
		return json.Marshal("AMRAP")
	}
	return json.Marshal(r.Count)
}

func (r *Reps) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		if label != "AMRAP" {
			return fmt.Errorf("invalid reps value %q", label)
		}
		*r = Reps{AMRAP: true}
		return nil
	}

	var count int
	if err := json.Unmarshal(data, &count); err != nil {
		return fmt.Errorf("invalid reps value: %s", data)
	}
	*r = Reps{Count: count}
	return nil
}

type Exercise struct {
	Name     string  `json:"name"`
	Reps     Reps    `json:"reps"`
	Weight   float64 `json:"weight"`
	Sets     int     `json:"sets"`
	AudioRef *string `json:"audio"`
}

// Block is an ordered group of exercises performed as a unit. Collapsed is a
// coach-side display flag; toggling it is not persisted or announced.
type Block struct {
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
	Rounds    int        `json:"rounds"`
	Collapsed bool       `json:"collapsed"`
}

// DayProgram maps a weekday name to that day's ordered blocks. A missing or
// empty day is a rest day.
type DayProgram map[string][]Block

// WeekProgram is one client's training content for one week. WeekOffset is
// relative to the current week: 0 is this week, negative offsets are past
// weeks.
type WeekProgram struct {
	ClientID   string     `json:"client_id"`
	WeekOffset int        `json:"week_offset"`
	Days       DayProgram `json:"days"`
}

func NewWeekProgram(clientID string, weekOffset int) *WeekProgram {
	return &WeekProgram{
		ClientID:   clientID,
		WeekOffset: weekOffset,
		Days:       make(DayProgram),
	}
}

func (w *WeekProgram) Empty() bool {
	for _, blocks := range w.Days {
		if len(blocks) > 0 {
			return false
		}
	}
	return true
}

// Clone deep-copies the week so mutating the copy never touches the original.
func (w *WeekProgram) Clone() *WeekProgram {
	cloned := NewWeekProgram(w.ClientID, w.WeekOffset)
	for day, blocks := range w.Days {
		cloned.Days[day] = CloneBlocks(blocks)
	}
	return cloned
}

func CloneBlocks(blocks []Block) []Block {
	cloned := make([]Block, len(blocks))
	for i, block := range blocks {
		cloned[i] = CloneBlock(block)
	}
	return cloned
}

func CloneBlock(block Block) Block {
	cloned := block
	cloned.Exercises = make([]Exercise, len(block.Exercises))
	for i, exercise := range block.Exercises {
		cloned.Exercises[i] = exercise
		if exercise.AudioRef != nil {
			ref := *exercise.AudioRef
			cloned.Exercises[i].AudioRef = &ref
		}
	}
	return cloned
}
