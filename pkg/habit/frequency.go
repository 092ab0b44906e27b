package habit

import (
	"encoding/json"
	"fmt"
)

type FrequencyType string

const (
	FrequencyDaily   FrequencyType = "daily"
	FrequencyWeeklyN FrequencyType = "weekly_n"
)

const (
	MinWeeklyCount = 1
	MaxWeeklyCount = 6
	daysPerWeek    = 7
)

// Frequency is either daily or N times per week. The zero value is daily.
// A daily frequency has no count; only WeeklyN carries one.
type Frequency struct {
	weekly int
}

func Daily() Frequency {
	return Frequency{}
}

func WeeklyN(n int) (Frequency, error) {
	if n < MinWeeklyCount || n > MaxWeeklyCount {
		return Frequency{}, fmt.Errorf("%w: got %d, want %d-%d", ErrInvalidWeeklyCount, n, MinWeeklyCount, MaxWeeklyCount)
	}
	return Frequency{weekly: n}, nil
}

func (f Frequency) Type() FrequencyType {
	if f.weekly == 0 {
		return FrequencyDaily
	}
	return FrequencyWeeklyN
}

func (f Frequency) IsDaily() bool {
	return f.weekly == 0
}

// WeeklyCount reports the per-week target of a weekly_n frequency.
func (f Frequency) WeeklyCount() (int, bool) {
	if f.weekly == 0 {
		return 0, false
	}
	return f.weekly, true
}

// TargetPerWeek is 7 for daily habits.
func (f Frequency) TargetPerWeek() int {
	if f.weekly == 0 {
		return daysPerWeek
	}
	return f.weekly
}

func (f Frequency) String() string {
	if f.weekly == 0 {
		return "daily"
	}
	return fmt.Sprintf("%dx/week", f.weekly)
}

// ParseFrequency builds a Frequency from its wire form. The count is ignored
// for daily.
func ParseFrequency(t FrequencyType, weeklyCount int) (Frequency, error) {
	switch t {
	case FrequencyDaily, "":
		return Daily(), nil
	case FrequencyWeeklyN:
		return WeeklyN(weeklyCount)
	default:
		return Frequency{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, t)
	}
}

type frequencyJSON struct {
	Type        FrequencyType `json:"type"`
	WeeklyCount int           `json:"weekly_count,omitempty"`
}

func (f Frequency) MarshalJSON() ([]byte, error) {
	out := frequencyJSON{Type: f.Type()}
	if n, ok := f.WeeklyCount(); ok {
		out.WeeklyCount = n
	}
	return json.Marshal(out)
}

func (f *Frequency) UnmarshalJSON(data []byte) error {
	var in frequencyJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	parsed, err := ParseFrequency(in.Type, in.WeeklyCount)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
