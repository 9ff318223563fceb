package prompt

import (
	"time"

	"go.uber.org/zap"
)

// NextExecution computes the next run instant for a prompt, or nil when the
// prompt is unscheduled, inactive, or has no future occurrence. The function
// is pure: it never mutates the prompt and never panics on malformed input —
// bad values degrade to a logged warning.
//
// All calendar arithmetic happens in the prompt's configured timezone.
func NextExecution(p *Prompt, now time.Time) *time.Time {
	if p == nil || !p.IsScheduled || p.Status != StatusActive {
		return nil
	}

	loc := loadLocation(p.Timezone)
	now = now.In(loc)

	// A future start date shifts the evaluation point so the first
	// occurrence lands on or after it.
	if p.StartDate != nil {
		if start := p.StartDate.In(loc); now.Before(start) {
			now = start.Add(-time.Second)
		}
	}

	hour, minute := parseScheduleTime(p.ScheduleTime)

	var next *time.Time
	switch p.Frequency {
	case FrequencyHourly:
		next = nextHourly(p, now, loc)
	case FrequencyDaily:
		next = nextDaily(now, loc, hour, minute)
	case FrequencyWeekly:
		next = nextWeekly(p, now, loc, hour, minute)
	case FrequencyMonthly:
		next = nextMonthly(p, now, loc, hour, minute)
	case FrequencyYearly:
		next = nextYearly(p, now, loc, hour, minute)
	case FrequencySpecial:
		next = nextSpecial(p, now, loc, hour, minute)
	default:
		zap.L().Warn("unknown schedule frequency",
			zap.String("prompt_id", p.ID.Hex()),
			zap.String("frequency", string(p.Frequency)))
		return nil
	}

	if next != nil && p.EndDate != nil && next.After(p.EndDate.In(loc)) {
		return nil
	}
	return next
}

// nextHourly returns now + interval hours aligned to the top of the hour.
func nextHourly(p *Prompt, now time.Time, loc *time.Location) *time.Time {
	interval := p.HourlyInterval
	if interval <= 0 {
		interval = 1
	}
	t := now.Add(time.Duration(interval) * time.Hour)
	next := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc)
	return &next
}

func nextDaily(now time.Time, loc *time.Location, hour, minute int) *time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return &next
}

// nextWeekly scans the coming week (today first, wrapping to the same
// weekday next week) for the earliest selected weekday whose slot is still
// in the future. An empty weekday set means no next run.
func nextWeekly(p *Prompt, now time.Time, loc *time.Location, hour, minute int) *time.Time {
	if len(p.SelectedWeekdays) == 0 {
		return nil
	}

	selected := make(map[int]bool, len(p.SelectedWeekdays))
	for _, d := range p.SelectedWeekdays {
		if d >= 0 && d <= 6 {
			selected[d] = true
		}
	}
	if len(selected) == 0 {
		return nil
	}

	for i := 0; i <= 7; i++ {
		day := now.AddDate(0, 0, i)
		if !selected[int(day.Weekday())] {
			continue
		}
		candidate := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
		if candidate.After(now) {
			return &candidate
		}
	}
	return nil
}

// nextMonthly targets DayOfMonth in the current month, clamped to the last
// day when the month is shorter, rolling (and re-clamping) into the next
// month when the slot already passed.
func nextMonthly(p *Prompt, now time.Time, loc *time.Location, hour, minute int) *time.Time {
	target := p.DayOfMonth
	if target <= 0 {
		target = 1
	}

	year, month := now.Year(), now.Month()
	day := clampDay(target, year, month)
	next := time.Date(year, month, day, hour, minute, 0, 0, loc)
	if !next.After(now) {
		year, month = nextMonth(year, month)
		day = clampDay(target, year, month)
		next = time.Date(year, month, day, hour, minute, 0, 0, loc)
	}
	return &next
}

// nextYearly targets the first day of StartMonth in SelectedYear (or the
// current year), rolling forward year by year until the slot is in the
// future. EndMonth is deliberately not consulted.
func nextYearly(p *Prompt, now time.Time, loc *time.Location, hour, minute int) *time.Time {
	year := p.SelectedYear
	if year <= 0 {
		year = now.Year()
	}
	month := time.Month(p.StartMonth)
	if p.StartMonth < 1 || p.StartMonth > 12 {
		month = time.January
	}

	next := time.Date(year, month, 1, hour, minute, 0, 0, loc)
	for !next.After(now) {
		next = next.AddDate(1, 0, 0)
	}
	return &next
}

// nextSpecial returns the earliest configured date strictly after now, or
// nil when every date has passed.
func nextSpecial(p *Prompt, now time.Time, loc *time.Location, hour, minute int) *time.Time {
	var best *time.Time
	for _, raw := range p.SpecificDates {
		d, err := parseDate(raw, loc)
		if err != nil {
			zap.L().Warn("skipping malformed specific date",
				zap.String("prompt_id", p.ID.Hex()),
				zap.String("date", raw))
			continue
		}
		candidate := time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc)
		if candidate.After(now) && (best == nil || candidate.Before(*best)) {
			best = &candidate
		}
	}
	return best
}

func parseDate(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return t, nil
	}
	return time.ParseInLocation(time.RFC3339, raw, loc)
}

// parseScheduleTime parses "HH:MM"; empty or malformed values degrade to
// 09:00 with a warning rather than failing the calculation.
func parseScheduleTime(s string) (hour, minute int) {
	if s == "" {
		return 9, 0
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		zap.L().Warn("malformed schedule time, defaulting to 09:00", zap.String("schedule_time", s))
		return 9, 0
	}
	return t.Hour(), t.Minute()
}

func loadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		zap.L().Warn("unknown timezone, falling back to UTC", zap.String("timezone", name))
		return time.UTC
	}
	return loc
}

func clampDay(day, year int, month time.Month) int {
	last := daysInMonth(year, month)
	if day > last {
		return last
	}
	return day
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}
