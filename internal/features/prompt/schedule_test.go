package prompt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduledPrompt(freq Frequency) *Prompt {
	return &Prompt{
		Status:      StatusActive,
		IsScheduled: true,
		Frequency:   freq,
		Timezone:    "UTC",
	}
}

func TestNextExecutionUnscheduled(t *testing.T) {
	now := time.Now()

	assert.Nil(t, NextExecution(nil, now))

	p := scheduledPrompt(FrequencyDaily)
	p.IsScheduled = false
	assert.Nil(t, NextExecution(p, now))

	p = scheduledPrompt(FrequencyDaily)
	p.Status = StatusInactive
	assert.Nil(t, NextExecution(p, now))
}

func TestNextExecutionUnknownFrequency(t *testing.T) {
	p := scheduledPrompt(Frequency("fortnightly"))
	assert.Nil(t, NextExecution(p, time.Now()))
}

func TestNextExecutionHourly(t *testing.T) {
	p := scheduledPrompt(FrequencyHourly)
	p.HourlyInterval = 3

	now := time.Date(2024, 3, 1, 10, 47, 12, 0, time.UTC)
	next := NextExecution(p, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC), next.UTC())

	// Zero interval defaults to one hour.
	p.HourlyInterval = 0
	next = NextExecution(p, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC), next.UTC())
}

func TestNextExecutionDaily(t *testing.T) {
	p := scheduledPrompt(FrequencyDaily)
	p.ScheduleTime = "14:30"

	// Before the slot: today.
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	next := NextExecution(p, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC), next.UTC())

	// Exactly at the slot: strictly after means tomorrow.
	now = time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	next = NextExecution(p, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 3, 2, 14, 30, 0, 0, time.UTC), next.UTC())
}

func TestNextExecutionDailyDefaultsToNineAM(t *testing.T) {
	p := scheduledPrompt(FrequencyDaily)
	p.ScheduleTime = "" // empty degrades to 09:00

	now := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	next := NextExecution(p, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), next.UTC())

	p.ScheduleTime = "25:99" // malformed degrades too
	next = NextExecution(p, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), next.UTC())
}

func TestNextExecutionWeekly(t *testing.T) {
	p := scheduledPrompt(FrequencyWeekly)
	p.ScheduleTime = "09:00"
	p.SelectedWeekdays = []int{1, 5} // Monday, Friday

	// Monday 2024-03-04 at 10:00 — today's slot passed, next is Friday.
	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	next := NextExecution(p, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC), next.UTC())
	assert.Equal(t, time.Friday, next.Weekday())

	// Monday at 08:00 — today's slot is still ahead.
	now = time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	next = NextExecution(p, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), next.UTC())

	// Friday at 09:00 sharp — wraps to next Monday.
	now = time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC)
	next = NextExecution(p, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC), next.UTC())
}

func TestNextExecutionWeeklyEmptySelection(t *testing.T) {
	p := scheduledPrompt(FrequencyWeekly)
	assert.Nil(t, NextExecution(p, time.Now()))

	p.SelectedWeekdays = []int{9, -1} // out of range entries are discarded
	assert.Nil(t, NextExecution(p, time.Now()))
}

func TestNextExecutionMonthlyClampsShortMonths(t *testing.T) {
	p := scheduledPrompt(FrequencyMonthly)
	p.ScheduleTime = "09:00"
	p.DayOfMonth = 31

	// February 2024 is a leap year: day 31 clamps to the 29th.
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	next := NextExecution(p, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC), next.UTC())

	// Past the clamped slot it rolls into March, re-clamped to the 31st.
	now = time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)
	next = NextExecution(p, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 3, 31, 9, 0, 0, 0, time.UTC), next.UTC())
}

func TestNextExecutionMonthlyDecemberRollsToJanuary(t *testing.T) {
	p := scheduledPrompt(FrequencyMonthly)
	p.ScheduleTime = "09:00"
	p.DayOfMonth = 10

	now := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	next := NextExecution(p, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC), next.UTC())
}

func TestNextExecutionYearly(t *testing.T) {
	p := scheduledPrompt(FrequencyYearly)
	p.ScheduleTime = "09:00"
	p.StartMonth = 6
	p.SelectedYear = 2024

	// Configured year is still ahead.
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	next := NextExecution(p, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), next.UTC())

	// Configured slot passed: advances a year at a time until future.
	now = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	next = NextExecution(p, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2027, 6, 1, 9, 0, 0, 0, time.UTC), next.UTC())

	// EndMonth is stored but never consulted.
	p.EndMonth = 2
	sameNext := NextExecution(p, now)
	require.NotNil(t, sameNext)
	assert.Equal(t, *next, *sameNext)
}

func TestNextExecutionSpecialDates(t *testing.T) {
	p := scheduledPrompt(FrequencySpecial)
	p.ScheduleTime = "09:00"
	p.SpecificDates = []string{"2024-06-15", "2024-03-10", "not-a-date"}

	// Earliest date strictly after now wins; malformed entries are skipped.
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	next := NextExecution(p, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), next.UTC())

	// All dates exhausted.
	now = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, NextExecution(p, now))
}

func TestNextExecutionTimezone(t *testing.T) {
	p := scheduledPrompt(FrequencyDaily)
	p.ScheduleTime = "09:00"
	p.Timezone = "America/New_York"

	// 13:00 UTC on 2024-03-01 is 08:00 in New York: today's 09:00 slot is
	// still ahead there, which is 14:00 UTC.
	now := time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)
	next := NextExecution(p, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC), next.UTC())
}

func TestNextExecutionBadTimezoneFallsBackToUTC(t *testing.T) {
	p := scheduledPrompt(FrequencyDaily)
	p.ScheduleTime = "09:00"
	p.Timezone = "Mars/Olympus_Mons"

	now := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	next := NextExecution(p, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), next.UTC())
}

func TestNextExecutionStartDateShiftsFirstRun(t *testing.T) {
	p := scheduledPrompt(FrequencyDaily)
	p.ScheduleTime = "09:00"
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	p.StartDate = &start

	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	next := NextExecution(p, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC), next.UTC())
}

func TestNextExecutionEndDateBoundsSchedule(t *testing.T) {
	p := scheduledPrompt(FrequencyDaily)
	p.ScheduleTime = "09:00"
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	p.EndDate = &end

	now := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, NextExecution(p, now))
}

func TestNextExecutionAlwaysStrictlyAfterNow(t *testing.T) {
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	prompts := []*Prompt{
		scheduledPrompt(FrequencyHourly),
		scheduledPrompt(FrequencyDaily),
		func() *Prompt {
			p := scheduledPrompt(FrequencyWeekly)
			p.SelectedWeekdays = []int{0, 1, 2, 3, 4, 5, 6}
			return p
		}(),
		func() *Prompt {
			p := scheduledPrompt(FrequencyMonthly)
			p.DayOfMonth = 4
			return p
		}(),
		func() *Prompt {
			p := scheduledPrompt(FrequencyYearly)
			p.StartMonth = 3
			return p
		}(),
	}

	for _, p := range prompts {
		p.ScheduleTime = "09:00"
		next := NextExecution(p, now)
		require.NotNil(t, next, "frequency %s", p.Frequency)
		assert.True(t, next.After(now), "frequency %s: %s not after %s", p.Frequency, next, now)
	}
}
