package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/guideline/internal/model"
)

func testConfig() *model.ScheduleConfig {
	return &model.ScheduleConfig{
		Timezone: "America/New_York",
		Week: []model.WeekdayEntry{
			{Day: "Monday", Start: "08:00", End: "17:00"},
			{Day: "Tuesday", Start: "08:00", End: "17:00"},
			{Day: "Friday", Start: "08:00", End: "14:00", Note: "Early close"},
		},
		OnCall: []model.OnCallWindow{
			{From: "2026-02-02", To: "2026-02-08", Note: "Platform rotation"},
		},
		Holidays: []model.Holiday{
			{Date: "2026-01-01", Name: "New Year's Day"},
			{Date: "2026-04-03", Name: "Personal Day"},
			{Date: "2026-12-25", Name: "Christmas Day"},
		},
	}
}

func fixedNow(date string) Option {
	t, _ := time.Parse("2006-01-02", date)
	return WithNow(func() time.Time { return t })
}

func TestAnswer_NoConfig(t *testing.T) {
	a := NewAnswerer()
	assert.Equal(t, "No schedule is configured yet.", a.Answer(nil, "schedule Monday"))
}

func TestAnswer_Weekday(t *testing.T) {
	a := NewAnswerer()
	answer := a.Answer(testConfig(), "schedule Monday")
	assert.Contains(t, answer, "Monday")
	assert.Contains(t, answer, "08:00")
	assert.Contains(t, answer, "17:00")
	assert.Contains(t, answer, "America/New_York")
}

func TestAnswer_WeekdayCaseInsensitive(t *testing.T) {
	a := NewAnswerer()
	answer := a.Answer(testConfig(), "what are my FRIDAY hours?")
	// "hours" also matches nothing above weekday rules; Friday carries a note.
	assert.Contains(t, answer, "Friday")
	assert.Contains(t, answer, "14:00")
	assert.Contains(t, answer, "Early close")
}

func TestAnswer_HolidayMonth(t *testing.T) {
	a := NewAnswerer()
	answer := a.Answer(testConfig(), "Any holidays in January?")
	assert.Contains(t, answer, "New Year's Day")
	assert.Contains(t, answer, "2026-01-01")
	assert.NotContains(t, answer, "Personal Day")
	assert.NotContains(t, answer, "2026-04")
}

func TestAnswer_HolidayMonthEmpty(t *testing.T) {
	a := NewAnswerer()
	answer := a.Answer(testConfig(), "holidays in March?")
	assert.Equal(t, "No holidays found in March.", answer)
}

func TestAnswer_NextHoliday(t *testing.T) {
	a := NewAnswerer(fixedNow("2026-01-19"))
	answer := a.Answer(testConfig(), "When is the next holiday?")
	assert.NotContains(t, answer, "New Year's Day", "passed holidays are skipped")
	assert.Contains(t, answer, "Personal Day")
	assert.Contains(t, answer, "2026-04-03")
}

func TestAnswer_NextHolidayOnTheDay(t *testing.T) {
	// A holiday today still counts as upcoming.
	a := NewAnswerer(fixedNow("2026-04-03"))
	answer := a.Answer(testConfig(), "next holiday?")
	assert.Contains(t, answer, "Personal Day")
}

func TestAnswer_NoUpcomingHolidays(t *testing.T) {
	a := NewAnswerer(fixedNow("2027-06-01"))
	answer := a.Answer(testConfig(), "next holiday?")
	assert.Equal(t, "No upcoming holidays found in the schedule.", answer)
}

func TestAnswer_NoHolidaysConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.Holidays = nil
	a := NewAnswerer()
	assert.Equal(t, "No holidays configured.", a.Answer(cfg, "next holiday?"))
}

func TestAnswer_OnCall(t *testing.T) {
	a := NewAnswerer()
	for _, q := range []string{"Am I on-call?", "oncall this week?"} {
		answer := a.Answer(testConfig(), q)
		assert.Contains(t, answer, "2026-02-02")
		assert.Contains(t, answer, "2026-02-08")
		assert.Contains(t, answer, "Platform rotation")
	}
}

func TestAnswer_OnCallNoneConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.OnCall = nil
	a := NewAnswerer()
	assert.Equal(t, "No on-call schedule configured.", a.Answer(cfg, "Am I on-call?"))
}

func TestAnswer_Fallback(t *testing.T) {
	a := NewAnswerer()
	answer := a.Answer(testConfig(), "what is the meaning of life?")
	assert.Contains(t, answer, "I can answer schedule questions")
}

func TestAnswer_RulePriority(t *testing.T) {
	// "holiday" outranks a weekday mention even when the weekday comes first.
	a := NewAnswerer(fixedNow("2026-01-19"))
	answer := a.Answer(testConfig(), "Is Monday a holiday?")
	assert.NotContains(t, answer, "08:00")
	assert.Contains(t, answer, "Next holiday")
}

func TestAnswer_SkipsMalformedHolidayDates(t *testing.T) {
	cfg := testConfig()
	cfg.Holidays = append(cfg.Holidays, model.Holiday{Date: "not-a-date", Name: "Broken"})
	a := NewAnswerer(fixedNow("2026-01-19"))
	answer := a.Answer(cfg, "next holiday?")
	assert.NotContains(t, answer, "Broken")
	assert.Contains(t, answer, "Personal Day")
}
