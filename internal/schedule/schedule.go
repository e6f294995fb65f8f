// Package schedule answers free-text questions against the singleton work
// schedule: holidays, weekday hours and on-call windows.
package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/guideline/internal/model"
)

// monthNames in calendar order; question matching walks this list in order.
var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var titleCaser = cases.Title(language.English)

// Answerer matches questions against a schedule config. It is stateless
// apart from the injected clock.
type Answerer struct {
	now func() time.Time
}

// Option configures an Answerer.
type Option func(*Answerer)

// WithNow overrides the clock (tests).
func WithNow(now func() time.Time) Option {
	return func(a *Answerer) {
		a.now = now
	}
}

// NewAnswerer creates an Answerer using the wall clock.
func NewAnswerer(opts ...Option) *Answerer {
	a := &Answerer{now: time.Now}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Answer evaluates the question against the config in fixed rule priority:
// holidays, then weekdays, then on-call, then a help fallback. The first
// matching rule answers; a question mentioning both "holiday" and a weekday
// is a holiday question.
func (a *Answerer) Answer(cfg *model.ScheduleConfig, question string) string {
	if cfg == nil {
		return "No schedule is configured yet."
	}

	q := strings.ToLower(question)

	if strings.Contains(q, "holiday") {
		return a.answerHoliday(cfg, q)
	}

	for _, day := range cfg.Week {
		if strings.Contains(q, strings.ToLower(day.Day)) {
			note := ""
			if day.Note != "" {
				note = " — " + day.Note
			}
			return fmt.Sprintf("Your **%s** schedule is **%s–%s**%s. (%s)", day.Day, day.Start, day.End, note, cfg.Timezone)
		}
	}

	if strings.Contains(q, "oncall") || strings.Contains(q, "on-call") {
		if len(cfg.OnCall) == 0 {
			return "No on-call schedule configured."
		}
		oc := cfg.OnCall[0]
		note := ""
		if oc.Note != "" {
			note = " — " + oc.Note
		}
		return fmt.Sprintf("On-call window: **%s → %s**%s.", oc.From, oc.To, note)
	}

	return "I can answer schedule questions like: “What’s my schedule Monday?”, “Am I on-call this week?”, or “Any holidays coming up?”"
}

func (a *Answerer) answerHoliday(cfg *model.ScheduleConfig, q string) string {
	if len(cfg.Holidays) == 0 {
		return "No holidays configured."
	}

	// Keep only parseable dates, ascending.
	holidays := make([]model.Holiday, 0, len(cfg.Holidays))
	for _, h := range cfg.Holidays {
		if _, err := time.Parse("2006-01-02", h.Date); err == nil {
			holidays = append(holidays, h)
		}
	}
	sort.Slice(holidays, func(i, j int) bool { return holidays[i].Date < holidays[j].Date })

	for i, name := range monthNames {
		if !strings.Contains(q, name) {
			continue
		}
		monthLabel := titleCaser.String(name)

		var lines []string
		for _, h := range holidays {
			if d, err := time.Parse("2006-01-02", h.Date); err == nil && int(d.Month()) == i+1 {
				lines = append(lines, fmt.Sprintf("**%s** on **%s**", h.Name, h.Date))
			}
		}
		if len(lines) == 0 {
			return fmt.Sprintf("No holidays found in %s.", monthLabel)
		}
		return fmt.Sprintf("Holidays in %s: %s (%s).", monthLabel, strings.Join(lines, ", "), cfg.Timezone)
	}

	// No month named: report the next holiday on or after today.
	// YYYY-MM-DD compares lexicographically in date order.
	today := a.now().Format("2006-01-02")
	for _, h := range holidays {
		if h.Date >= today {
			return fmt.Sprintf("Next holiday: **%s** on **%s** (%s).", h.Name, h.Date, cfg.Timezone)
		}
	}
	return "No upcoming holidays found in the schedule."
}
