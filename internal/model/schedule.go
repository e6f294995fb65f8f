package model

// ScheduleConfig is the singleton work-schedule blob. Updates replace the
// whole record; there is no partial merge.
type ScheduleConfig struct {
	Timezone string         `json:"timezone" yaml:"timezone"`
	Week     []WeekdayEntry `json:"week" yaml:"week"`
	OnCall   []OnCallWindow `json:"oncall,omitempty" yaml:"oncall,omitempty"`
	Holidays []Holiday      `json:"holidays,omitempty" yaml:"holidays,omitempty"`
}

// WeekdayEntry is one day's working hours.
type WeekdayEntry struct {
	Day   string `json:"day" yaml:"day"`
	Start string `json:"start" yaml:"start"` // HH:MM
	End   string `json:"end" yaml:"end"`     // HH:MM
	Note  string `json:"note,omitempty" yaml:"note,omitempty"`
}

// OnCallWindow is one on-call rotation window.
type OnCallWindow struct {
	From string `json:"from" yaml:"from"` // YYYY-MM-DD
	To   string `json:"to" yaml:"to"`     // YYYY-MM-DD
	Note string `json:"note,omitempty" yaml:"note,omitempty"`
}

// Holiday is a single company holiday.
type Holiday struct {
	Date string `json:"date" yaml:"date"` // YYYY-MM-DD
	Name string `json:"name" yaml:"name"`
}
