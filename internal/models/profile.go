package models

import "time"

// WorkProfile describes when the user works and how much of that time is
// reserved. BufferFraction ("whirlwind") is the share of post-commitment
// time kept unplannable, in [0,1].
type WorkProfile struct {
	DayStart       string         `json:"day_start"` // HH:MM
	DayEnd         string         `json:"day_end"`   // HH:MM
	Weekdays       []time.Weekday `json:"weekdays"`
	BufferFraction float64        `json:"buffer_fraction"`
}

// ActiveOn reports whether the profile includes the given weekday.
func (p WorkProfile) ActiveOn(day time.Weekday) bool {
	for _, wd := range p.Weekdays {
		if wd == day {
			return true
		}
	}
	return false
}
