package model

import "time"

// TimeLayout is fixed-width so text columns order chronologically.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func ParseTime(raw string) (time.Time, error) {
	return time.Parse(TimeLayout, raw)
}
