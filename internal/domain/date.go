package domain

import (
	"fmt"
	"time"
)

// CaptureDate is the calendar day a file was captured, already reduced to the
// components the destination layout needs.
type CaptureDate struct {
	Year  int
	Month int
	Day   int
}

func DateOf(t time.Time) CaptureDate {
	return CaptureDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

func (d CaptureDate) IsZero() bool {
	return d == CaptureDate{}
}

func (d CaptureDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
