package domain

import (
	"testing"
	"time"
)

func TestPlanDirShapes(t *testing.T) {
	date := CaptureDate{Year: 2024, Month: 4, Day: 7}
	cases := []struct {
		layout Layout
		want   string
	}{
		{Layout{}, "pics/2024/04"},
		{Layout{NoYear: true}, "pics/2024-04"},
		{Layout{Daily: true}, "pics/2024/04/07"},
		{Layout{Daily: true, NoYear: true}, "pics/2024-04/07"},
	}
	for _, tc := range cases {
		if got := tc.layout.PlanDir("pics", date); got != tc.want {
			t.Fatalf("PlanDir(%+v) = %q, want %q", tc.layout, got, tc.want)
		}
	}
}

func TestPlanDirPadsSingleDigits(t *testing.T) {
	got := Layout{Daily: true}.PlanDir("out", CaptureDate{Year: 987, Month: 1, Day: 2})
	if got != "out/0987/01/02" {
		t.Fatalf("got %q", got)
	}
}

func TestDateOf(t *testing.T) {
	d := DateOf(time.Date(2023, time.November, 30, 23, 59, 0, 0, time.UTC))
	if d.Year != 2023 || d.Month != 11 || d.Day != 30 {
		t.Fatalf("got %+v", d)
	}
	if d.String() != "2023-11-30" {
		t.Fatalf("String() = %q", d.String())
	}
	if d.IsZero() {
		t.Fatal("populated date must not be zero")
	}
	if !(CaptureDate{}).IsZero() {
		t.Fatal("zero value must report IsZero")
	}
}

func TestSummaryRecord(t *testing.T) {
	var s Summary
	s.Record(Result{Outcome: OutcomeMoved, Bytes: 100})
	s.Record(Result{Outcome: OutcomeCopied, Bytes: 50})
	s.Record(Result{Outcome: OutcomeSkippedDuplicate})
	s.Record(Result{Outcome: OutcomeDeletedDuplicate})
	s.Record(Result{Outcome: OutcomeFailed, Source: "bad.jpg"})

	if s.Total != 5 {
		t.Fatalf("Total = %d, want 5", s.Total)
	}
	if s.Moved != 1 || s.Copied != 1 || s.Skipped != 1 || s.Deleted != 1 {
		t.Fatalf("counters = %d/%d/%d/%d", s.Moved, s.Copied, s.Skipped, s.Deleted)
	}
	if s.Bytes != 150 {
		t.Fatalf("Bytes = %d, want 150", s.Bytes)
	}
	if s.Succeeded() != 4 {
		t.Fatalf("Succeeded() = %d, want 4", s.Succeeded())
	}
	if s.OK() {
		t.Fatal("summary with a failure must not be OK")
	}
	if len(s.Failed) != 1 || s.Failed[0].Source != "bad.jpg" {
		t.Fatalf("Failed = %+v", s.Failed)
	}
}
