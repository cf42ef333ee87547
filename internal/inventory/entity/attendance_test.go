package entity

import (
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestHoursBetween(t *testing.T) {
	start := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	end := start.Add(7*time.Hour + 20*time.Minute)
	if got := HoursBetween(start, end); got != 7.33 {
		t.Errorf("expected 7.33, got %v", got)
	}
	if got := HoursBetween(end, start); got != 0 {
		t.Errorf("expected 0 for reversed times, got %v", got)
	}
}

func TestCloseCapsHours(t *testing.T) {
	start := time.Date(2026, 5, 4, 6, 0, 0, 0, time.UTC)
	r := &AttendanceRecord{StartTime: &start, Status: AttendanceInProgress}

	r.Close(start.Add(20*time.Hour), 12)
	if r.Status != AttendancePresent {
		t.Fatalf("expected present, got %s", r.Status)
	}
	if r.TotalHours == nil || *r.TotalHours != 12 {
		t.Fatalf("expected capped 12h, got %v", r.TotalHours)
	}
	if !r.EndTime.Equal(start.Add(12 * time.Hour)) {
		t.Errorf("expected end moved to cap, got %v", r.EndTime)
	}
}

func TestSummarize(t *testing.T) {
	// Wednesday
	now := time.Date(2026, 5, 6, 15, 0, 0, 0, time.UTC)
	h := func(v float64) *float64 { return &v }
	day := func(y int, m time.Month, d int) datatypes.Date {
		return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	}

	records := []AttendanceRecord{
		{Date: day(2026, 5, 6), Status: AttendancePresent, TotalHours: h(4.5)},
		{Date: day(2026, 5, 6), Status: AttendanceInProgress},
		{Date: day(2026, 5, 3), Status: AttendancePresent, TotalHours: h(8)},  // Sunday, same week
		{Date: day(2026, 5, 2), Status: AttendancePresent, TotalHours: h(6)},  // previous Saturday
		{Date: day(2026, 4, 20), Status: AttendanceAbsent},
	}

	s := Summarize(records, now)
	if s.TodayHours != 4.5 {
		t.Errorf("today: expected 4.5, got %v", s.TodayHours)
	}
	if s.WeekHours != 12.5 {
		t.Errorf("week: expected 12.5, got %v", s.WeekHours)
	}
	if s.TotalHours != 18.5 {
		t.Errorf("total: expected 18.5, got %v", s.TotalHours)
	}
	if s.PresentDays != 3 || s.TotalRecords != 5 {
		t.Errorf("expected 3 present of 5, got %d of %d", s.PresentDays, s.TotalRecords)
	}
}

func TestWeekStart(t *testing.T) {
	sat := time.Date(2026, 5, 9, 23, 59, 0, 0, time.UTC)
	want := time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)
	if got := WeekStart(sat); !got.Equal(want) {
		t.Errorf("WeekStart(%v) = %v, want %v", sat, got, want)
	}
}
