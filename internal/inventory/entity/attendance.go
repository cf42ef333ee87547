package entity

import (
	"math"
	"time"

	"gorm.io/datatypes"
)

// Attendance status
const (
	AttendancePresent    = "present"
	AttendanceAbsent     = "absent"
	AttendanceInProgress = "in-progress"
)

// AttendanceRecord one shift of one employee at one site
type AttendanceRecord struct {
	ID                   string         `json:"id" gorm:"primaryKey;size:32"`
	EmployeeID           string         `json:"employeeId" gorm:"size:32;not null;index"`
	EmployeeName         string         `json:"employeeName" gorm:"size:128"`
	ConstructionSiteID   string         `json:"constructionSiteId" gorm:"size:32;not null;index"`
	ConstructionSiteName string         `json:"constructionSiteName" gorm:"size:128"`
	Date                 datatypes.Date `json:"date" gorm:"not null;index"`
	StartTime            *time.Time     `json:"startTime"`
	EndTime              *time.Time     `json:"endTime"`
	Status               string         `json:"status" gorm:"size:20;not null;index"`
	TotalHours           *float64       `json:"totalHours"`
	CreatedAt            time.Time      `json:"createdAt"`
	UpdatedAt            time.Time      `json:"-"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// HoursBetween returns the elapsed hours rounded to two decimals.
func HoursBetween(start, end time.Time) float64 {
	h := end.Sub(start).Hours()
	if h < 0 {
		h = 0
	}
	return math.Round(h*100) / 100
}

// Close ends an in-progress shift. maxHours > 0 caps the recorded hours.
func (r *AttendanceRecord) Close(end time.Time, maxHours float64) {
	if r.StartTime != nil {
		hours := HoursBetween(*r.StartTime, end)
		if maxHours > 0 && hours > maxHours {
			hours = maxHours
			end = r.StartTime.Add(time.Duration(maxHours * float64(time.Hour)))
		}
		r.TotalHours = &hours
	}
	r.EndTime = &end
	r.Status = AttendancePresent
}

// AttendanceSummary hour totals for one view of attendance
type AttendanceSummary struct {
	TodayHours   float64 `json:"todayHours"`
	WeekHours    float64 `json:"weekHours"`
	TotalHours   float64 `json:"totalHours"`
	PresentDays  int     `json:"presentDays"`
	TotalRecords int     `json:"totalRecords"`
}

// WeekStart is Sunday 00:00 of the week containing now.
func WeekStart(now time.Time) time.Time {
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// Summarize totals hours for today, the current week and overall.
func Summarize(records []AttendanceRecord, now time.Time) AttendanceSummary {
	var s AttendanceSummary
	y, m, d := now.Date()
	weekStart := WeekStart(now)

	for _, r := range records {
		s.TotalRecords++
		if r.Status == AttendancePresent {
			s.PresentDays++
		}
		if r.TotalHours == nil {
			continue
		}
		hours := *r.TotalHours
		s.TotalHours += hours

		// a date column carries no zone, read its calendar fields as-is
		ry, rm, rd := time.Time(r.Date).Date()
		if ry == y && rm == m && rd == d {
			s.TodayHours += hours
		}
		recordDay := time.Date(ry, rm, rd, 0, 0, 0, 0, now.Location())
		if !recordDay.Before(weekStart) {
			s.WeekHours += hours
		}
	}

	s.TodayHours = math.Round(s.TodayHours*100) / 100
	s.WeekHours = math.Round(s.WeekHours*100) / 100
	s.TotalHours = math.Round(s.TotalHours*100) / 100
	return s
}
