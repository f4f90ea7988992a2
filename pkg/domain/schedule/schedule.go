// Package schedule implements the month-boundary-aware day arithmetic
// for billing and payment cycles, and the utilization alert levels.
package schedule

import "time"

// UtilizationLevel classifies a credit utilization figure for alerting.
type UtilizationLevel string

const (
	LevelGood    UtilizationLevel = "good"
	LevelWarning UtilizationLevel = "warning"
	LevelDanger  UtilizationLevel = "danger"
)

// DefaultAlertThreshold is the warning threshold used when an account
// has no custom one configured.
const DefaultAlertThreshold = 30.0

// dangerThreshold always wins, regardless of any custom warning threshold.
const dangerThreshold = 75.0

// UtilizationStatus classifies utilization (a percent) against the
// alert threshold. Thresholds are inclusive lower bounds.
func UtilizationStatus(utilization, alertThreshold float64) UtilizationLevel {
	if alertThreshold <= 0 {
		alertThreshold = DefaultAlertThreshold
	}
	switch {
	case utilization >= dangerThreshold:
		return LevelDanger
	case utilization >= alertThreshold:
		return LevelWarning
	default:
		return LevelGood
	}
}

// DaysUntilDue returns the number of days from today until the next
// occurrence of dueDay (a day of month, 1-31). A dueDay past the end of
// a month is treated as that month's last day, each month clamped
// independently (so day 31 means Feb 29 in a leap year, then Mar 31).
// Returns 0 when the due day is today, and -1 for an unset or invalid
// dueDay.
func DaysUntilDue(dueDay int, today time.Time) int {
	if dueDay < 1 || dueDay > 31 {
		return -1
	}

	year, month, day := today.Date()
	effective := clampDay(dueDay, year, month)
	if day <= effective {
		return effective - day
	}

	// Past this month's due day: remaining days this month plus the due
	// day of next month, clamped to next month's length.
	remaining := daysInMonth(year, month) - day
	nextYear, nextMonth := year, month+1
	if nextMonth > time.December {
		nextYear, nextMonth = year+1, time.January
	}
	return remaining + clampDay(dueDay, nextYear, nextMonth)
}

func clampDay(day, year int, month time.Month) int {
	if n := daysInMonth(year, month); day > n {
		return n
	}
	return day
}

// daysInMonth leans on time.Date normalizing day 0 to the last day of
// the previous month.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
