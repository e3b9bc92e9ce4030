// Package payroll computes payroll and project report rows from closed time
// entries. It is pure computation: callers select the entries and supply the
// user directory snapshot, the package only groups and sums.
package payroll

import (
	"sort"
	"time"
)

// Entry is the minimal view of a time entry needed for aggregation.
type Entry struct {
	UserID   string
	ClockIn  time.Time
	ClockOut *time.Time
}

// UserInfo carries the reporting attributes of a user at aggregation time.
// PayRate is a snapshot of the current rate, not a historical one.
type UserInfo struct {
	DisplayName string
	PayRate     float64
}

// ReportRow is one aggregated line of a payroll or project report.
type ReportRow struct {
	UserID     string
	UserName   string
	TotalHours float64
	PayRate    float64
}

// Aggregate groups entries by user and sums worked hours. Entries that are
// still open contribute zero hours. Rows are ordered by user name, then user
// ID, so report output is deterministic. Users missing from the directory are
// reported with an empty name and zero rate rather than dropped.
func Aggregate(entries []Entry, users map[string]UserInfo) []ReportRow {
	if len(entries) == 0 {
		return nil
	}

	totals := make(map[string]float64, len(users))
	order := make([]string, 0, len(users))
	for _, entry := range entries {
		if _, seen := totals[entry.UserID]; !seen {
			totals[entry.UserID] = 0
			order = append(order, entry.UserID)
		}
		totals[entry.UserID] += workedHours(entry)
	}

	rows := make([]ReportRow, 0, len(order))
	for _, userID := range order {
		info := users[userID]
		rows = append(rows, ReportRow{
			UserID:     userID,
			UserName:   info.DisplayName,
			TotalHours: totals[userID],
			PayRate:    info.PayRate,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].UserName == rows[j].UserName {
			return rows[i].UserID < rows[j].UserID
		}
		return rows[i].UserName < rows[j].UserName
	})

	return rows
}

// WithinWindow reports whether a closed entry falls entirely inside the
// inclusive [start, end] reporting window. Open entries never qualify.
func WithinWindow(entry Entry, start, end time.Time) bool {
	if entry.ClockOut == nil {
		return false
	}
	if entry.ClockIn.Before(start) {
		return false
	}
	return !entry.ClockOut.After(end)
}

// FilterWindow returns the subset of entries inside the reporting window.
func FilterWindow(entries []Entry, start, end time.Time) []Entry {
	filtered := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if WithinWindow(entry, start, end) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

func workedHours(entry Entry) float64 {
	if entry.ClockOut == nil {
		return 0
	}
	return entry.ClockOut.Sub(entry.ClockIn).Hours()
}
