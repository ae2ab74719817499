package dashboard

import "time"

// IntakeStatus is the resolved daily status of one medication. NoRecord and
// NotTaken render the same ("pending") but are distinct: only an explicit
// taken=false record counts toward the missed statistic.
type IntakeStatus int

const (
	StatusNoRecord IntakeStatus = iota
	StatusNotTaken
	StatusTaken
)

func (s IntakeStatus) String() string {
	switch s {
	case StatusTaken:
		return "taken"
	case StatusNotTaken:
		return "not-taken"
	default:
		return "pending"
	}
}

// TodayStatus resolves a medication's status for ref's calendar day.
// The record log is append-only and a day may hold duplicates; the most
// recently appended entry for the day wins.
func TodayStatus(med Medication, ref time.Time) IntakeStatus {
	y, m, d := ref.Date()
	loc := ref.Location()

	for i := len(med.Records) - 1; i >= 0; i-- {
		ry, rm, rd := med.Records[i].Date.In(loc).Date()
		if ry == y && rm == m && rd == d {
			if med.Records[i].Taken {
				return StatusTaken
			}
			return StatusNotTaken
		}
	}
	return StatusNoRecord
}

// IsTakenToday is the card-level badge check.
func IsTakenToday(med Medication, ref time.Time) bool {
	return TodayStatus(med, ref) == StatusTaken
}

// MissedCount counts medications with an explicit taken=false record for
// ref's day. Medications with no record at all are excluded; that asymmetry
// matches the documented behavior and is pinned by tests.
func MissedCount(meds []Medication, ref time.Time) int {
	missed := 0
	for _, med := range meds {
		if TodayStatus(med, ref) == StatusNotTaken {
			missed++
		}
	}
	return missed
}

// AdherenceSummary holds the overview card numbers.
type AdherenceSummary struct {
	Scheduled int `json:"scheduled"` // all regimens count as daily
	Taken     int `json:"taken"`
	Missed    int `json:"missed"`
}

// Summarize derives the daily adherence numbers for a medication set.
func Summarize(meds []Medication, ref time.Time) AdherenceSummary {
	summary := AdherenceSummary{Scheduled: len(meds)}
	for _, med := range meds {
		switch TodayStatus(med, ref) {
		case StatusTaken:
			summary.Taken++
		case StatusNotTaken:
			summary.Missed++
		}
	}
	return summary
}
