package dashboard

import (
	"time"
)

// HeartRateReading is one vital-sign observation. Timestamp is authoritative
// for ordering and window filtering; Date and Time are display derivatives
// persisted so the presentation layer never re-formats on render.
type HeartRateReading struct {
	ID     string `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"index"`

	BPM       int       `json:"bpm"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
	Date      string    `json:"date"` // e.g. "1/2/2006"
	Time      string    `json:"time"` // e.g. "08:15:04"

	CreatedAt time.Time `json:"created_at"`
}

// Timing says whether a dose is taken before or after a meal.
type Timing string

const (
	TimingBeforeMeal Timing = "before-meal"
	TimingAfterMeal  Timing = "after-meal"
)

// IntakeRecord is one append-only intake log entry for a medication.
// A day may hold several entries; readers resolve status latest-entry-wins.
type IntakeRecord struct {
	Date  time.Time `json:"date"`
	Taken bool      `json:"taken"`
}

// Medication is a scheduled drug regimen with its intake log.
type Medication struct {
	ID     string `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"index"`

	Name   string `json:"name"`
	Dose   string `json:"dose"`   // e.g. "100mg"
	Time   string `json:"time"`   // scheduled clock time, e.g. "08:00"
	Timing Timing `json:"timing"` // before-meal or after-meal

	Records     []IntakeRecord `json:"records" gorm:"-"`
	RecordsJSON string         `json:"-" gorm:"type:text"` // Serialized records

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Contact is an emergency contact. No derived state.
type Contact struct {
	ID     string `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"index"`

	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MedicationInput is the raw form payload for adding a medication.
type MedicationInput struct {
	Name   string `json:"name"`
	Dose   string `json:"dose"`
	Time   string `json:"time"`
	Timing string `json:"timing"`
}

// ContactInput is the raw form payload for adding or updating a contact.
type ContactInput struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

// UserData is the full per-user snapshot the presentation layer reloads
// after every mutation. Readings are sorted by timestamp ascending.
type UserData struct {
	Readings    []HeartRateReading `json:"readings"`
	Medications []Medication       `json:"medications"`
	Contacts    []Contact          `json:"contacts"`
}

// LatestBPM returns the most recent reading's bpm, or 0 when empty.
func (d *UserData) LatestBPM() int {
	if len(d.Readings) == 0 {
		return 0
	}
	return d.Readings[len(d.Readings)-1].BPM
}
