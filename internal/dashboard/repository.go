package dashboard

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/gmsas95/pulsetrack/internal/errors"
	"github.com/gmsas95/pulsetrack/internal/metrics"
)

// Repository is the typed façade over the dashboard store. Validation
// happens here, before any store call; not-found and storage errors on
// update/delete are logged and swallowed so a storage hiccup never kills
// the session.
type Repository struct {
	store  *Store
	logger *zap.Logger
	clock  Clock
}

// NewRepository creates the dashboard repository
func NewRepository(store *Store, logger *zap.Logger, clock Clock) *Repository {
	if clock == nil {
		clock = RealClock{}
	}
	return &Repository{
		store:  store,
		logger: logger,
		clock:  clock,
	}
}

// Clock exposes the repository's time source so callers derive reference
// instants from the same clock.
func (r *Repository) Clock() Clock {
	return r.clock
}

// AddReading validates and persists one heart-rate observation. The raw
// bpm arrives as the form field string; it must parse to a positive
// integer or the mutation is rejected with no store call.
func (r *Repository) AddReading(userID, bpm string) (*HeartRateReading, error) {
	value, err := strconv.Atoi(strings.TrimSpace(bpm))
	if err != nil || value <= 0 {
		metrics.ValidationRejected.Inc()
		return nil, apperrors.New(apperrors.ErrInvalidBPM.Code, fmt.Sprintf("bpm %q must be a positive integer", bpm))
	}

	now := r.clock.Now()
	reading := &HeartRateReading{
		UserID:    userID,
		BPM:       value,
		Timestamp: now,
		Date:      now.Format("1/2/2006"),
		Time:      now.Format("15:04:05"),
	}

	if err := r.store.CreateReading(reading); err != nil {
		return nil, fmt.Errorf("failed to add reading: %w", err)
	}

	metrics.ReadingsRecorded.Inc()
	r.logger.Info("Reading recorded",
		zap.String("reading_id", reading.ID),
		zap.Int("bpm", reading.BPM),
	)

	return reading, nil
}

// AddMedication creates a regimen with an empty intake log.
func (r *Repository) AddMedication(userID string, in MedicationInput) (*Medication, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Dose) == "" || strings.TrimSpace(in.Time) == "" {
		metrics.ValidationRejected.Inc()
		return nil, apperrors.New(apperrors.ErrValidation.Code, "medication name, dose and time are required")
	}

	timing, err := parseTiming(in.Timing)
	if err != nil {
		metrics.ValidationRejected.Inc()
		return nil, err
	}

	med := &Medication{
		UserID:  userID,
		Name:    strings.TrimSpace(in.Name),
		Dose:    strings.TrimSpace(in.Dose),
		Time:    strings.TrimSpace(in.Time),
		Timing:  timing,
		Records: []IntakeRecord{},
	}

	if err := r.store.CreateMedication(med); err != nil {
		return nil, fmt.Errorf("failed to add medication: %w", err)
	}

	r.logger.Info("Medication added",
		zap.String("medication_id", med.ID),
		zap.String("name", med.Name),
	)

	return med, nil
}

// TakeMedication appends a taken=true record for today. The log is
// append-only: a second call on the same day appends again, and readers
// resolve status latest-entry-wins.
func (r *Repository) TakeMedication(id string) (*Medication, error) {
	med, err := r.store.GetMedication(id)
	if err != nil {
		return nil, fmt.Errorf("take medication: %w", err)
	}

	med.Records = append(med.Records, IntakeRecord{
		Date:  r.clock.Now(),
		Taken: true,
	})

	if err := r.store.SaveMedication(med); err != nil {
		return nil, fmt.Errorf("take medication: %w", err)
	}

	metrics.DosesTaken.Inc()
	r.logger.Info("Medication taken",
		zap.String("medication_id", med.ID),
		zap.String("name", med.Name),
	)

	return med, nil
}

// DeleteMedication removes a regimen. Missing ids and storage failures are
// logged and ignored.
func (r *Repository) DeleteMedication(id string) {
	if err := r.store.DeleteMedication(id); err != nil {
		r.failSoft("delete medication", id, err)
	}
}

// AddContact creates an emergency contact.
func (r *Repository) AddContact(userID string, in ContactInput) (*Contact, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
		metrics.ValidationRejected.Inc()
		return nil, apperrors.New(apperrors.ErrValidation.Code, "contact name and phone are required")
	}

	ct := &Contact{
		UserID:       userID,
		Name:         strings.TrimSpace(in.Name),
		Relationship: strings.TrimSpace(in.Relationship),
		Phone:        strings.TrimSpace(in.Phone),
	}

	if err := r.store.CreateContact(ct); err != nil {
		return nil, fmt.Errorf("failed to add contact: %w", err)
	}

	return ct, nil
}

// UpdateContact rewrites a contact's fields. Validation failures are
// returned; a missing id or storage failure is logged and ignored, so the
// caller sees (nil, nil) and proceeds with unchanged collections.
func (r *Repository) UpdateContact(id string, in ContactInput) (*Contact, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
		metrics.ValidationRejected.Inc()
		return nil, apperrors.New(apperrors.ErrValidation.Code, "contact name and phone are required")
	}

	ct := &Contact{
		ID:           id,
		Name:         strings.TrimSpace(in.Name),
		Relationship: strings.TrimSpace(in.Relationship),
		Phone:        strings.TrimSpace(in.Phone),
	}

	if err := r.store.SaveContact(ct); err != nil {
		r.failSoft("update contact", id, err)
		return nil, nil
	}

	return ct, nil
}

// DeleteContact removes a contact. Missing ids and storage failures are
// logged and ignored.
func (r *Repository) DeleteContact(id string) {
	if err := r.store.DeleteContact(id); err != nil {
		r.failSoft("delete contact", id, err)
	}
}

// LoadUserData is the single read entry point: fresh copies of all three
// collections, readings sorted by timestamp ascending.
func (r *Repository) LoadUserData(userID string) (*UserData, error) {
	readings, err := r.store.ListReadings(userID)
	if err != nil {
		return nil, fmt.Errorf("load user data: %w", err)
	}
	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Timestamp.Before(readings[j].Timestamp)
	})

	meds, err := r.store.ListMedications(userID)
	if err != nil {
		return nil, fmt.Errorf("load user data: %w", err)
	}

	contacts, err := r.store.ListContacts(userID)
	if err != nil {
		return nil, fmt.Errorf("load user data: %w", err)
	}

	return &UserData{
		Readings:    readings,
		Medications: meds,
		Contacts:    contacts,
	}, nil
}

func (r *Repository) failSoft(op, id string, err error) {
	metrics.StoreFailures.WithLabelValues(op).Inc()
	r.logger.Warn("Store operation failed, continuing",
		zap.String("op", op),
		zap.String("id", id),
		zap.Error(err),
	)
}

func parseTiming(s string) (Timing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "before-meal", "before":
		return TimingBeforeMeal, nil
	case "after-meal", "after":
		return TimingAfterMeal, nil
	}
	return "", apperrors.New(apperrors.ErrValidation.Code, "timing must be before-meal or after-meal")
}
