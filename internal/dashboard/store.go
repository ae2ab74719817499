package dashboard

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/gmsas95/pulsetrack/internal/errors"
)

// Store handles dashboard data persistence. Each collection is keyed by a
// store-assigned id and indexed by owning user. List order is stable for
// equal inputs (created_at, then id).
type Store struct {
	db *gorm.DB
}

// NewStore creates a new dashboard store
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&HeartRateReading{}, &Medication{}, &Contact{}); err != nil {
		return nil, fmt.Errorf("failed to migrate dashboard schemas: %w", err)
	}
	return &Store{db: db}, nil
}

func generateID(prefix string) string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return prefix + "_" + hex.EncodeToString(bytes)
}

func wrapStoreErr(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Wrap(err, apperrors.ErrNotFound.Code, op)
	}
	return apperrors.Wrap(err, apperrors.ErrStorage.Code, op)
}

// Reading operations

func (s *Store) CreateReading(r *HeartRateReading) error {
	if r.ID == "" {
		r.ID = generateID("hr")
	}
	if err := s.db.Create(r).Error; err != nil {
		return wrapStoreErr(err, "create reading")
	}
	return nil
}

func (s *Store) GetReading(id string) (*HeartRateReading, error) {
	var r HeartRateReading
	if err := s.db.Where("id = ?", id).First(&r).Error; err != nil {
		return nil, wrapStoreErr(err, "get reading")
	}
	return &r, nil
}

func (s *Store) ListReadings(userID string) ([]HeartRateReading, error) {
	var readings []HeartRateReading
	err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&readings).Error
	if err != nil {
		return nil, wrapStoreErr(err, "list readings")
	}
	return readings, nil
}

// DeleteReadingsByUser cascades a user deletion; readings are never deleted
// individually.
func (s *Store) DeleteReadingsByUser(userID string) error {
	if err := s.db.Where("user_id = ?", userID).Delete(&HeartRateReading{}).Error; err != nil {
		return wrapStoreErr(err, "delete readings by user")
	}
	return nil
}

// Medication operations

func (s *Store) CreateMedication(med *Medication) error {
	if med.ID == "" {
		med.ID = generateID("med")
	}
	serializeRecords(med)
	if err := s.db.Create(med).Error; err != nil {
		return wrapStoreErr(err, "create medication")
	}
	return nil
}

func (s *Store) GetMedication(id string) (*Medication, error) {
	var med Medication
	if err := s.db.Where("id = ?", id).First(&med).Error; err != nil {
		return nil, wrapStoreErr(err, "get medication")
	}
	deserializeRecords(&med)
	return &med, nil
}

func (s *Store) SaveMedication(med *Medication) error {
	serializeRecords(med)
	res := s.db.Model(&Medication{}).Where("id = ?", med.ID).Updates(map[string]interface{}{
		"name":         med.Name,
		"dose":         med.Dose,
		"time":         med.Time,
		"timing":       med.Timing,
		"records_json": med.RecordsJSON,
	})
	if res.Error != nil {
		return wrapStoreErr(res.Error, "save medication")
	}
	if res.RowsAffected == 0 {
		return apperrors.Wrap(gorm.ErrRecordNotFound, apperrors.ErrNotFound.Code, "save medication")
	}
	return nil
}

func (s *Store) DeleteMedication(id string) error {
	res := s.db.Where("id = ?", id).Delete(&Medication{})
	if res.Error != nil {
		return wrapStoreErr(res.Error, "delete medication")
	}
	if res.RowsAffected == 0 {
		return apperrors.Wrap(gorm.ErrRecordNotFound, apperrors.ErrNotFound.Code, "delete medication")
	}
	return nil
}

func (s *Store) ListMedications(userID string) ([]Medication, error) {
	var meds []Medication
	err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&meds).Error
	if err != nil {
		return nil, wrapStoreErr(err, "list medications")
	}
	for i := range meds {
		deserializeRecords(&meds[i])
	}
	return meds, nil
}

// Contact operations

func (s *Store) CreateContact(ct *Contact) error {
	if ct.ID == "" {
		ct.ID = generateID("ct")
	}
	if err := s.db.Create(ct).Error; err != nil {
		return wrapStoreErr(err, "create contact")
	}
	return nil
}

func (s *Store) GetContact(id string) (*Contact, error) {
	var ct Contact
	if err := s.db.Where("id = ?", id).First(&ct).Error; err != nil {
		return nil, wrapStoreErr(err, "get contact")
	}
	return &ct, nil
}

func (s *Store) SaveContact(ct *Contact) error {
	res := s.db.Model(&Contact{}).Where("id = ?", ct.ID).Updates(map[string]interface{}{
		"name":         ct.Name,
		"relationship": ct.Relationship,
		"phone":        ct.Phone,
	})
	if res.Error != nil {
		return wrapStoreErr(res.Error, "save contact")
	}
	if res.RowsAffected == 0 {
		return apperrors.Wrap(gorm.ErrRecordNotFound, apperrors.ErrNotFound.Code, "save contact")
	}
	return nil
}

func (s *Store) DeleteContact(id string) error {
	res := s.db.Where("id = ?", id).Delete(&Contact{})
	if res.Error != nil {
		return wrapStoreErr(res.Error, "delete contact")
	}
	if res.RowsAffected == 0 {
		return apperrors.Wrap(gorm.ErrRecordNotFound, apperrors.ErrNotFound.Code, "delete contact")
	}
	return nil
}

func (s *Store) ListContacts(userID string) ([]Contact, error) {
	var cts []Contact
	err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&cts).Error
	if err != nil {
		return nil, wrapStoreErr(err, "list contacts")
	}
	return cts, nil
}

// Record serialization. Records live in a JSON text column so the intake
// log stays an insertion-ordered sequence, not a joined table.

func serializeRecords(med *Medication) {
	if med.Records == nil {
		med.Records = []IntakeRecord{}
	}
	data, _ := json.Marshal(med.Records)
	med.RecordsJSON = string(data)
}

func deserializeRecords(med *Medication) {
	med.Records = []IntakeRecord{}
	if med.RecordsJSON != "" {
		json.Unmarshal([]byte(med.RecordsJSON), &med.Records)
	}
}
