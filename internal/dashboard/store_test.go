package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apperrors "github.com/gmsas95/pulsetrack/internal/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func setupTestStore(t *testing.T) *Store {
	store, err := NewStore(setupTestDB(t))
	require.NoError(t, err)
	return store
}

func TestStore_CreateReading(t *testing.T) {
	store := setupTestStore(t)

	r := &HeartRateReading{
		UserID:    "user_1",
		BPM:       72,
		Timestamp: time.Now(),
	}

	require.NoError(t, store.CreateReading(r))
	assert.NotEmpty(t, r.ID)

	got, err := store.GetReading(r.ID)
	require.NoError(t, err)
	assert.Equal(t, 72, got.BPM)
	assert.Equal(t, "user_1", got.UserID)
}

func TestStore_ListReadingsScopedToUser(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.CreateReading(&HeartRateReading{UserID: "user_1", BPM: 70, Timestamp: time.Now()}))
	require.NoError(t, store.CreateReading(&HeartRateReading{UserID: "user_1", BPM: 75, Timestamp: time.Now()}))
	require.NoError(t, store.CreateReading(&HeartRateReading{UserID: "user_2", BPM: 90, Timestamp: time.Now()}))

	readings, err := store.ListReadings("user_1")
	require.NoError(t, err)
	assert.Len(t, readings, 2)

	readings, err = store.ListReadings("user_2")
	require.NoError(t, err)
	assert.Len(t, readings, 1)
	assert.Equal(t, 90, readings[0].BPM)
}

func TestStore_ListReadingsStableOrder(t *testing.T) {
	store := setupTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.CreateReading(&HeartRateReading{UserID: "user_1", BPM: 60 + i, Timestamp: time.Now()}))
	}

	first, err := store.ListReadings("user_1")
	require.NoError(t, err)
	second, err := store.ListReadings("user_1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStore_GetReadingNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetReading("hr_missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStore_MedicationRecordsRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	med := &Medication{
		UserID: "user_1",
		Name:   "Aspirin",
		Dose:   "100mg",
		Time:   "08:00",
		Timing: TimingBeforeMeal,
	}
	require.NoError(t, store.CreateMedication(med))

	got, err := store.GetMedication(med.ID)
	require.NoError(t, err)
	assert.Equal(t, []IntakeRecord{}, got.Records, "records initialize empty, not nil")

	now := time.Date(2024, time.March, 13, 8, 0, 0, 0, time.UTC)
	got.Records = append(got.Records, IntakeRecord{Date: now, Taken: true})
	require.NoError(t, store.SaveMedication(got))

	reloaded, err := store.GetMedication(med.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Records, 1)
	assert.True(t, reloaded.Records[0].Taken)
	assert.True(t, reloaded.Records[0].Date.Equal(now))
}

func TestStore_SaveMedicationMissing(t *testing.T) {
	store := setupTestStore(t)

	err := store.SaveMedication(&Medication{ID: "med_missing", Name: "X"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStore_DeleteMedication(t *testing.T) {
	store := setupTestStore(t)

	med := &Medication{UserID: "user_1", Name: "Aspirin"}
	require.NoError(t, store.CreateMedication(med))

	require.NoError(t, store.DeleteMedication(med.ID))

	_, err := store.GetMedication(med.ID)
	assert.True(t, apperrors.IsNotFound(err))

	err = store.DeleteMedication(med.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStore_ContactCRUD(t *testing.T) {
	store := setupTestStore(t)

	ct := &Contact{UserID: "user_1", Name: "Jamie", Relationship: "sibling", Phone: "555-0100"}
	require.NoError(t, store.CreateContact(ct))
	assert.NotEmpty(t, ct.ID)

	ct.Phone = "555-0199"
	require.NoError(t, store.SaveContact(ct))

	got, err := store.GetContact(ct.ID)
	require.NoError(t, err)
	assert.Equal(t, "555-0199", got.Phone)

	require.NoError(t, store.DeleteContact(ct.ID))
	_, err = store.GetContact(ct.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStore_DeleteContactMissing(t *testing.T) {
	store := setupTestStore(t)

	err := store.DeleteContact("ct_missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStore_DeleteReadingsByUser(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.CreateReading(&HeartRateReading{UserID: "user_1", BPM: 70, Timestamp: time.Now()}))
	require.NoError(t, store.CreateReading(&HeartRateReading{UserID: "user_2", BPM: 80, Timestamp: time.Now()}))

	require.NoError(t, store.DeleteReadingsByUser("user_1"))

	gone, err := store.ListReadings("user_1")
	require.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := store.ListReadings("user_2")
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}
