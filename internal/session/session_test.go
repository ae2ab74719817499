package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gmsas95/pulsetrack/internal/config"
	apperrors "github.com/gmsas95/pulsetrack/internal/errors"
	"github.com/gmsas95/pulsetrack/internal/store"
)

func setupManager(t *testing.T) *Manager {
	cfg := &config.Config{}
	cfg.Storage.DataDir = t.TempDir()

	st, err := store.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return NewManager(st, zap.NewNop(), time.Hour)
}

func TestManager_InitialStateIsLoading(t *testing.T) {
	m := setupManager(t)

	current := m.Current()
	assert.True(t, current.IsLoading)
	assert.False(t, current.IsAuthenticated)
	assert.Empty(t, current.UserID)
}

func TestManager_SignInAndResume(t *testing.T) {
	m := setupManager(t)

	sess, err := m.SignIn("user_1")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "user_1", sess.UserID)
	assert.True(t, sess.IsAuthenticated)

	resumed, err := m.Resume(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "user_1", resumed.UserID)
	assert.True(t, resumed.IsAuthenticated)
}

func TestManager_SignInRequiresUserID(t *testing.T) {
	m := setupManager(t)

	_, err := m.SignIn("")
	assert.True(t, apperrors.IsValidation(err))
}

func TestManager_ResumeUnknownToken(t *testing.T) {
	m := setupManager(t)

	_, err := m.Resume("not-a-token")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrSessionNotFound.Code, apperrors.GetCode(err))
}

func TestManager_SignOutClearsSession(t *testing.T) {
	m := setupManager(t)

	sess, err := m.SignIn("user_1")
	require.NoError(t, err)

	m.SignOut()

	current := m.Current()
	assert.Empty(t, current.UserID)
	assert.False(t, current.IsAuthenticated)

	_, err = m.Resume(sess.Token)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrSessionNotFound.Code, apperrors.GetCode(err))
}

func TestManager_OnChangeFiresOnUserSwitch(t *testing.T) {
	m := setupManager(t)

	var switches []string
	m.OnChange(func(userID string) {
		switches = append(switches, userID)
	})

	_, err := m.SignIn("user_1")
	require.NoError(t, err)

	// Re-authenticating the same user is not a switch.
	_, err = m.SignIn("user_1")
	require.NoError(t, err)

	_, err = m.SignIn("user_2")
	require.NoError(t, err)

	m.SignOut()

	assert.Equal(t, []string{"user_1", "user_2", ""}, switches)
}
