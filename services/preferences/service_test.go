package preferences_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"streamerverse/models"
	"streamerverse/services/preferences"
)

func TestGetReturnsDefaultsForNewUser(t *testing.T) {
	svc, err := preferences.NewService(afero.NewMemMapFs(), "data")
	require.NoError(t, err)

	prefs, err := svc.Get(1)
	require.NoError(t, err)
	require.Equal(t, models.DefaultPreferences().Theme, prefs.Theme)
	require.True(t, prefs.Autoplay)
}

func TestSetAndGet(t *testing.T) {
	svc, err := preferences.NewService(afero.NewMemMapFs(), "data")
	require.NoError(t, err)

	saved, err := svc.Set(1, models.Preferences{Theme: "midnight", AccentColor: "#7c3aed", Autoplay: false})
	require.NoError(t, err)
	require.False(t, saved.UpdatedAt.IsZero())

	prefs, err := svc.Get(1)
	require.NoError(t, err)
	require.Equal(t, "midnight", prefs.Theme)
	require.Equal(t, "#7c3aed", prefs.AccentColor)
	require.False(t, prefs.Autoplay)

	// Other users keep their defaults.
	other, err := svc.Get(2)
	require.NoError(t, err)
	require.Equal(t, models.DefaultPreferences().Theme, other.Theme)
}

func TestSetValidation(t *testing.T) {
	svc, err := preferences.NewService(afero.NewMemMapFs(), "data")
	require.NoError(t, err)

	_, err = svc.Set(0, models.Preferences{Theme: "dark"})
	require.ErrorIs(t, err, preferences.ErrUserIDRequired)

	_, err = svc.Set(1, models.Preferences{Theme: "  "})
	require.ErrorIs(t, err, preferences.ErrThemeRequired)
}

func TestPersistenceAcrossRestart(t *testing.T) {
	fs := afero.NewMemMapFs()

	svc, err := preferences.NewService(fs, "data")
	require.NoError(t, err)
	_, err = svc.Set(7, models.Preferences{Theme: "solarized", Autoplay: true})
	require.NoError(t, err)

	// A fresh service over the same filesystem sees the saved preferences.
	reloaded, err := preferences.NewService(fs, "data")
	require.NoError(t, err)
	prefs, err := reloaded.Get(7)
	require.NoError(t, err)
	require.Equal(t, "solarized", prefs.Theme)
}
