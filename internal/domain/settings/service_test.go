package settings

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krishivikas/assistant/internal/infra/settingsrepo"
)

func newTestService() (*Service, *settingsrepo.MemoryStore) {
	store := settingsrepo.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, logger), store
}

func TestUserIDGeneratedOnceAndStable(t *testing.T) {
	svc, store := newTestService()

	first, err := svc.UserID()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(first, "user_"))
	require.Len(t, first, len("user_")+9)

	second, err := svc.UserID()
	require.NoError(t, err)
	require.Equal(t, first, second)

	stored, ok, err := store.Get("farmerAssistantUserId")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, first, stored)
}

func TestFarmSettingsRoundTrip(t *testing.T) {
	svc, _ := newTestService()

	saved := FarmSettings{
		FarmerName:         "Lakshmi",
		CropType:           "Mango",
		Acreage:            3.5,
		SowingDate:         "2023-06-15",
		CurrentStage:       "Flowering",
		SoilType:           "B",
		CurrentChallenges:  "Leaf curl on the northern rows.",
		PreferredLanguages: []string{"Telugu", "English"},
	}
	require.NoError(t, svc.SaveFarm(saved))
	require.Equal(t, saved, svc.Farm())
}

func TestFarmSettingsDefaultsWhenAbsent(t *testing.T) {
	svc, store := newTestService()

	require.Equal(t, Defaults(), svc.Farm())

	// Defaults must not be persisted by a read.
	_, ok, err := store.Get("farmSettings")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFarmSettingsCorruptFallsBackToDefaults(t *testing.T) {
	svc, store := newTestService()

	require.NoError(t, store.Set("farmSettings", "{not json"))
	require.Equal(t, Defaults(), svc.Farm())
}
