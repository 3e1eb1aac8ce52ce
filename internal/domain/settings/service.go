package settings

import (
	"crypto/rand"
	"encoding/json"
	"log/slog"
	"math/big"

	apperrors "github.com/krishivikas/assistant/pkg/errors"
)

const (
	userIDKey       = "farmerAssistantUserId"
	farmSettingsKey = "farmSettings"

	userIDPrefix = "user_"
	userIDLength = 9
)

// Store abstracts the device-local key-value persistence so tests can swap
// in a memory implementation.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Service owns the per-device farmer profile and user identifier. Exactly
// one of each exists per device, keyed by fixed storage names.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService wires the settings domain.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger.With("component", "settings.service")}
}

// UserID returns the persisted device identifier, generating and persisting
// one on first call.
func (s *Service) UserID() (string, error) {
	id, ok, err := s.store.Get(userIDKey)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeStorage, "failed to read user id", err)
	}
	if ok && id != "" {
		return id, nil
	}
	id = userIDPrefix + randomToken(userIDLength)
	if err := s.store.Set(userIDKey, id); err != nil {
		return "", apperrors.Wrap(apperrors.CodeStorage, "failed to persist user id", err)
	}
	s.logger.Info("generated device user id", "userId", id)
	return id, nil
}

// Farm returns the saved profile, or the defaults when nothing is saved or
// the stored JSON is corrupt. Defaults are not persisted until the farmer
// explicitly saves.
func (s *Service) Farm() FarmSettings {
	raw, ok, err := s.store.Get(farmSettingsKey)
	if err != nil || !ok {
		if err != nil {
			s.logger.Warn("failed to read farm settings, using defaults", "error", err)
		}
		return Defaults()
	}
	var fs FarmSettings
	if err := json.Unmarshal([]byte(raw), &fs); err != nil {
		s.logger.Warn("corrupt farm settings, using defaults", "error", err)
		return Defaults()
	}
	return fs
}

// SaveFarm serializes and persists the profile.
func (s *Service) SaveFarm(fs FarmSettings) error {
	data, err := json.Marshal(fs)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to encode farm settings", err)
	}
	if err := s.store.Set(farmSettingsKey, string(data)); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to persist farm settings", err)
	}
	return nil
}

const tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomToken(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform is broken; fall back
			// to a fixed character rather than panicking in the UI loop.
			out[i] = '0'
			continue
		}
		out[i] = tokenAlphabet[idx.Int64()]
	}
	return string(out)
}
