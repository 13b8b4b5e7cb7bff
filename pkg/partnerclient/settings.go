package partnerclient

import (
	"context"
	"sync"
)

type settingsAPI interface {
	GetSettings(ctx context.Context) (*Settings, error)
	UpdateSettings(ctx context.Context, patch SettingsPatch) (*Settings, error)
}

// StoreSettings is the dashboard's local copy of the store settings.
type StoreSettings struct {
	api     settingsAPI
	mu      sync.Mutex
	current Settings
}

func NewStoreSettings(c *Client) *StoreSettings {
	return &StoreSettings{api: c}
}

func (s *StoreSettings) Load(ctx context.Context) error {
	remote, err := s.api.GetSettings(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.current = *remote
	s.mu.Unlock()
	return nil
}

func (s *StoreSettings) Snapshot() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// ToggleOpen flips IsOpen right away and persists it. When the update fails
// the previous value is restored and the error returned.
func (s *StoreSettings) ToggleOpen(ctx context.Context) error {
	s.mu.Lock()
	previous := s.current.IsOpen
	next := !previous
	s.current.IsOpen = next
	s.mu.Unlock()

	remote, err := s.api.UpdateSettings(ctx, SettingsPatch{IsOpen: &next})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.current.IsOpen = previous
		return err
	}
	s.current = *remote
	return nil
}
