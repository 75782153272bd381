// Package settings holds the per-device preferences: theme, notification
// toggles and the avatar image path.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"dishfeed/internal/session"
)

// Theme is the colour scheme of the app
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// PrimaryColor is the accent colour shared by both themes
const PrimaryColor = "#ff6247"

// AvatarKey is the device-local entry holding the avatar image path
const AvatarKey = "avatar"

// Palette lists the colours for a theme
type Palette struct {
	Background string `json:"background"`
	Card       string `json:"card"`
	Text       string `json:"text"`
	Muted      string `json:"muted"`
	Border     string `json:"border"`
	TabBar     string `json:"tab_bar"`
	Primary    string `json:"primary"`
}

// PaletteFor returns the colours for theme. Unknown themes get the dark palette.
func PaletteFor(theme Theme) Palette {
	if theme == ThemeLight {
		return Palette{
			Background: "#fdfdfd",
			Card:       "#ffffff",
			Text:       "#111111",
			Muted:      "#777777",
			Border:     "#e3e3e3",
			TabBar:     "rgba(255,255,255,0.92)",
			Primary:    PrimaryColor,
		}
	}
	return Palette{
		Background: "#050505",
		Card:       "#111111",
		Text:       "#f9f9f9",
		Muted:      "#9a9a9a",
		Border:     "#262626",
		TabBar:     "rgba(10,10,10,0.94)",
		Primary:    PrimaryColor,
	}
}

// Preferences is a snapshot of the device settings
type Preferences struct {
	Theme              Theme   `json:"theme"`
	Palette            Palette `json:"palette"`
	PushNotifications  bool    `json:"push_notifications"`
	EmailNotifications bool    `json:"email_notifications"`
}

// Patch is a partial update of the preferences
type Patch struct {
	Theme              *Theme `json:"theme,omitempty"`
	PushNotifications  *bool  `json:"push_notifications,omitempty"`
	EmailNotifications *bool  `json:"email_notifications,omitempty"`
}

// ErrUnknownTheme is returned when a patch names a theme that does not exist
var ErrUnknownTheme = errors.New("unknown theme")

// Service keeps the preferences in memory and the avatar in the device store
type Service struct {
	mu    sync.RWMutex
	prefs Preferences
	store session.Store
}

// NewService creates settings with the dark theme and notifications on
func NewService(store session.Store) *Service {
	return &Service{
		prefs: Preferences{
			Theme:              ThemeDark,
			PushNotifications:  true,
			EmailNotifications: true,
		},
		store: store,
	}
}

// Get returns the current preferences
func (s *Service) Get() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.prefs
	p.Palette = PaletteFor(p.Theme)
	return p
}

// Apply merges patch into the preferences
func (s *Service) Apply(patch Patch) (Preferences, error) {
	if patch.Theme != nil && *patch.Theme != ThemeDark && *patch.Theme != ThemeLight {
		return Preferences{}, fmt.Errorf("%w: %s", ErrUnknownTheme, *patch.Theme)
	}

	s.mu.Lock()
	if patch.Theme != nil {
		s.prefs.Theme = *patch.Theme
	}
	if patch.PushNotifications != nil {
		s.prefs.PushNotifications = *patch.PushNotifications
	}
	if patch.EmailNotifications != nil {
		s.prefs.EmailNotifications = *patch.EmailNotifications
	}
	s.mu.Unlock()

	return s.Get(), nil
}

// ToggleTheme switches between light and dark
func (s *Service) ToggleTheme() Preferences {
	s.mu.Lock()
	if s.prefs.Theme == ThemeLight {
		s.prefs.Theme = ThemeDark
	} else {
		s.prefs.Theme = ThemeLight
	}
	s.mu.Unlock()

	return s.Get()
}

// Avatar returns the saved avatar image path, "" when none is saved
func (s *Service) Avatar(ctx context.Context) (string, error) {
	uri, err := s.store.Get(ctx, AvatarKey)
	if errors.Is(err, session.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load avatar: %w", err)
	}
	return uri, nil
}

// SetAvatar saves the avatar image path. An empty uri removes it.
func (s *Service) SetAvatar(ctx context.Context, uri string) error {
	if uri == "" {
		if err := s.store.Delete(ctx, AvatarKey); err != nil {
			return fmt.Errorf("failed to remove avatar: %w", err)
		}
		return nil
	}
	if err := s.store.Set(ctx, AvatarKey, uri, 0); err != nil {
		return fmt.Errorf("failed to save avatar: %w", err)
	}
	return nil
}
