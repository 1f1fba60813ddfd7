package kvstore

import "fyne.io/fyne/v2"

// PreferencesStore persists values in the fyne application preferences, so a
// desktop shell can share one storage location with its own UI settings.
// An empty string is treated as absent: fyne cannot tell the two apart.
type PreferencesStore struct {
	prefs fyne.Preferences
}

func NewPreferencesStore(prefs fyne.Preferences) *PreferencesStore {
	return &PreferencesStore{prefs: prefs}
}

func (s *PreferencesStore) Get(key string) (string, bool, error) {
	v := s.prefs.StringWithFallback(key, "")
	if v == "" {
		return "", false, nil
	}

	return v, true, nil
}

func (s *PreferencesStore) Set(key, value string) error {
	s.prefs.SetString(key, value)

	return nil
}

func (s *PreferencesStore) Remove(key string) error {
	s.prefs.RemoveValue(key)

	return nil
}
