package settings

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/samber/oops"

	"pawvault/internal/bus"
	"pawvault/internal/kvstore"
	"pawvault/internal/locale"
)

// StoreKey is the namespace key the whole record is stored under.
const StoreKey = "nanovault-appsettings"

// Changed is published on bus.TopicSettingsChanged after a successful save.
type Changed struct {
	Keys     []string
	Settings Settings
}

// ServerResolved is published on bus.TopicServerResolved after every
// resolution pass.
type ServerResolved struct {
	Mode   string
	Server string
	API    string
	WS     string
}

// Manager owns the one settings record of the process. Consumers receive the
// Manager explicitly; there is no package-level instance. Every mutating call
// persists the full record before it returns.
type Manager struct {
	mu sync.RWMutex

	store     kvstore.Store
	locales   locale.Resolver
	publisher bus.Publisher
	logger    *slog.Logger
	intn      func(n int) int

	settings Settings
}

type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithPublisher enables change notifications.
func WithPublisher(p bus.Publisher) Option {
	return func(m *Manager) {
		m.publisher = p
	}
}

// WithRand replaces the random source used for server selection.
func WithRand(r *rand.Rand) Option {
	return func(m *Manager) {
		if r != nil {
			m.intn = r.IntN
		}
	}
}

func New(store kvstore.Store, locales locale.Resolver, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		locales:  locales,
		logger:   slog.Default(),
		intn:     rand.IntN,
		settings: InitialDefaults(),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Load merges the stored record over the in-memory one, fills the language
// from the locale resolver when unset and resolves the server. Storage and
// decoding problems are logged and leave the affected fields untouched.
func (m *Manager) Load() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.mergeStoredLocked()
	if m.settings.Language == nil {
		m.resolveLanguageLocked()
	}
	m.resolveServerLocked()

	return m.settings.Clone()
}

func (m *Manager) mergeStoredLocked() {
	raw, ok, err := m.store.Get(StoreKey)
	if err != nil {
		m.logger.Warn("read stored settings, keeping defaults", "error", err)

		return
	}
	if !ok {
		m.logger.Debug("no stored settings")

		return
	}

	var stored map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		m.logger.Warn("discard malformed stored settings", "error", err)

		return
	}

	for key, value := range stored {
		f, ok := fieldsByKey[key]
		if !ok {
			m.logger.Debug("drop unknown stored settings key", "key", key)

			continue
		}
		if err := f.decode(&m.settings, value); err != nil {
			m.logger.Warn("ignore invalid stored settings value", "key", key, "error", err)
		}
	}
}

func (m *Manager) resolveLanguageLocked() {
	if m.locales == nil {
		m.settings.Language = optional(locale.DefaultLanguage)

		return
	}
	lang, match := locale.Pick(m.locales)
	m.settings.Language = optional(lang)
	m.logger.Info(
		"no language configured, resolved from locale",
		"language", lang,
		"match", match,
		"culture", m.locales.BrowserCultureLanguage(),
		"browser_language", m.locales.BrowserLanguage(),
	)
}

// ResolveServer derives the server endpoints from the server name.
func (m *Manager) ResolveServer() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resolveServerLocked()

	return m.settings.Clone()
}

func (m *Manager) resolveServerLocked() {
	requested := m.settings.ServerName
	name := requested
	mode := "catalog"

	switch name {
	case ServerCustom:
		mode = "custom"
		m.logger.Debug("server resolved", "mode", mode)
		m.publishServer(mode)

		return
	case ServerOffline:
		// Offline mode keeps talking to the primary node for lookups that
		// do not broadcast anything.
		mode = "offline"
		name = InitialDefaults().ServerName
	}

	opt, found := FindServer(name)
	if name == ServerRandom || !found || opt.API == "" {
		mode = "random"
		eligible := randomEligible()
		opt = eligible[m.intn(len(eligible))]
		m.applyServerLocked(opt)
		m.settings.ServerName = ServerRandom
	} else {
		m.applyServerLocked(opt)
	}

	m.logger.Debug("server resolved", "mode", mode, "requested", requested, "picked", opt.Value, "api", opt.API)
	m.publishServer(mode)
}

func (m *Manager) applyServerLocked(opt ServerOption) {
	m.settings.ServerName = opt.Value
	m.settings.ServerAPI = nonEmpty(opt.API)
	m.settings.ServerWS = nonEmpty(opt.WS)
	m.settings.ServerAuth = nonEmpty(opt.Auth)
}

// Save writes the full record to the store.
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.saveLocked()
}

func (m *Manager) saveLocked() error {
	raw, err := json.Marshal(m.settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := m.store.Set(StoreKey, string(raw)); err != nil {
		return fmt.Errorf("store settings: %w", err)
	}

	return nil
}

// Get returns the value stored under key. Unknown keys, unset values and
// zero values ("", 0, false) all yield nil; use Snapshot to tell them apart.
func (m *Manager) Get(key string) any {
	f, ok := fieldsByKey[key]
	if !ok {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return f.get(&m.settings)
}

// Snapshot returns a copy of the current record.
func (m *Manager) Snapshot() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.settings.Clone()
}

// Set assigns one field and persists the record. Setting serverName
// resolves the server again.
func (m *Manager) Set(key string, value any) error {
	return m.SetBulk(map[string]any{key: value})
}

// SetBulk assigns several fields and persists once. Every key is validated
// before anything is applied: an unknown key or invalid value leaves the
// record unchanged.
func (m *Manager) SetBulk(values map[string]any) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.settings.Clone()
	for _, key := range keys {
		f, ok := fieldsByKey[key]
		if !ok {
			return oops.In("settings").With("key", key).Wrapf(ErrUnknownKey, "set %q", key)
		}
		if err := f.assign(&next, values[key]); err != nil {
			return oops.In("settings").With("key", key, "value", values[key]).Wrapf(ErrInvalidValue, "set %q: %v", key, err)
		}
	}
	m.settings = next
	if _, ok := values["serverName"]; ok {
		m.resolveServerLocked()
	}

	if err := m.saveLocked(); err != nil {
		return err
	}
	m.publish(bus.TopicSettingsChanged, Changed{Keys: keys, Settings: m.settings.Clone()})

	return nil
}

// Clear removes the stored record and resets to ResetDefaults. The server
// stays unresolved until the next Load.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Remove(StoreKey); err != nil {
		return fmt.Errorf("remove stored settings: %w", err)
	}
	m.settings = ResetDefaults()
	m.logger.Info("settings cleared")
	m.publish(bus.TopicSettingsCleared, m.settings.Clone())

	return nil
}

// BaseURL returns the origin of the server API with a root path, e.g.
// "https://rpc.paw.digital/" for "https://rpc.paw.digital/api/node-api".
func (m *Manager) BaseURL() (string, error) {
	m.mu.RLock()
	api := strings.TrimSpace(Deref(m.settings.ServerAPI))
	m.mu.RUnlock()

	if api == "" {
		return "", ErrNoServer
	}
	u, err := url.Parse(api)
	if err != nil {
		return "", fmt.Errorf("parse server api %q: %w", api, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("server api %q is not an absolute url: %w", api, ErrNoServer)
	}
	u.Path = "/"
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""

	return u.String(), nil
}

func (m *Manager) publishServer(mode string) {
	m.publish(bus.TopicServerResolved, ServerResolved{
		Mode:   mode,
		Server: m.settings.ServerName,
		API:    Deref(m.settings.ServerAPI),
		WS:     Deref(m.settings.ServerWS),
	})
}

func (m *Manager) publish(topic string, msg any) {
	if m.publisher == nil {
		return
	}
	m.publisher.Publish(topic, msg)
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
