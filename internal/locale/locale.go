// Package locale answers which UI language the wallet should start with when
// the user has not picked one.
package locale

import (
	"slices"
	"strings"

	golocale "github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
)

const DefaultLanguage = "en"

// Language is an entry of the translation catalog.
type Language struct {
	ID   string
	Name string
}

// Resolver is consulted only while the language preference is unset.
type Resolver interface {
	AvailableLanguages() []Language
	BrowserCultureLanguage() string
	BrowserLanguage() string
	DefaultLanguage() string
}

var availableLanguages = []Language{
	{ID: "en", Name: "English"},
	{ID: "ar", Name: "العربية"},
	{ID: "de", Name: "Deutsch"},
	{ID: "es", Name: "Español"},
	{ID: "fr", Name: "Français"},
	{ID: "hi", Name: "हिन्दी"},
	{ID: "id", Name: "Bahasa Indonesia"},
	{ID: "it", Name: "Italiano"},
	{ID: "ja", Name: "日本語"},
	{ID: "ko", Name: "한국어"},
	{ID: "nl", Name: "Nederlands"},
	{ID: "pl", Name: "Polski"},
	{ID: "pt", Name: "Português"},
	{ID: "pt-BR", Name: "Português (Brasil)"},
	{ID: "ru", Name: "Русский"},
	{ID: "sv", Name: "Svenska"},
	{ID: "tr", Name: "Türkçe"},
	{ID: "uk", Name: "Українська"},
	{ID: "vi", Name: "Tiếng Việt"},
	{ID: "zh-CN", Name: "简体中文"},
}

// AvailableLanguages returns a copy of the bundled translation catalog.
func AvailableLanguages() []Language {
	return slices.Clone(availableLanguages)
}

// SystemResolver reads the operating system locale.
type SystemResolver struct {
	available []Language
	fallback  string
	detect    func() (string, error)
}

func NewSystemResolver() *SystemResolver {
	return &SystemResolver{
		available: AvailableLanguages(),
		fallback:  DefaultLanguage,
		detect:    golocale.GetLocale,
	}
}

func (r *SystemResolver) AvailableLanguages() []Language {
	return slices.Clone(r.available)
}

// BrowserCultureLanguage returns the full culture tag, e.g. "pt-BR", or ""
// when the locale cannot be detected.
func (r *SystemResolver) BrowserCultureLanguage() string {
	raw, err := r.detect()
	if err != nil {
		return ""
	}

	return CanonicalTag(raw)
}

// BrowserLanguage returns the coarse language of the detected locale,
// e.g. "pt" for "pt-BR".
func (r *SystemResolver) BrowserLanguage() string {
	return BaseLanguage(r.BrowserCultureLanguage())
}

func (r *SystemResolver) DefaultLanguage() string {
	return r.fallback
}

// CanonicalTag normalizes POSIX-style locale names ("pt_BR.UTF-8") to BCP 47
// ("pt-BR"). Unparsable input yields "".
func CanonicalTag(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, ".@"); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.ReplaceAll(raw, "_", "-")
	if raw == "" || strings.EqualFold(raw, "C") || strings.EqualFold(raw, "POSIX") {
		return ""
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return ""
	}

	return tag.String()
}

// BaseLanguage returns the ISO 639 base of tag, or "" if tag is empty or
// invalid.
func BaseLanguage(tag string) string {
	if tag == "" {
		return ""
	}
	t, err := language.Parse(tag)
	if err != nil {
		return ""
	}
	base, conf := t.Base()
	if conf == language.No {
		return ""
	}

	return base.String()
}

// Match says which fallback tier produced a language.
type Match string

const (
	MatchCulture  Match = "culture"
	MatchLanguage Match = "language"
	MatchDefault  Match = "default"
)

// Pick chooses a language: exact culture tag first, then the coarse
// language, then the resolver default.
func Pick(r Resolver) (string, Match) {
	available := r.AvailableLanguages()
	has := func(id string) bool {
		if id == "" {
			return false
		}

		return slices.ContainsFunc(available, func(l Language) bool { return l.ID == id })
	}

	if culture := r.BrowserCultureLanguage(); has(culture) {
		return culture, MatchCulture
	}
	if lang := r.BrowserLanguage(); has(lang) {
		return lang, MatchLanguage
	}

	return r.DefaultLanguage(), MatchDefault
}
