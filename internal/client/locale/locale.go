// Package locale resolves the active UI language. The client supports a
// fixed set of locales; anything else falls back to Default.
package locale

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/common"
	"golang.org/x/text/language"
)

type Locale string

const (
	EN Locale = "en"
	HY Locale = "hy"
	RU Locale = "ru"

	Default = EN
)

// CookieTTL is the lifetime of the locale cookie.
const CookieTTL = 365 * 24 * time.Hour

// Supported lists the locales in matcher order.
var Supported = []Locale{EN, HY, RU}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Armenian,
	language.Russian,
})

// Parse maps s to a supported locale. Regional variants such as "ru-RU" or
// "hy-AM" match their base language. The second result is false when s was
// empty or unsupported, in which case Default is returned.
func Parse(s string) (Locale, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Default, false
	}
	// "am" is what the backend calls Armenian in company settings.
	if strings.EqualFold(s, "am") {
		return HY, true
	}

	tag, err := language.Parse(s)
	if err != nil {
		return Default, false
	}

	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Default, false
	}
	// The matcher also offers close relatives (kk, be -> ru); only the
	// supported languages themselves count.
	base, _ := tag.Base()
	want, _ := language.Make(string(Supported[idx])).Base()
	if base != want {
		return Default, false
	}
	return Supported[idx], true
}

// CompanyCode is the value the backend expects in company locale fields.
func (l Locale) CompanyCode() string {
	if l == HY {
		return "am"
	}
	return string(l)
}

func (l Locale) String() string { return string(l) }

// Cookies is the cookie storage the locale is kept in.
type Cookies interface {
	Cookie(ctx context.Context, name string) string
	SetCookie(ctx context.Context, c *http.Cookie) error
	NewCookie(name, value string, ttl time.Duration) *http.Cookie
}

// Store reads and writes the locale cookie.
type Store struct {
	cookies Cookies
}

func NewStore(cookies Cookies) *Store {
	return &Store{cookies: cookies}
}

// Current returns the locale from dc_locale, then NEXT_LOCALE, else Default.
func (s *Store) Current(ctx context.Context) Locale {
	for _, name := range []string{common.LocaleCookieName, common.LegacyLocaleCookieName} {
		if l, ok := Parse(s.cookies.Cookie(ctx, name)); ok {
			return l
		}
	}
	return Default
}

// Language implements the request pipeline's language source.
func (s *Store) Language(ctx context.Context) string {
	return string(s.Current(ctx))
}

// Set stores l in dc_locale.
func (s *Store) Set(ctx context.Context, l Locale) error {
	return s.cookies.SetCookie(ctx, s.cookies.NewCookie(common.LocaleCookieName, string(l), CookieTTL))
}
