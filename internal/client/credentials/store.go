// Package credentials is the durable, cookie-shaped mirror of the session
// tokens. Each entry is kept as a Set-Cookie line (value plus expiry, path,
// SameSite, Secure and Domain attributes) in the local metadata table, so the
// stored data has the same shape and lifetime rules as the browser cookies of
// the web client.
//
// The store is a best-effort copy of the session, never the authority: read
// failures are logged and reported as "absent".
package credentials

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/dmitrijs2005/jobportal/internal/dbx"
	"github.com/dmitrijs2005/jobportal/internal/logging"
)

// DefaultTTL is the lifetime of the token cookies.
const DefaultTTL = 7 * 24 * time.Hour

const keyPrefix = "cookie:"

// Options control the attributes written with every cookie.
type Options struct {
	// TTL is the token cookie lifetime; DefaultTTL when zero.
	TTL time.Duration
	// Secure marks cookies transport-secure. Set it when the API is served
	// over https.
	Secure bool
	// Domain is optional; empty means host-only.
	Domain string
	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

type Store struct {
	db     *sql.DB
	repo   metadata.Repository
	opts   Options
	logger logging.Logger
}

func NewStore(db *sql.DB, opts Options, logger logging.Logger) *Store {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		db:     db,
		repo:   metadata.NewSQLiteRepository(db),
		opts:   opts,
		logger: logger,
	}
}

// Persist writes both token cookies in one transaction.
func (s *Store) Persist(ctx context.Context, accessToken, refreshToken string) error {
	access := s.NewCookie(common.AccessTokenCookieName, accessToken, s.opts.TTL)
	refresh := s.NewCookie(common.RefreshTokenCookieName, refreshToken, s.opts.TTL)

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyPrefix+access.Name, []byte(access.String())); err != nil {
			return err
		}
		return repo.Set(ctx, keyPrefix+refresh.Name, []byte(refresh.String()))
	})
}

// ReadAccess returns the stored access token or "".
func (s *Store) ReadAccess(ctx context.Context) string {
	return s.Cookie(ctx, common.AccessTokenCookieName)
}

// ReadRefresh returns the stored refresh token or "".
func (s *Store) ReadRefresh(ctx context.Context) string {
	return s.Cookie(ctx, common.RefreshTokenCookieName)
}

// Clear removes both token cookies. Clearing an empty store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	err := s.repo.DeleteMany(ctx,
		keyPrefix+common.AccessTokenCookieName,
		keyPrefix+common.RefreshTokenCookieName,
	)
	if err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// NewCookie builds a cookie with the store's attributes: Path=/,
// SameSite=Lax, the configured Secure flag and Domain, expiring after ttl.
func (s *Store) NewCookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		Path:     "/",
		Domain:   s.opts.Domain,
		Expires:  s.opts.Now().Add(ttl).UTC(),
		MaxAge:   int(ttl / time.Second),
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetCookie stores c as is. Its Value must already be cookie-safe; use
// NewCookie to build one from a raw value.
func (s *Store) SetCookie(ctx context.Context, c *http.Cookie) error {
	line := c.String()
	if line == "" {
		return fmt.Errorf("invalid cookie %q", c.Name)
	}
	if err := s.repo.Set(ctx, keyPrefix+c.Name, []byte(line)); err != nil {
		return fmt.Errorf("store cookie %s: %w", c.Name, err)
	}
	return nil
}

// Cookie returns the decoded value of a live cookie, or "" when it is
// missing, expired or unreadable.
func (s *Store) Cookie(ctx context.Context, name string) string {
	c := s.load(ctx, name)
	if c == nil {
		return ""
	}
	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		return c.Value
	}
	return v
}

// Cookies returns all live cookies sorted by name.
func (s *Store) Cookies(ctx context.Context) []*http.Cookie {
	rows, err := s.repo.ListPrefix(ctx, keyPrefix)
	if err != nil {
		s.logger.Warn(ctx, "cookie list failed", "error", err)
		return nil
	}

	out := make([]*http.Cookie, 0, len(rows))
	for key, raw := range rows {
		if c := s.parse(ctx, strings.TrimPrefix(key, keyPrefix), raw); c != nil {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Store) load(ctx context.Context, name string) *http.Cookie {
	raw, err := s.repo.Get(ctx, keyPrefix+name)
	if err != nil {
		s.logger.Warn(ctx, "cookie read failed", "cookie", name, "error", err)
		return nil
	}
	if raw == nil {
		return nil
	}
	return s.parse(ctx, name, raw)
}

func (s *Store) parse(ctx context.Context, name string, raw []byte) *http.Cookie {
	c, err := http.ParseSetCookie(string(raw))
	if err != nil {
		s.logger.Warn(ctx, "stored cookie is malformed", "cookie", name, "error", err)
		return nil
	}
	if s.expired(c) {
		s.logger.Debug(ctx, "stored cookie expired", "cookie", name)
		return nil
	}
	return c
}

func (s *Store) expired(c *http.Cookie) bool {
	if c.MaxAge < 0 {
		return true
	}
	return !c.Expires.IsZero() && !s.opts.Now().Before(c.Expires)
}
