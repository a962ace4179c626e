// Package auth applies authentication outcomes to the client state.
//
// Keeper is the only writer of the session. Every change goes to the session,
// the durable credential store and the fingerprint cache together, so the
// three never diverge.
package auth

import (
	"context"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/client/models"
	"github.com/dmitrijs2005/jobportal/internal/client/session"
	"github.com/dmitrijs2005/jobportal/internal/logging"
)

// TokenStore is the durable copy of the tokens.
type TokenStore interface {
	Persist(ctx context.Context, accessToken, refreshToken string) error
	ReadAccess(ctx context.Context) string
	ReadRefresh(ctx context.Context) string
	Clear(ctx context.Context) error
}

// Fingerprints is the device fingerprint cache.
type Fingerprints interface {
	GetOrSet(ctx context.Context, serverValue string) string
}

// Grant is a set of credentials issued by the backend on login, register or
// refresh. Empty fields mean the response did not carry them.
type Grant struct {
	AccessToken     string
	RefreshToken    string
	FingerprintHash string
	User            *models.User
}

type Keeper struct {
	session      *session.State
	store        TokenStore
	fingerprints Fingerprints
	logger       logging.Logger
}

func NewKeeper(state *session.State, store TokenStore, fingerprints Fingerprints, logger logging.Logger) *Keeper {
	return &Keeper{
		session:      state,
		store:        store,
		fingerprints: fingerprints,
		logger:       logger,
	}
}

// Session returns the current session snapshot.
func (k *Keeper) Session() session.Snapshot {
	return k.session.Snapshot()
}

// AccessToken returns the session token, falling back to the store.
func (k *Keeper) AccessToken(ctx context.Context) string {
	if t := k.session.Snapshot().AccessToken; t != "" {
		return t
	}
	return k.store.ReadAccess(ctx)
}

// RefreshToken returns the session refresh token, falling back to the store.
func (k *Keeper) RefreshToken(ctx context.Context) string {
	if t := k.session.Snapshot().RefreshToken; t != "" {
		return t
	}
	return k.store.ReadRefresh(ctx)
}

// Fingerprint returns the fingerprint held by the session, if any.
func (k *Keeper) Fingerprint(ctx context.Context) string {
	return k.session.Snapshot().FingerprintHash
}

// ApplyAuth records a login or registration. The session takes the grant as
// is, including an empty fingerprint.
func (k *Keeper) ApplyAuth(ctx context.Context, g Grant) {
	if g.FingerprintHash != "" {
		k.fingerprints.GetOrSet(ctx, g.FingerprintHash)
	}
	k.persist(ctx, g.AccessToken, g.RefreshToken)

	k.session.SetCredentials(session.Snapshot{
		AccessToken:     g.AccessToken,
		RefreshToken:    g.RefreshToken,
		FingerprintHash: g.FingerprintHash,
		User:            g.User,
	})
	k.logger.Info(ctx, "session started", "user_id", userID(g.User))
}

// ApplyRefresh records rotated tokens. Fingerprint and user are kept from the
// current session when the refresh response omits them.
func (k *Keeper) ApplyRefresh(ctx context.Context, g Grant) {
	prev := k.session.Snapshot()

	fp := g.FingerprintHash
	if fp != "" {
		k.fingerprints.GetOrSet(ctx, fp)
	} else {
		fp = prev.FingerprintHash
	}
	user := g.User
	if user == nil {
		user = prev.User
	}

	k.persist(ctx, g.AccessToken, g.RefreshToken)
	k.session.SetCredentials(session.Snapshot{
		AccessToken:     g.AccessToken,
		RefreshToken:    g.RefreshToken,
		FingerprintHash: fp,
		User:            user,
	})
	args := []any{"user_id", userID(user)}
	if exp, ok := TokenExpiry(g.AccessToken); ok {
		args = append(args, "expires_at", exp.UTC().Format(time.RFC3339))
	}
	k.logger.Info(ctx, "tokens refreshed", args...)
}

// ApplyUser records the user returned by a current-user lookup. Tokens and
// fingerprint are passed through; when the session has none they are
// rehydrated from the store and the fingerprint cache.
func (k *Keeper) ApplyUser(ctx context.Context, user *models.User) {
	prev := k.session.Snapshot()

	access := prev.AccessToken
	refresh := prev.RefreshToken
	if access == "" {
		access = k.store.ReadAccess(ctx)
	}
	if refresh == "" {
		refresh = k.store.ReadRefresh(ctx)
	}

	fp := prev.FingerprintHash
	if fp == "" {
		fp = k.fingerprints.GetOrSet(ctx, "")
	}

	k.session.SetCredentials(session.Snapshot{
		AccessToken:     access,
		RefreshToken:    refresh,
		FingerprintHash: fp,
		User:            user,
	})
}

// Clear wipes the durable credentials and the session. Storage errors are
// logged; the session is cleared regardless.
func (k *Keeper) Clear(ctx context.Context) {
	if err := k.store.Clear(ctx); err != nil {
		k.logger.Warn(ctx, "credential store clear failed", "error", err)
	}
	k.session.Clear()
	k.logger.Info(ctx, "session cleared")
}

func (k *Keeper) persist(ctx context.Context, access, refresh string) {
	if err := k.store.Persist(ctx, access, refresh); err != nil {
		k.logger.Warn(ctx, "credential store write failed", "error", err)
	}
}

func userID(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
