package transport

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/jobportal/internal/client/auth"
	"github.com/dmitrijs2005/jobportal/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Refresher exchanges a refresh token for a new grant.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (auth.Grant, error)
}

// Keeper is the part of the auth keeper Reauth needs.
type Keeper interface {
	AccessToken(ctx context.Context) string
	RefreshToken(ctx context.Context) string
	ApplyRefresh(ctx context.Context, g auth.Grant)
	Clear(ctx context.Context)
}

var errIncompleteGrant = errors.New("refresh response without tokens")

// Reauth retries a call once after refreshing an expired access token.
//
// Per logical call it performs at most one refresh and one retry. A 401 with
// no refresh token available, or a failed refresh, clears the credentials and
// returns the original 401. Concurrent 401s carrying the same refresh token
// share one refresh call.
type Reauth struct {
	next      Doer
	refresher Refresher
	keeper    Keeper
	logger    logging.Logger
	group     singleflight.Group
}

func NewReauth(next Doer, refresher Refresher, keeper Keeper, logger logging.Logger) *Reauth {
	return &Reauth{next: next, refresher: refresher, keeper: keeper, logger: logger}
}

func (r *Reauth) Do(ctx context.Context, req *Request) (*Response, error) {
	usedToken := r.keeper.AccessToken(ctx)

	resp, err := r.next.Do(ctx, req)
	if req.Public || StatusOf(err) != http.StatusUnauthorized {
		return resp, err
	}

	refreshToken := r.keeper.RefreshToken(ctx)

	// Someone else refreshed while this call was in flight.
	if current := r.keeper.AccessToken(ctx); current != "" && current != usedToken {
		return r.next.Do(ctx, req)
	}

	if refreshToken == "" {
		r.logger.Info(ctx, "unauthorized without refresh token", "method", req.Method, "path", req.Path)
		r.keeper.Clear(ctx)
		return resp, err
	}

	if rerr := r.refresh(ctx, refreshToken); rerr != nil {
		r.logger.Warn(ctx, "token refresh failed", "method", req.Method, "path", req.Path, "error", rerr)
		r.keeper.Clear(ctx)
		return resp, err
	}

	return r.next.Do(ctx, req)
}

func (r *Reauth) refresh(ctx context.Context, refreshToken string) error {
	// The shared call must not die with the caller that happened to start it.
	sharedCtx := context.WithoutCancel(ctx)

	_, err, shared := r.group.Do(refreshToken, func() (any, error) {
		// Already rotated by a refresh that finished before this one started.
		if r.keeper.RefreshToken(sharedCtx) != refreshToken {
			return nil, nil
		}
		g, err := r.refresher.Refresh(sharedCtx, refreshToken)
		if err != nil {
			return nil, err
		}
		if g.AccessToken == "" || g.RefreshToken == "" {
			return nil, errIncompleteGrant
		}
		r.keeper.ApplyRefresh(sharedCtx, g)
		return nil, nil
	})
	if shared {
		r.logger.Debug(ctx, "joined in-flight token refresh")
	}
	return err
}
