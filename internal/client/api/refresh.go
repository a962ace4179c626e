package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/jobportal/internal/client/auth"
	"github.com/dmitrijs2005/jobportal/internal/client/models"
	"github.com/dmitrijs2005/jobportal/internal/client/transport"
)

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken     string       `json:"accessToken"`
	RefreshToken    string       `json:"refreshToken"`
	FingerprintHash string       `json:"fingerprintHash,omitempty"`
	User            *models.User `json:"user,omitempty"`
}

// Refresher calls POST /auth/refresh. It must be given the base transport,
// not the re-authenticating one.
type Refresher struct {
	doer    transport.Doer
	refresh Endpoint[refreshRequest, refreshResponse]
}

func NewRefresher(doer transport.Doer) *Refresher {
	return &Refresher{
		doer: doer,
		refresh: Endpoint[refreshRequest, refreshResponse]{
			Build: func(r refreshRequest) *transport.Request {
				return &transport.Request{Method: http.MethodPost, Path: "/auth/refresh", Body: r}
			},
		},
	}
}

func (r *Refresher) Refresh(ctx context.Context, refreshToken string) (auth.Grant, error) {
	resp, err := r.refresh.Call(ctx, r.doer, refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return auth.Grant{}, err
	}
	return auth.Grant{
		AccessToken:     resp.AccessToken,
		RefreshToken:    resp.RefreshToken,
		FingerprintHash: resp.FingerprintHash,
		User:            resp.User,
	}, nil
}
