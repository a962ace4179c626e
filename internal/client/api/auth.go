package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/jobportal/internal/client/auth"
	"github.com/dmitrijs2005/jobportal/internal/client/models"
	"github.com/dmitrijs2005/jobportal/internal/client/transport"
)

type LoginRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	RememberUser bool   `json:"rememberUser"`
	Language     string `json:"language,omitempty"`
	CompanyID    string `json:"companyId,omitempty"`
	Fingerprint  string `json:"fingerprint,omitempty"`
}

type RegisterCandidateRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Language  string `json:"language,omitempty"`
}

type RegisterCompanyRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	DefaultLocale string `json:"defaultLocale,omitempty"`
	AdminLanguage string `json:"adminLanguage,omitempty"`
	Fingerprint   string `json:"fingerprint,omitempty"`
}

// AuthResponse is returned by login and both registrations. UserType is only
// sent by login; Company is sent for company accounts.
type AuthResponse struct {
	AccessToken     string          `json:"accessToken"`
	RefreshToken    string          `json:"refreshToken"`
	FingerprintHash string          `json:"fingerprintHash"`
	UserType        models.UserType `json:"userType,omitempty"`
	User            *models.User    `json:"user"`
	Company         *models.Company `json:"company,omitempty"`
}

// Grant returns the credentials carried by the response.
func (r AuthResponse) Grant() auth.Grant {
	return auth.Grant{
		AccessToken:     r.AccessToken,
		RefreshToken:    r.RefreshToken,
		FingerprintHash: r.FingerprintHash,
		User:            r.User,
	}
}

// ProfileResponse is returned by /auth/current and /auth/me.
type ProfileResponse struct {
	User    *models.User    `json:"user"`
	Company *models.Company `json:"company,omitempty"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// SessionKeeper applies auth outcomes to the client state.
type SessionKeeper interface {
	RefreshToken(ctx context.Context) string
	ApplyAuth(ctx context.Context, g auth.Grant)
	ApplyUser(ctx context.Context, user *models.User)
	Clear(ctx context.Context)
}

var (
	errMissingTokens = errors.New("response without tokens")
	errMissingUser   = errors.New("response without user")
)

type AuthAPI struct {
	doer   transport.Doer
	keeper SessionKeeper

	login             Endpoint[LoginRequest, AuthResponse]
	registerCandidate Endpoint[RegisterCandidateRequest, AuthResponse]
	registerCompany   Endpoint[RegisterCompanyRequest, AuthResponse]
	current           Endpoint[struct{}, ProfileResponse]
	me                Endpoint[struct{}, ProfileResponse]
	logout            Endpoint[logoutRequest, struct{}]
}

func NewAuthAPI(doer transport.Doer, keeper SessionKeeper) *AuthAPI {
	a := &AuthAPI{doer: doer, keeper: keeper}

	decodeAuth := validated(decodeEnvelope[AuthResponse], func(r AuthResponse) error {
		if r.AccessToken == "" || r.RefreshToken == "" {
			return errMissingTokens
		}
		return nil
	})
	decodeProfile := validated(decodeEnvelope[ProfileResponse], func(r ProfileResponse) error {
		if r.User == nil {
			return errMissingUser
		}
		return nil
	})
	applyAuth := func(ctx context.Context, r AuthResponse) { keeper.ApplyAuth(ctx, r.Grant()) }
	applyUser := func(ctx context.Context, _ struct{}, r ProfileResponse) { keeper.ApplyUser(ctx, r.User) }

	a.login = Endpoint[LoginRequest, AuthResponse]{
		Build: func(r LoginRequest) *transport.Request {
			return &transport.Request{Method: http.MethodPost, Path: "/auth/login", Body: r}
		},
		Decode: decodeAuth,
		After:  func(ctx context.Context, _ LoginRequest, r AuthResponse) { applyAuth(ctx, r) },
	}

	a.registerCandidate = Endpoint[RegisterCandidateRequest, AuthResponse]{
		Build: func(r RegisterCandidateRequest) *transport.Request {
			return &transport.Request{Method: http.MethodPost, Path: "/auth/register/candidate", Body: r}
		},
		Decode: decodeAuth,
		After:  func(ctx context.Context, _ RegisterCandidateRequest, r AuthResponse) { applyAuth(ctx, r) },
	}

	a.registerCompany = Endpoint[RegisterCompanyRequest, AuthResponse]{
		Build: func(r RegisterCompanyRequest) *transport.Request {
			return &transport.Request{Method: http.MethodPost, Path: "/auth/register/company", Body: r}
		},
		Decode: decodeAuth,
		After:  func(ctx context.Context, _ RegisterCompanyRequest, r AuthResponse) { applyAuth(ctx, r) },
	}

	a.current = Endpoint[struct{}, ProfileResponse]{
		Build: func(struct{}) *transport.Request {
			return &transport.Request{Method: http.MethodGet, Path: "/auth/current"}
		},
		Decode: decodeProfile,
		After:  applyUser,
	}

	a.me = Endpoint[struct{}, ProfileResponse]{
		Build: func(struct{}) *transport.Request {
			return &transport.Request{Method: http.MethodGet, Path: "/auth/me"}
		},
		Decode: decodeProfile,
		After:  applyUser,
	}

	a.logout = Endpoint[logoutRequest, struct{}]{
		Build: func(r logoutRequest) *transport.Request {
			return &transport.Request{Method: http.MethodPatch, Path: "/auth/logout", Body: r}
		},
		Decode:  decodeAck,
		Finally: keeper.Clear,
	}

	return a
}

// Login authenticates and starts a session.
func (a *AuthAPI) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	return a.login.Call(ctx, a.doer, req)
}

func (a *AuthAPI) RegisterCandidate(ctx context.Context, req RegisterCandidateRequest) (AuthResponse, error) {
	return a.registerCandidate.Call(ctx, a.doer, req)
}

func (a *AuthAPI) RegisterCompany(ctx context.Context, req RegisterCompanyRequest) (AuthResponse, error) {
	return a.registerCompany.Call(ctx, a.doer, req)
}

// Current fetches the authenticated user and updates the session.
func (a *AuthAPI) Current(ctx context.Context) (ProfileResponse, error) {
	return a.current.Call(ctx, a.doer, struct{}{})
}

// Me fetches the profile, including company details for company users.
func (a *AuthAPI) Me(ctx context.Context) (ProfileResponse, error) {
	return a.me.Call(ctx, a.doer, struct{}{})
}

// Logout ends the session on the backend. Local credentials are cleared
// whatever the outcome.
func (a *AuthAPI) Logout(ctx context.Context) error {
	_, err := a.logout.Call(ctx, a.doer, logoutRequest{RefreshToken: a.keeper.RefreshToken(ctx)})
	return err
}
