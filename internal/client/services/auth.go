// Package services contains application services for the jobportal client.
// This file defines the authentication service: login, both registrations,
// logout, session restore on start, profile and interface language.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/client/api"
	"github.com/dmitrijs2005/jobportal/internal/client/auth"
	"github.com/dmitrijs2005/jobportal/internal/client/locale"
	"github.com/dmitrijs2005/jobportal/internal/client/models"
	"github.com/dmitrijs2005/jobportal/internal/client/session"
	"github.com/dmitrijs2005/jobportal/internal/client/transport"
	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/dmitrijs2005/jobportal/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login, RegisterCandidate, RegisterCompany: start a session and return the user.
//   - Logout: end the session; local state is cleared even if the server call fails.
//   - Restore: revalidate stored credentials on start; (nil, nil) means anonymous.
//   - Profile: fetch the current user and company.
//   - Session, TokenExpiry: read-only views of the current session.
//   - Language, SetLanguage: the interface locale sent as Accept-Language.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (*models.User, error)
	RegisterCandidate(ctx context.Context, c CandidateSignup) (*models.User, error)
	RegisterCompany(ctx context.Context, c CompanySignup) (*models.User, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (*models.User, error)
	Profile(ctx context.Context) (api.ProfileResponse, error)
	Session() session.Snapshot
	TokenExpiry() (time.Time, bool)
	Language(ctx context.Context) locale.Locale
	SetLanguage(ctx context.Context, code string) (locale.Locale, error)
}

// CandidateSignup is the input of RegisterCandidate.
type CandidateSignup struct {
	FirstName string
	LastName  string
	Email     string
	Password  []byte
}

// CompanySignup is the input of RegisterCompany.
type CompanySignup struct {
	Name     string
	Email    string
	Password []byte
}

// AuthEndpoints is the subset of api.AuthAPI used by the service.
type AuthEndpoints interface {
	Login(ctx context.Context, req api.LoginRequest) (api.AuthResponse, error)
	RegisterCandidate(ctx context.Context, req api.RegisterCandidateRequest) (api.AuthResponse, error)
	RegisterCompany(ctx context.Context, req api.RegisterCompanyRequest) (api.AuthResponse, error)
	Current(ctx context.Context) (api.ProfileResponse, error)
	Me(ctx context.Context) (api.ProfileResponse, error)
	Logout(ctx context.Context) error
}

// SessionReader exposes the session as seen by the request pipeline.
type SessionReader interface {
	Session() session.Snapshot
	AccessToken(ctx context.Context) string
	RefreshToken(ctx context.Context) string
}

type Locales interface {
	Current(ctx context.Context) locale.Locale
	Set(ctx context.Context, l locale.Locale) error
}

type FingerprintReader interface {
	Get(ctx context.Context) string
}

type authService struct {
	endpoints    AuthEndpoints
	keeper       SessionReader
	locales      Locales
	fingerprints FingerprintReader
	logger       logging.Logger
}

// NewAuthService constructs an AuthService over the auth endpoints.
func NewAuthService(endpoints AuthEndpoints, keeper SessionReader, locales Locales, fingerprints FingerprintReader, logger logging.Logger) AuthService {
	return &authService{
		endpoints:    endpoints,
		keeper:       keeper,
		locales:      locales,
		fingerprints: fingerprints,
		logger:       logger,
	}
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", common.ErrorValidation, field)
	}
	return nil
}

func requiredPassword(password []byte) error {
	if len(password) == 0 {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	return nil
}

// Login authenticates with email and password. The password slice is wiped
// before returning.
func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	defer common.WipeByteArray(password)

	if err := required("email", email); err != nil {
		return nil, err
	}
	if err := requiredPassword(password); err != nil {
		return nil, err
	}

	resp, err := a.endpoints.Login(ctx, api.LoginRequest{
		Email:        strings.TrimSpace(email),
		Password:     string(password),
		RememberUser: true,
		Language:     a.locales.Current(ctx).String(),
		Fingerprint:  a.fingerprints.Get(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	a.logger.Info(ctx, "logged in", "user_id", idOf(resp.User), "user_type", string(resp.UserType))
	return resp.User, nil
}

func (a *authService) RegisterCandidate(ctx context.Context, c CandidateSignup) (*models.User, error) {
	defer common.WipeByteArray(c.Password)

	for _, f := range [][2]string{{"first name", c.FirstName}, {"last name", c.LastName}, {"email", c.Email}} {
		if err := required(f[0], f[1]); err != nil {
			return nil, err
		}
	}
	if err := requiredPassword(c.Password); err != nil {
		return nil, err
	}

	resp, err := a.endpoints.RegisterCandidate(ctx, api.RegisterCandidateRequest{
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Email:     strings.TrimSpace(c.Email),
		Password:  string(c.Password),
		Language:  a.locales.Current(ctx).String(),
	})
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}

	a.logger.Info(ctx, "candidate registered", "user_id", idOf(resp.User))
	return resp.User, nil
}

// RegisterCompany creates a company account whose default and admin locale
// follow the current interface language.
func (a *authService) RegisterCompany(ctx context.Context, c CompanySignup) (*models.User, error) {
	defer common.WipeByteArray(c.Password)

	if err := required("company name", c.Name); err != nil {
		return nil, err
	}
	if err := required("email", c.Email); err != nil {
		return nil, err
	}
	if err := requiredPassword(c.Password); err != nil {
		return nil, err
	}

	code := a.locales.Current(ctx).CompanyCode()
	resp, err := a.endpoints.RegisterCompany(ctx, api.RegisterCompanyRequest{
		Name:          strings.TrimSpace(c.Name),
		Email:         strings.TrimSpace(c.Email),
		Password:      string(c.Password),
		DefaultLocale: code,
		AdminLanguage: code,
		Fingerprint:   a.fingerprints.Get(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}

	a.logger.Info(ctx, "company registered", "user_id", idOf(resp.User))
	return resp.User, nil
}

// Logout ends the session. An already expired session is not an error.
func (a *authService) Logout(ctx context.Context) error {
	err := a.endpoints.Logout(ctx)
	if err != nil && !errors.Is(err, transport.ErrUnauthorized) {
		return fmt.Errorf("logout error: %w", err)
	}
	a.logger.Info(ctx, "logged out")
	return nil
}

// Restore checks the credentials left by a previous run. Without stored
// tokens it does not call the server.
func (a *authService) Restore(ctx context.Context) (*models.User, error) {
	if a.keeper.AccessToken(ctx) == "" && a.keeper.RefreshToken(ctx) == "" {
		return nil, nil
	}

	resp, err := a.endpoints.Current(ctx)
	if err != nil {
		if errors.Is(err, transport.ErrUnauthorized) {
			a.logger.Info(ctx, "stored session expired")
			return nil, nil
		}
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return resp.User, nil
}

func (a *authService) Profile(ctx context.Context) (api.ProfileResponse, error) {
	if a.keeper.AccessToken(ctx) == "" && a.keeper.RefreshToken(ctx) == "" {
		return api.ProfileResponse{}, common.ErrorNotAuthenticated
	}
	resp, err := a.endpoints.Me(ctx)
	if err != nil {
		return api.ProfileResponse{}, fmt.Errorf("profile error: %w", err)
	}
	return resp, nil
}

func (a *authService) Session() session.Snapshot {
	return a.keeper.Session()
}

// TokenExpiry reports when the current access token expires, if it carries
// an expiry claim.
func (a *authService) TokenExpiry() (time.Time, bool) {
	return auth.TokenExpiry(a.keeper.Session().AccessToken)
}

func (a *authService) Language(ctx context.Context) locale.Locale {
	return a.locales.Current(ctx)
}

// SetLanguage switches the interface language. Unknown codes are rejected.
func (a *authService) SetLanguage(ctx context.Context, code string) (locale.Locale, error) {
	l, ok := locale.Parse(code)
	if !ok {
		return a.locales.Current(ctx), fmt.Errorf("%w: unsupported language %q", common.ErrorValidation, code)
	}
	if err := a.locales.Set(ctx, l); err != nil {
		return a.locales.Current(ctx), fmt.Errorf("set language: %w", err)
	}
	return l, nil
}

func idOf(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
