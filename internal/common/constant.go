// Package common contains shared constants and sentinel errors used across
// jobportal client components.
package common

// Outbound header names attached by the request pipeline.
const (
	AuthorizationHeaderName  = "Authorization"
	AcceptLanguageHeaderName = "Accept-Language"
	FingerprintHeaderName    = "X-Client-Fingerprint"
	RequestIDHeaderName      = "X-Request-ID"
	ContentTypeHeaderName    = "Content-Type"
)

// Cookie and storage keys shared with the web client, so a profile copied
// between the two keeps working.
const (
	AccessTokenCookieName  = "dc_accessToken"
	RefreshTokenCookieName = "dc_refreshToken"
	LocaleCookieName       = "dc_locale"
	LegacyLocaleCookieName = "NEXT_LOCALE"
	FingerprintStorageKey  = "dc_fingerprint"
)

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "
