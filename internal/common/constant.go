// Package common contains shared constants and sentinel errors used across
// storypoint components.
package common

// SessionCookieName is the name of the cookie that carries the signed
// session token between the browser and the API.
const SessionCookieName = "jwt"

// CookieHeaderName is the header (or gRPC metadata key) the session cookie
// arrives in. Lookups must be case-insensitive.
const CookieHeaderName = "cookie"
