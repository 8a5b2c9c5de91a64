package gate

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/storypoint/internal/common"
)

// CookiePolicy controls the attributes of the session cookie.
type CookiePolicy struct {
	TTL      time.Duration
	Domain   string
	SameSite http.SameSite
}

// ParseSameSite accepts None, Lax or Strict in any case.
func ParseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return http.SameSiteNoneMode, nil
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	}
	return 0, fmt.Errorf("unknown SameSite mode %q", s)
}

// Cookie builds the session cookie carrying token. Max-Age equals the token
// lifetime so the browser drops the cookie when the token expires.
func (p CookiePolicy) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   p.Domain,
		MaxAge:   int(p.TTL / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: p.SameSite,
	}
}
