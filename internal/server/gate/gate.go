// Package gate decides whether a request may reach a protected operation.
//
// Each request runs RECEIVE -> EXTRACT_TOKEN -> VALIDATE -> ALLOW|DENY with
// no state carried between requests. A denial is opaque: callers see only
// that access was refused, while the cause is logged here.
package gate

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/storypoint/internal/common"
	"github.com/dmitrijs2005/storypoint/internal/logging"
	"github.com/dmitrijs2005/storypoint/internal/server/models"
)

// Verifier turns a session token into the identity it carries.
type Verifier interface {
	Verify(ctx context.Context, token string) (models.Identity, error)
}

// Decision is the outcome of one authorization. Principal and Identity are
// set only when Allow is true.
type Decision struct {
	Allow     bool
	Principal string
	Identity  models.Identity
}

var deny = Decision{}

type Gate struct {
	verifier Verifier
	logger   logging.Logger
}

func New(verifier Verifier, logger logging.Logger) *Gate {
	return &Gate{verifier: verifier, logger: logger.With("module", "gate")}
}

// Authorize evaluates the request headers. Header names are matched without
// regard to case.
func (g *Gate) Authorize(ctx context.Context, headers map[string]string) Decision {
	token := extractToken(headers)
	if token == "" {
		g.logger.Warn(ctx, "no session cookie provided")
		return deny
	}

	id, err := g.verifier.Verify(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrTokenExpired):
			g.logger.Warn(ctx, "session token expired")
		case errors.Is(err, common.ErrInvalidToken):
			g.logger.Warn(ctx, "session token invalid", "error", err)
		default:
			g.logger.Error(ctx, "authorization error", "error", err)
		}
		return deny
	}

	return Decision{Allow: true, Principal: id.UserName, Identity: id}
}

// extractToken finds the session cookie in a header named "cookie" in any
// letter case. Malformed cookie pairs are skipped.
func extractToken(headers map[string]string) string {
	for name, value := range headers {
		if !strings.EqualFold(name, common.CookieHeaderName) {
			continue
		}
		if token := CookieValue(value, common.SessionCookieName); token != "" {
			return token
		}
	}
	return ""
}

// CookieValue returns the value of cookie name in a Cookie header, or "".
func CookieValue(header, name string) string {
	r := http.Request{Header: http.Header{"Cookie": {header}}}
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// HeadersFromHTTP flattens an http.Header for Authorize, joining repeated
// Cookie lines the way a single header would carry them.
func HeadersFromHTTP(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = strings.Join(v, "; ")
	}
	return out
}
