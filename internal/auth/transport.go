package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/dom/news-api/internal/config"
)

const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"
)

// Transport moves tokens between requests, responses and cookies.
// Set and Clear share one attribute set so browsers match the cookies on clear.
type Transport struct {
	secure   bool
	sameSite http.SameSite
	path     string
	ttls     map[TokenKind]time.Duration
}

func NewTransport(cfg *config.Config) *Transport {
	return &Transport{
		secure:   cfg.CookieSecure(),
		sameSite: cfg.CookieSameSite(),
		path:     "/",
		ttls: map[TokenKind]time.Duration{
			AccessToken:  cfg.AccessTokenTTL,
			RefreshToken: cfg.RefreshTokenTTL,
		},
	}
}

func cookieName(kind TokenKind) string {
	if kind == RefreshToken {
		return RefreshCookieName
	}
	return AccessCookieName
}

// Extract looks for a bearer token first, then for the kind's cookie.
func (t *Transport) Extract(r *http.Request, kind TokenKind) (string, bool) {
	if kind == AccessToken {
		if token, ok := bearerToken(r); ok {
			return token, true
		}
	}

	cookie, err := r.Cookie(cookieName(kind))
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// Attach sets the kind's cookie with maxAge equal to the token TTL.
func (t *Transport) Attach(w http.ResponseWriter, kind TokenKind, token string) {
	cookie := t.cookie(kind)
	cookie.Value = token
	cookie.MaxAge = int(t.ttls[kind].Seconds())
	cookie.Expires = time.Now().Add(t.ttls[kind])
	http.SetCookie(w, cookie)
}

// Clear expires both token cookies.
func (t *Transport) Clear(w http.ResponseWriter) {
	for _, kind := range []TokenKind{AccessToken, RefreshToken} {
		cookie := t.cookie(kind)
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
		http.SetCookie(w, cookie)
	}
}

func (t *Transport) cookie(kind TokenKind) *http.Cookie {
	return &http.Cookie{
		Name:     cookieName(kind),
		Path:     t.path,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: t.sameSite,
	}
}
