package helpers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// SessionCookies writes the token pair as HttpOnly, SameSite=Lax cookies.
type SessionCookies struct {
	Domain string
	Secure bool
}

func NewSessionCookies(domain string, secure bool) *SessionCookies {
	return &SessionCookies{Domain: domain, Secure: secure}
}

func (s *SessionCookies) SetPair(c *gin.Context, access string, aexp time.Time, refresh string, rexp time.Time) {
	s.write(c, AccessCookie, access, secondsUntil(aexp))
	s.write(c, RefreshCookie, refresh, secondsUntil(rexp))
}

// Clear expires both cookies.
func (s *SessionCookies) Clear(c *gin.Context) {
	s.write(c, AccessCookie, "", -1)
	s.write(c, RefreshCookie, "", -1)
}

func (s *SessionCookies) write(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", s.Domain, s.Secure, true)
}

// AccessToken reads the access token from the cookie, falling back to an
// "Authorization: Bearer" header for non-browser clients.
func AccessToken(c *gin.Context) string {
	if tok, err := c.Cookie(AccessCookie); err == nil && tok != "" {
		return tok
	}
	scheme, tok, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(tok)
	}
	return ""
}

func secondsUntil(exp time.Time) int {
	if sec := int(time.Until(exp).Seconds()); sec > 0 {
		return sec
	}
	return 0
}
