package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCookies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	jar := NewSessionCookies("example.com", true)
	jar.SetPair(c, "a", time.Now().Add(time.Hour), "r", time.Now().Add(-time.Hour))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, AccessCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.InDelta(t, 3600, cookies[0].MaxAge, 2)
	assert.Equal(t, RefreshCookie, cookies[1].Name)
	assert.Equal(t, 0, cookies[1].MaxAge)
}

func TestAccessToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{"cookie", "c-tok", "", "c-tok"},
		{"cookie wins", "c-tok", "Bearer h-tok", "c-tok"},
		{"bearer", "", "Bearer h-tok", "h-tok"},
		{"bearer case", "", "bearer h-tok", "h-tok"},
		{"basic ignored", "", "Basic abc", ""},
		{"none", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.cookie != "" {
				c.Request.AddCookie(&http.Cookie{Name: AccessCookie, Value: tc.cookie})
			}
			if tc.header != "" {
				c.Request.Header.Set("Authorization", tc.header)
			}
			assert.Equal(t, tc.want, AccessToken(c))
		})
	}
}
