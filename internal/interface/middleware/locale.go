package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const CtxLocaleKey = "locale"

// Locale negotiates the response language from Accept-Language.
// The first supported tag is the fallback.
func Locale(supported []string) gin.HandlerFunc {
	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		if t, err := language.Parse(s); err == nil {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		tags = append(tags, language.English)
	}
	matcher := language.NewMatcher(tags)

	return func(c *gin.Context) {
		accept := c.GetHeader("Accept-Language")
		wanted, _, _ := language.ParseAcceptLanguage(accept)
		_, idx, conf := matcher.Match(wanted...)
		tag := tags[0]
		if conf != language.No {
			tag = tags[idx]
		}
		base, _ := tag.Base()
		c.Set(CtxLocaleKey, base.String())
		c.Header("Content-Language", base.String())
		c.Next()
	}
}

// LocaleFrom returns the negotiated locale, or "en".
func LocaleFrom(c *gin.Context) string {
	if l := c.GetString(CtxLocaleKey); l != "" {
		return l
	}
	return "en"
}
