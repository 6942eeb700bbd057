package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-microblog/internal/application"
	"github.com/oksasatya/go-microblog/internal/domain/entity"
)

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func requestMeta(c *gin.Context) application.RequestMeta {
	return application.RequestMeta{IP: clientIP(c), UserAgent: c.GetHeader("User-Agent")}
}

// pageQuery reads ?page= and ?per_page=; bad values fall through to service defaults.
func pageQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.Query("per_page"))
	return page, size
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func publicUser(u *entity.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"username":  u.Username,
		"about_me":  u.AboutMe,
		"avatar":    u.Avatar(128),
		"last_seen": formatTime(u.LastSeen),
	}
}

func privateUser(u *entity.User) gin.H {
	v := publicUser(u)
	v["email"] = u.Email
	v["created_at"] = formatTime(u.CreatedAt)
	v["updated_at"] = formatTime(u.UpdatedAt)
	return v
}

func postView(p *entity.Post) gin.H {
	v := gin.H{
		"id":        p.ID,
		"body":      p.Body,
		"timestamp": formatTime(p.Timestamp),
		"language":  p.Language,
		"user_id":   p.UserID,
	}
	if p.Author != nil {
		v["author"] = gin.H{
			"username": p.Author.Username,
			"avatar":   p.Author.Avatar(36),
		}
	}
	return v
}

func postPage(p application.Page[*entity.Post]) application.Page[gin.H] {
	items := make([]gin.H, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, postView(it))
	}
	return application.Page[gin.H]{
		Items:    items,
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    p.Total,
		HasNext:  p.HasNext,
		HasPrev:  p.HasPrev,
		NextPage: p.NextPage,
		PrevPage: p.PrevPage,
	}
}
