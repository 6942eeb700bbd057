package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-microblog/config"
	mailtpl "github.com/oksasatya/go-microblog/pkg/mailer/templates"
)

type fakeSender struct {
	err  error
	sent []string
	last struct{ to, subject, text, html string }
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	f.last.to, f.last.subject, f.last.text, f.last.html = to, subject, text, html
	return nil
}

type fixedGeo struct{ g mailtpl.Geo }

func (f fixedGeo) Lookup(context.Context, string) (mailtpl.Geo, error) { return f.g, nil }

func resetJob(t *testing.T) []byte {
	t.Helper()
	cfg := &config.Config{MailSubjectPrefix: "[Microblog]", CompanyName: "Microblog"}
	data := mailtpl.NewResetPasswordData(cfg, "susan", "susan@example.com", "http://x/reset?token=t",
		mailtpl.WithTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		mailtpl.WithIP("203.0.113.1"))
	b, err := json.Marshal(EmailJob{To: "susan@example.com", Template: mailtpl.ResetPassword, Data: data})
	require.NoError(t, err)
	return b
}

func TestWorkerHandleRendersTemplate(t *testing.T) {
	s := &fakeSender{}
	w := &Worker{Sender: s, Resolver: fixedGeo{mailtpl.Geo{City: "Jakarta", Country: "Indonesia", Timezone: "Asia/Jakarta"}}}

	assert.Equal(t, Ack, w.Handle(context.Background(), resetJob(t)))
	require.Len(t, s.sent, 1)
	assert.Equal(t, "[Microblog] Reset Your Password", s.last.subject)
	assert.Contains(t, s.last.text, "Jakarta, Indonesia")
	assert.Contains(t, s.last.text, "http://x/reset?token=t")
}

func TestWorkerHandleRawMessage(t *testing.T) {
	s := &fakeSender{}
	w := &Worker{Sender: s}
	body, _ := json.Marshal(EmailJob{To: "a@example.com", Subject: "hi", Text: "hello"})

	assert.Equal(t, Ack, w.Handle(context.Background(), body))
	assert.Equal(t, "hi", s.last.subject)
}

func TestWorkerHandleFailures(t *testing.T) {
	w := &Worker{Sender: &fakeSender{}}
	assert.Equal(t, Drop, w.Handle(context.Background(), []byte("{not json")))

	empty, _ := json.Marshal(EmailJob{To: "a@example.com"})
	assert.Equal(t, Drop, w.Handle(context.Background(), empty))

	unknown, _ := json.Marshal(EmailJob{To: "a@example.com", Template: "missing"})
	assert.Equal(t, Drop, w.Handle(context.Background(), unknown))

	failing := &Worker{Sender: &fakeSender{err: errors.New("mailgun down")}}
	assert.Equal(t, Requeue, failing.Handle(context.Background(), resetJob(t)))
}

func TestEnsureRecipient(t *testing.T) {
	job := &EmailJob{To: "x@example.com"}
	EnsureRecipient(job)
	assert.Equal(t, "x@example.com", job.Data["Email"])
	assert.Equal(t, "x@example.com", job.Data["RecipientEmail"])
}

func TestEmailJobValidate(t *testing.T) {
	cases := []struct {
		name string
		job  EmailJob
		ok   bool
	}{
		{"template", EmailJob{To: "a@example.com", Template: "reset_password"}, true},
		{"raw html", EmailJob{To: "a@example.com", Subject: "s", HTML: "<p>x</p>"}, true},
		{"no body", EmailJob{To: "a@example.com", Subject: "s"}, false},
		{"bad recipient", EmailJob{To: "nobody", Template: "reset_password"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.job.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
