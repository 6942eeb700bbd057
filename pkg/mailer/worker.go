package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	mailtpl "github.com/oksasatya/go-microblog/pkg/mailer/templates"
)

// Outcome tells the consumer how to settle a delivery.
type Outcome int

const (
	Ack Outcome = iota
	Requeue
	Drop
)

// Worker renders queued jobs and hands them to a Sender.
type Worker struct {
	Sender   Sender
	Resolver mailtpl.GeoResolver
	Logger   *logrus.Logger
	Timeout  time.Duration
}

// Handle processes one raw queue message. Malformed or unrenderable jobs are
// dropped; delivery failures are requeued.
func (w *Worker) Handle(ctx context.Context, body []byte) Outcome {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.log().WithError(err).Warn("bad email job")
		return Drop
	}
	if err := job.Validate(); err != nil {
		w.log().WithError(err).WithField("to", job.To).Warn("rejected email job")
		return Drop
	}

	subject, text, html, err := w.Prepare(ctx, &job)
	if err != nil {
		w.log().WithError(err).WithField("template", job.Template).Warn("render email failed")
		return Drop
	}

	timeout := w.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		w.log().WithError(err).WithField("to", job.To).Error("send email failed")
		return Requeue
	}
	w.log().WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return Ack
}

// Prepare fills recipient fields, localizes times and renders the job.
func (w *Worker) Prepare(ctx context.Context, job *EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		if err := job.Validate(); err != nil {
			return "", "", "", err
		}
		return job.Subject, job.Text, job.HTML, nil
	}

	EnsureRecipient(job)
	if w.Resolver != nil {
		if strField(job.Data, "Location") == "" {
			if ip := strField(job.Data, "IP"); ip != "" {
				if g, gErr := w.Resolver.Lookup(ctx, ip); gErr == nil {
					job.Data["Location"] = mailtpl.FormatGeo(g)
					LocalizeTimes(g.Timezone, job.Data)
				}
			}
		}
	}
	return mailtpl.Render(strings.ToLower(job.Template), job.Data)
}

func (w *Worker) log() *logrus.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return logrus.StandardLogger()
}

// EnsureRecipient defaults the Email and RecipientEmail template fields to job.To.
func EnsureRecipient(job *EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	for _, k := range []string{"Email", "RecipientEmail"} {
		if strField(job.Data, k) == "" {
			job.Data[k] = job.To
		}
	}
}

func strField(data map[string]any, key string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// LocalizeTimes rewrites the human-readable time fields into tz.
func LocalizeTimes(tz string, data map[string]any) {
	if strings.TrimSpace(tz) == "" {
		return
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return
	}
	if t, ok := parseTimeAny(data["ExpiresAt"]); ok {
		data["ExpiresAtText"] = t.In(loc).Format("02 January 2006, 15:04 MST")
	}
	if t, ok := parseTimeAny(data["TimeAt"]); ok {
		data["Time"] = t.In(loc).Format("02 January 2006, 15:04 MST")
	}
}

func parseTimeAny(v any) (time.Time, bool) {
	if v == nil {
		return time.Time{}, false
	}
	s := fmt.Sprintf("%v", v)
	for _, l := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05 -0700 MST"} {
		if t, err := time.Parse(l, s); err == nil && !t.IsZero() {
			return t, true
		}
	}
	return time.Time{}, false
}
