package mailer

import (
	"errors"
	"net/mail"
)

var (
	errEmptyJob     = errors.New("email job has no template and no subject/body")
	errBadRecipient = errors.New("email job recipient is not a valid address")
)

// EmailJob is the JSON message carried on the email queue. A job names a
// template and its data, or carries a ready subject with a text or html body.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Validate rejects jobs the worker could never deliver.
func (j EmailJob) Validate() error {
	if _, err := mail.ParseAddress(j.To); err != nil {
		return errBadRecipient
	}
	if j.Template == "" && (j.Subject == "" || (j.Text == "" && j.HTML == "")) {
		return errEmptyJob
	}
	return nil
}
