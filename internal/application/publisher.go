package application

import "context"

// Publisher enqueues a JSON job; helpers.RabbitPublisher satisfies it.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// RequestMeta carries request details used to enrich outgoing mail.
type RequestMeta struct {
	IP        string
	UserAgent string
}
