// Package email sends candidate-facing notifications. Delivery failures are
// logged and swallowed: a dropped email must never fail an application or an
// interview finalization.
package email

import "context"

// Notifier delivers lifecycle notifications to candidates.
type Notifier interface {
	SendApplicationConfirmation(ctx context.Context, to, candidateName, jobTitle string) error
	SendInterviewCompletion(ctx context.Context, to, candidateName, jobTitle string) error
}

// NoopNotifier discards all notifications. Used when SMTP is not configured.
type NoopNotifier struct{}

// SendApplicationConfirmation does nothing.
func (NoopNotifier) SendApplicationConfirmation(ctx context.Context, to, candidateName, jobTitle string) error {
	return nil
}

// SendInterviewCompletion does nothing.
func (NoopNotifier) SendInterviewCompletion(ctx context.Context, to, candidateName, jobTitle string) error {
	return nil
}

var _ Notifier = NoopNotifier{}
