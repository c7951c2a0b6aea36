package service

import "context"

// Mailer delivers transactional email.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, name, link string) error
}
