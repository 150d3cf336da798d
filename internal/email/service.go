package email

import (
	"context"
)

// Service sends portal mail. The only sender today is the public contact
// form, which forwards enquiries to the association office.
type Service interface {
	SendContactEnquiry(ctx context.Context, fromName, fromEmail, subject, body string) error
}
