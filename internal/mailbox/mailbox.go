// Package mailbox abstracts the mail providers resumes arrive
// through. Both providers expose the same two operations: list unread
// messages with their attachments, and mark one message as read.
package mailbox

import (
	"context"
	"time"
)

type Attachment struct {
	// ID identifies the attachment within its message; stable across
	// fetches so ingestion stays idempotent.
	ID       string
	Filename string
	Content  []byte
}

type Message struct {
	// ID is the provider's stable message identifier (IMAP UID or
	// Graph message id).
	ID          string
	Subject     string
	Sender      string
	ReceivedAt  time.Time
	Attachments []Attachment
}

type Mailbox interface {
	// FetchUnread returns unread messages, newest last, capped by the
	// provider's configured message limit.
	FetchUnread(ctx context.Context) ([]Message, error)
	// MarkRead flags a message as seen so the next cycle skips it.
	MarkRead(ctx context.Context, messageID string) error
}
