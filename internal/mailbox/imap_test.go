package mailbox

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"hiring-agent/internal/config"
)

func TestSessionDeadlineDefault(t *testing.T) {
	got := sessionDeadline(context.Background())
	want := time.Now().Add(imapSessionTimeout)
	if diff := want.Sub(got); diff < -time.Second || diff > time.Second {
		t.Fatalf("deadline %v not near %v", got, want)
	}
}

func TestSessionDeadlineHonorsEarlierContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := sessionDeadline(ctx)
	ctxDeadline, _ := ctx.Deadline()
	if !got.Equal(ctxDeadline) {
		t.Fatalf("deadline %v, want context deadline %v", got, ctxDeadline)
	}
}

func TestSessionDeadlineIgnoresLaterContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	got := sessionDeadline(ctx)
	if ctxDeadline, _ := ctx.Deadline(); got.Equal(ctxDeadline) {
		t.Fatal("session deadline must not stretch to a later context deadline")
	}
}

func TestFetchUnreadCancelledContext(t *testing.T) {
	m := NewIMAPMailbox(config.MailboxConfig{
		Host: "imap.example.invalid",
		Port: 993,
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if _, err := m.FetchUnread(ctx); err == nil {
		t.Fatal("expected error with cancelled context")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("fetch blocked %v on a cancelled context", elapsed)
	}
}

func TestMarkReadRejectsBadUID(t *testing.T) {
	m := NewIMAPMailbox(config.MailboxConfig{}, zap.NewNop())
	if err := m.MarkRead(context.Background(), "not-a-uid"); err == nil {
		t.Fatal("expected error for a non-numeric uid")
	}
}
