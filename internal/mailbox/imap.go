package mailbox

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"go.uber.org/zap"

	"hiring-agent/internal/config"
)

const (
	imapDialTimeout    = 30 * time.Second
	imapSessionTimeout = 2 * time.Minute
)

// IMAPMailbox reads resumes out of a plain IMAP inbox. Each call opens
// its own connection; inboxes are polled on a minutes scale, so
// connection reuse buys nothing and reconnect handling costs a lot.
type IMAPMailbox struct {
	cfg    config.MailboxConfig
	logger *zap.Logger
}

func NewIMAPMailbox(cfg config.MailboxConfig, logger *zap.Logger) *IMAPMailbox {
	return &IMAPMailbox{cfg: cfg, logger: logger}
}

func (m *IMAPMailbox) connect(ctx context.Context) (*imapclient.Client, error) {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	dialer := &net.Dialer{Timeout: imapDialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	if m.cfg.UseSSL {
		conn = tls.Client(conn, &tls.Config{ServerName: m.cfg.Host})
	}

	// Every command on this connection must finish before the session
	// deadline; a stalled server cannot hold the sync lock forever.
	if err := conn.SetDeadline(sessionDeadline(ctx)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set connection deadline: %w", err)
	}

	client := imapclient.New(conn, nil)
	if err := client.Login(m.cfg.Username, m.cfg.Password).Wait(); err != nil {
		client.Close()
		return nil, fmt.Errorf("imap login failed: %w", err)
	}
	return client, nil
}

// sessionDeadline bounds one IMAP session, honoring an earlier
// deadline when the caller's context carries one.
func sessionDeadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(imapSessionTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		return d
	}
	return deadline
}

func (m *IMAPMailbox) FetchUnread(ctx context.Context) ([]Message, error) {
	client, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	folder := m.cfg.Folder
	if folder == "" {
		folder = "INBOX"
	}
	if _, err := client.Select(folder, nil).Wait(); err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", folder, err)
	}

	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
	}
	if m.cfg.SenderFilter != "" {
		criteria.Header = []imap.SearchCriteriaHeaderField{
			{Key: "From", Value: m.cfg.SenderFilter},
		}
	}

	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap search failed: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	if max := m.cfg.MaxMessages; max > 0 && len(uids) > max {
		uids = uids[len(uids)-max:]
	}

	section := &imap.FetchItemBodySection{}
	fetchOptions := &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{section},
	}
	buffers, err := client.Fetch(imap.UIDSetNum(uids...), fetchOptions).Collect()
	if err != nil {
		return nil, fmt.Errorf("imap fetch failed: %w", err)
	}

	messages := make([]Message, 0, len(buffers))
	for _, buf := range buffers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		msg := Message{ID: strconv.FormatUint(uint64(buf.UID), 10)}
		if env := buf.Envelope; env != nil {
			msg.Subject = env.Subject
			msg.ReceivedAt = env.Date
			if len(env.From) > 0 {
				msg.Sender = env.From[0].Addr()
			}
		}

		body := buf.FindBodySection(section)
		if len(body) == 0 {
			messages = append(messages, msg)
			continue
		}

		attachments, err := extractAttachments(body)
		if err != nil {
			m.logger.Warn("failed to parse message body",
				zap.String("uid", msg.ID), zap.Error(err))
		}
		msg.Attachments = attachments
		messages = append(messages, msg)
	}
	return messages, nil
}

// extractAttachments walks the MIME tree and collects every part with
// an attachment disposition. Attachment IDs are positional within the
// message.
func extractAttachments(body []byte) ([]Attachment, error) {
	reader, err := mail.CreateReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to read mime message: %w", err)
	}

	var attachments []Attachment
	for i := 0; ; {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return attachments, fmt.Errorf("failed to read mime part: %w", err)
		}

		header, ok := part.Header.(*mail.AttachmentHeader)
		if !ok {
			continue
		}
		filename, _ := header.Filename()
		if filename == "" {
			continue
		}
		content, err := io.ReadAll(part.Body)
		if err != nil {
			return attachments, fmt.Errorf("failed to read attachment %s: %w", filename, err)
		}
		attachments = append(attachments, Attachment{
			ID:       strconv.Itoa(i),
			Filename: filename,
			Content:  content,
		})
		i++
	}
	return attachments, nil
}

func (m *IMAPMailbox) MarkRead(ctx context.Context, messageID string) error {
	uid, err := strconv.ParseUint(messageID, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid imap uid %q: %w", messageID, err)
	}

	client, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	folder := m.cfg.Folder
	if folder == "" {
		folder = "INBOX"
	}
	if _, err := client.Select(folder, nil).Wait(); err != nil {
		return fmt.Errorf("failed to select %s: %w", folder, err)
	}

	store := &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}
	if err := client.Store(imap.UIDSetNum(imap.UID(uid)), store, nil).Close(); err != nil {
		return fmt.Errorf("failed to mark message %s read: %w", messageID, err)
	}
	return nil
}
