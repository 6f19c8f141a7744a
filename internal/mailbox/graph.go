package mailbox

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"hiring-agent/internal/config"
)

const (
	graphBaseURL  = "https://graph.microsoft.com/v1.0"
	graphLoginURL = "https://login.microsoftonline.com"
	graphScope    = "https://graph.microsoft.com/.default"

	// tokenSkew renews the token a minute before it expires.
	tokenSkew = time.Minute
)

// GraphMailbox reads a Microsoft 365 mailbox through the Graph REST
// API using client-credentials auth. The access token is cached and
// refreshed through a singleflight group so concurrent fetches never
// race to the token endpoint.
type GraphMailbox struct {
	cfg    config.MailboxConfig
	client *http.Client
	logger *zap.Logger

	mu        sync.Mutex
	token     string
	expiresAt time.Time
	group     singleflight.Group
}

func NewGraphMailbox(cfg config.MailboxConfig, logger *zap.Logger) *GraphMailbox {
	return &GraphMailbox{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

func (m *GraphMailbox) accessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.token != "" && time.Now().Before(m.expiresAt) {
		token := m.token
		m.mu.Unlock()
		return token, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do("token", func() (any, error) {
		return m.requestToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (m *GraphMailbox) requestToken(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {m.cfg.GraphClientID},
		"client_secret": {m.cfg.GraphClientSecret},
		"scope":         {graphScope},
	}
	endpoint := fmt.Sprintf("%s/%s/oauth2/v2.0/token", graphLoginURL, m.cfg.GraphTenantID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("token request returned %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access token")
	}

	m.mu.Lock()
	m.token = payload.AccessToken
	m.expiresAt = time.Now().Add(time.Duration(payload.ExpiresIn)*time.Second - tokenSkew)
	m.mu.Unlock()

	return payload.AccessToken, nil
}

func (m *GraphMailbox) get(ctx context.Context, path string, out any) error {
	token, err := m.accessToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, graphBaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build graph request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("graph returned %d for %s: %s", resp.StatusCode, path, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type graphMessage struct {
	ID               string `json:"id"`
	Subject          string `json:"subject"`
	ReceivedDateTime string `json:"receivedDateTime"`
	From             struct {
		EmailAddress struct {
			Address string `json:"address"`
		} `json:"emailAddress"`
	} `json:"from"`
}

type graphAttachment struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ContentBytes string `json:"contentBytes"`
	ODataType    string `json:"@odata.type"`
}

func (m *GraphMailbox) FetchUnread(ctx context.Context) ([]Message, error) {
	folder := m.cfg.Folder
	if folder == "" {
		folder = "inbox"
	}
	max := m.cfg.MaxMessages
	if max <= 0 {
		max = 50
	}

	filter := "isRead eq false and hasAttachments eq true"
	if m.cfg.SenderFilter != "" {
		filter += fmt.Sprintf(" and from/emailAddress/address eq '%s'", m.cfg.SenderFilter)
	}

	path := fmt.Sprintf("/users/%s/mailFolders/%s/messages?$filter=%s&$top=%d&$select=id,subject,from,receivedDateTime",
		url.PathEscape(m.cfg.GraphUserID), url.PathEscape(folder), url.QueryEscape(filter), max)

	var listing struct {
		Value []graphMessage `json:"value"`
	}
	if err := m.get(ctx, path, &listing); err != nil {
		return nil, fmt.Errorf("failed to list unread messages: %w", err)
	}

	messages := make([]Message, 0, len(listing.Value))
	for _, gm := range listing.Value {
		msg := Message{
			ID:      gm.ID,
			Subject: gm.Subject,
			Sender:  gm.From.EmailAddress.Address,
		}
		if t, err := time.Parse(time.RFC3339, gm.ReceivedDateTime); err == nil {
			msg.ReceivedAt = t
		}

		attachments, err := m.fetchAttachments(ctx, gm.ID)
		if err != nil {
			m.logger.Warn("failed to fetch attachments",
				zap.String("message_id", gm.ID), zap.Error(err))
		}
		msg.Attachments = attachments
		messages = append(messages, msg)
	}
	return messages, nil
}

func (m *GraphMailbox) fetchAttachments(ctx context.Context, messageID string) ([]Attachment, error) {
	path := fmt.Sprintf("/users/%s/messages/%s/attachments",
		url.PathEscape(m.cfg.GraphUserID), url.PathEscape(messageID))

	var listing struct {
		Value []graphAttachment `json:"value"`
	}
	if err := m.get(ctx, path, &listing); err != nil {
		return nil, err
	}

	attachments := make([]Attachment, 0, len(listing.Value))
	for _, ga := range listing.Value {
		// Reference and item attachments carry no bytes.
		if ga.ContentBytes == "" {
			continue
		}
		content, err := base64.StdEncoding.DecodeString(ga.ContentBytes)
		if err != nil {
			m.logger.Warn("failed to decode attachment",
				zap.String("name", ga.Name), zap.Error(err))
			continue
		}
		attachments = append(attachments, Attachment{
			ID:       ga.ID,
			Filename: ga.Name,
			Content:  content,
		})
	}
	return attachments, nil
}

func (m *GraphMailbox) MarkRead(ctx context.Context, messageID string) error {
	token, err := m.accessToken(ctx)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("%s/users/%s/messages/%s",
		graphBaseURL, url.PathEscape(m.cfg.GraphUserID), url.PathEscape(messageID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, path, strings.NewReader(`{"isRead": true}`))
	if err != nil {
		return fmt.Errorf("failed to build graph request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("failed to mark message read, graph returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
