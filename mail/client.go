// mail/client.go
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/hometownhero/bannerdesk/models"
)

const (
	defaultGraphURL = "https://graph.microsoft.com/v1.0"
	defaultLoginURL = "https://login.microsoftonline.com"
	graphScope      = "https://graph.microsoft.com/.default"

	// ProofSubjectPrefix starts every proof notice subject; replies keep it.
	ProofSubjectPrefix = "Hometown Hero Banner Proof Ready"
)

// Message is an inbox message reduced to what approval checks need.
type Message struct {
	ID         string
	Subject    string
	From       string
	ReceivedAt time.Time
	Body       string // plain text
	IsRead     bool
}

// Client talks to Microsoft Graph on behalf of one mailbox.
type Client struct {
	cfg      Config
	base     *http.Client
	http     *http.Client
	graphURL string
	loginURL string
	log      *zap.Logger
}

type Option func(*Client)

// WithEndpoints points the client at alternate Graph and login hosts.
func WithEndpoints(graphURL, loginURL string) Option {
	return func(c *Client) {
		c.graphURL = strings.TrimRight(graphURL, "/")
		c.loginURL = strings.TrimRight(loginURL, "/")
	}
}

// WithHTTPClient sets the transport used for both token and API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.base = hc }
}

func NewClient(cfg *Config, log *zap.Logger, opts ...Option) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		cfg:      *cfg,
		base:     &http.Client{Timeout: 30 * time.Second},
		graphURL: defaultGraphURL,
		loginURL: defaultLoginURL,
		log:      log.Named("mail"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode reports whether notices are sent or left as drafts.
func (c *Client) Mode() string { return c.cfg.Mode }

// Authenticate obtains an app token and prepares the API client.
func (c *Client) Authenticate(ctx context.Context) error {
	cc := clientcredentials.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("%s/%s/oauth2/v2.0/token", c.loginURL, url.PathEscape(c.cfg.TenantID)),
		Scopes:       []string{graphScope},
	}

	// The token source outlives this call, so it must not inherit its cancellation.
	tokenCtx := context.WithValue(context.WithoutCancel(ctx), oauth2.HTTPClient, c.base)
	ts := cc.TokenSource(tokenCtx)
	if _, err := ts.Token(); err != nil {
		c.log.Warn("token request rejected", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	c.http = oauth2.NewClient(tokenCtx, ts)
	c.log.Info("authenticated with Microsoft Graph", zap.String("mailbox", c.cfg.Sender))
	return nil
}

type graphEmailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type graphRecipient struct {
	EmailAddress graphEmailAddress `json:"emailAddress"`
}

type graphBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphMessage struct {
	ID               string           `json:"id,omitempty"`
	Subject          string           `json:"subject"`
	Body             graphBody        `json:"body"`
	ToRecipients     []graphRecipient `json:"toRecipients,omitempty"`
	From             *graphRecipient  `json:"from,omitempty"`
	ReceivedDateTime *time.Time       `json:"receivedDateTime,omitempty"`
	IsRead           bool             `json:"isRead,omitempty"`
}

// SendProofReady mails the proof notice for b, or saves it as a draft in
// draft mode. It returns the reference id quoted in the message.
func (c *Client) SendProofReady(ctx context.Context, b models.BannerRecord, proofURL string) (string, error) {
	if c.http == nil {
		return "", errors.New("mail client is not authenticated")
	}
	if strings.TrimSpace(b.SponsorEmail) == "" {
		return "", fmt.Errorf("no email address for %s", b.HeroName)
	}

	reference := fmt.Sprintf("%d-%s", b.ID, uuid.NewString()[:8])
	body, err := renderProof(proofData{
		HeroName:    b.HeroName,
		SponsorName: b.SponsorName,
		ProofURL:    proofURL,
		Reference:   reference,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render proof notice: %w", err)
	}

	msg := graphMessage{
		Subject:      fmt.Sprintf("%s - %s", ProofSubjectPrefix, b.HeroName),
		Body:         graphBody{ContentType: "HTML", Content: body},
		ToRecipients: []graphRecipient{{EmailAddress: graphEmailAddress{Address: b.SponsorEmail, Name: b.SponsorName}}},
	}

	switch c.cfg.Mode {
	case ModeDraft:
		err = c.do(ctx, http.MethodPost, c.mailboxPath("messages"), msg, nil, http.StatusCreated)
	default:
		payload := struct {
			Message         graphMessage `json:"message"`
			SaveToSentItems bool         `json:"saveToSentItems"`
		}{msg, true}
		err = c.do(ctx, http.MethodPost, c.mailboxPath("sendMail"), payload, nil, http.StatusAccepted)
	}
	if err != nil {
		return "", fmt.Errorf("failed to deliver proof notice to %s: %w", b.SponsorEmail, err)
	}

	c.log.Info("proof notice delivered",
		zap.String("hero", b.HeroName),
		zap.String("to", b.SponsorEmail),
		zap.String("mode", c.cfg.Mode),
		zap.String("reference", reference))
	return reference, nil
}

// ListRecentMessages returns inbox messages received at or after since,
// newest first, at most limit of them.
func (c *Client) ListRecentMessages(ctx context.Context, since time.Time, limit int) ([]Message, error) {
	if c.http == nil {
		return nil, errors.New("mail client is not authenticated")
	}
	if limit <= 0 {
		limit = 100
	}

	q := url.Values{}
	q.Set("$filter", "receivedDateTime ge "+since.UTC().Format(time.RFC3339))
	q.Set("$orderby", "receivedDateTime desc")
	q.Set("$top", fmt.Sprint(limit))
	q.Set("$select", "id,subject,from,receivedDateTime,body,isRead")

	var page struct {
		Value []graphMessage `json:"value"`
	}
	if err := c.do(ctx, http.MethodGet, c.mailboxPath("mailFolders/inbox/messages")+"?"+q.Encode(), nil, &page, http.StatusOK); err != nil {
		return nil, fmt.Errorf("failed to list inbox messages: %w", err)
	}

	messages := make([]Message, 0, len(page.Value))
	for _, gm := range page.Value {
		m := Message{ID: gm.ID, Subject: gm.Subject, IsRead: gm.IsRead, Body: gm.Body.Content}
		if gm.From != nil {
			m.From = gm.From.EmailAddress.Address
		}
		if gm.ReceivedDateTime != nil {
			m.ReceivedAt = *gm.ReceivedDateTime
		}
		if strings.EqualFold(gm.Body.ContentType, "html") {
			m.Body = PlainText(gm.Body.Content)
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// MarkRead flags one message as read.
func (c *Client) MarkRead(ctx context.Context, id string) error {
	if c.http == nil {
		return errors.New("mail client is not authenticated")
	}
	patch := map[string]bool{"isRead": true}
	if err := c.do(ctx, http.MethodPatch, c.mailboxPath("messages/"+url.PathEscape(id)), patch, nil, http.StatusOK); err != nil {
		return fmt.Errorf("failed to mark message %s read: %w", id, err)
	}
	return nil
}

func (c *Client) mailboxPath(suffix string) string {
	return fmt.Sprintf("%s/users/%s/%s", c.graphURL, url.PathEscape(c.cfg.Sender), suffix)
}

// GraphError is a non-success answer from the API.
type GraphError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *GraphError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("graph API returned %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("graph API returned %d", e.StatusCode)
}

func (c *Client) do(ctx context.Context, method, endpoint string, in, out any, want int) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		gerr := &GraphError{StatusCode: resp.StatusCode}
		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if data, rerr := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); rerr == nil && json.Unmarshal(data, &envelope) == nil {
			gerr.Code = envelope.Error.Code
			gerr.Message = envelope.Error.Message
		}
		return gerr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode graph response: %w", err)
	}
	return nil
}
