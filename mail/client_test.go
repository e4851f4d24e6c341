package mail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hometownhero/bannerdesk/models"
)

const testMailbox = "banners@example.org"

type fakeGraph struct {
	*httptest.Server
	tokenCalls atomic.Int32
	sent       []graphMessage
	drafts     []graphMessage
	marked     []string
	lastQuery  string
	rejectAuth bool
	failSend   bool
}

func newFakeGraph(t *testing.T) *fakeGraph {
	t.Helper()
	fg := &fakeGraph{}
	mux := http.NewServeMux()

	mux.HandleFunc("/login/tenant-1/oauth2/v2.0/token", func(w http.ResponseWriter, r *http.Request) {
		fg.tokenCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if fg.rejectAuth {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_client","error_description":"bad secret"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`))
	})

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer test-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("/graph/users/"+testMailbox+"/sendMail", authed(func(w http.ResponseWriter, r *http.Request) {
		if fg.failSend {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":"ErrorAccessDenied","message":"Access is denied."}}`))
			return
		}
		var payload struct {
			Message         graphMessage `json:"message"`
			SaveToSentItems bool         `json:"saveToSentItems"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.True(t, payload.SaveToSentItems)
		fg.sent = append(fg.sent, payload.Message)
		w.WriteHeader(http.StatusAccepted)
	}))

	mux.HandleFunc("/graph/users/"+testMailbox+"/messages", authed(func(w http.ResponseWriter, r *http.Request) {
		var msg graphMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		fg.drafts = append(fg.drafts, msg)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"draft-1"}`))
	}))

	mux.HandleFunc("/graph/users/"+testMailbox+"/messages/", authed(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		fg.marked = append(fg.marked, strings.TrimPrefix(r.URL.Path, "/graph/users/"+testMailbox+"/messages/"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))

	mux.HandleFunc("/graph/users/"+testMailbox+"/mailFolders/inbox/messages", authed(func(w http.ResponseWriter, r *http.Request) {
		fg.lastQuery = r.URL.Query().Get("$filter")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value":[
			{"id":"m1","subject":"RE: Hometown Hero Banner Proof Ready - JOHN DOE","isRead":false,
			 "from":{"emailAddress":{"address":"jane@example.com","name":"Jane"}},
			 "receivedDateTime":"2024-05-20T15:04:05Z",
			 "body":{"contentType":"html","content":"<p>APPROVE</p><p>Thanks!</p>"}},
			{"id":"m2","subject":"Lunch?","isRead":true,
			 "from":{"emailAddress":{"address":"bob@example.com"}},
			 "receivedDateTime":"2024-05-19T10:00:00Z",
			 "body":{"contentType":"text","content":"see you"}}
		]}`))
	}))

	fg.Server = httptest.NewServer(mux)
	t.Cleanup(fg.Close)
	return fg
}

func (fg *fakeGraph) client(mode string) *Client {
	cfg := &Config{ClientID: "id", ClientSecret: "secret", TenantID: "tenant-1", Sender: testMailbox, Mode: mode}
	return NewClient(cfg, nil, WithEndpoints(fg.URL+"/graph", fg.URL+"/login"), WithHTTPClient(fg.Client()))
}

var readyBanner = models.BannerRecord{ID: 7, HeroName: "JOHN DOE", SponsorName: "Jane Doe", SponsorEmail: "jane@example.com"}

func TestAuthenticateAndSend(t *testing.T) {
	fg := newFakeGraph(t)
	c := fg.client(ModeSend)
	ctx := context.Background()

	require.NoError(t, c.Authenticate(ctx))
	ref, err := c.SendProofReady(ctx, readyBanner, "https://example.org/proofs")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "7-"))

	require.Len(t, fg.sent, 1)
	msg := fg.sent[0]
	assert.Equal(t, ProofSubjectPrefix+" - JOHN DOE", msg.Subject)
	assert.Equal(t, "HTML", msg.Body.ContentType)
	assert.Contains(t, msg.Body.Content, ref)
	require.Len(t, msg.ToRecipients, 1)
	assert.Equal(t, "jane@example.com", msg.ToRecipients[0].EmailAddress.Address)
	assert.Empty(t, fg.drafts)
}

func TestDraftMode(t *testing.T) {
	fg := newFakeGraph(t)
	c := fg.client(ModeDraft)
	ctx := context.Background()

	require.NoError(t, c.Authenticate(ctx))
	_, err := c.SendProofReady(ctx, readyBanner, "https://example.org/proofs")
	require.NoError(t, err)
	assert.Len(t, fg.drafts, 1)
	assert.Empty(t, fg.sent)
	assert.Equal(t, ModeDraft, c.Mode())
}

func TestAuthenticateRejected(t *testing.T) {
	fg := newFakeGraph(t)
	fg.rejectAuth = true

	err := fg.client(ModeSend).Authenticate(context.Background())
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestSendRequiresAuthAndAddress(t *testing.T) {
	fg := newFakeGraph(t)
	c := fg.client(ModeSend)
	ctx := context.Background()

	_, err := c.SendProofReady(ctx, readyBanner, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authenticated")

	require.NoError(t, c.Authenticate(ctx))
	noEmail := readyBanner
	noEmail.SponsorEmail = ""
	_, err = c.SendProofReady(ctx, noEmail, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no email address")
	assert.Empty(t, fg.sent)
}

func TestSendSurfacesGraphError(t *testing.T) {
	fg := newFakeGraph(t)
	fg.failSend = true
	c := fg.client(ModeSend)
	ctx := context.Background()
	require.NoError(t, c.Authenticate(ctx))

	_, err := c.SendProofReady(ctx, readyBanner, "")
	require.Error(t, err)
	var gerr *GraphError
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, http.StatusForbidden, gerr.StatusCode)
	assert.Equal(t, "ErrorAccessDenied", gerr.Code)
}

func TestListRecentMessagesAndMarkRead(t *testing.T) {
	fg := newFakeGraph(t)
	c := fg.client(ModeSend)
	ctx := context.Background()
	require.NoError(t, c.Authenticate(ctx))

	since := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	msgs, err := c.ListRecentMessages(ctx, since, 0)
	require.NoError(t, err)
	assert.Equal(t, "receivedDateTime ge 2024-05-13T00:00:00Z", fg.lastQuery)

	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "jane@example.com", msgs[0].From)
	assert.Equal(t, "APPROVE", FirstLine(msgs[0].Body))
	assert.False(t, msgs[0].IsRead)
	assert.True(t, msgs[0].ReceivedAt.Equal(time.Date(2024, 5, 20, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "see you", msgs[1].Body)

	require.NoError(t, c.MarkRead(ctx, "m1"))
	assert.Equal(t, []string{"m1"}, fg.marked)
	assert.Equal(t, int32(1), fg.tokenCalls.Load(), "token is cached between calls")
}
