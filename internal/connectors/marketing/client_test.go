package marketing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/custodia-labs/storesync/internal/core/domain"
)

// newTestClient starts a server running handler and returns a client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *observer.ObservedLogs) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	core, logs := observer.New(zapcore.DebugLevel)
	c := NewClient(Config{Token: "secret-us6", Endpoint: srv.URL}, zap.New(core))
	return c, logs
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// ====== URL and Credential Tests ======

func TestClient_URL(t *testing.T) {
	c := NewClient(Config{Token: "abc-us6"}, nil)

	assert.Equal(t, "https://us6.api.example.com/3.0/lists", c.URL("lists", nil))
	assert.Equal(t, "https://us6.api.example.com/3.0/", c.URL("", nil))
	assert.Equal(t, "https://us6.api.example.com/3.0/lists?count=5", c.URL("/lists", url.Values{"count": {"5"}}))
}

func TestClient_URL_Defaults(t *testing.T) {
	c := NewClient(Config{}, nil)
	assert.Equal(t, "https://us2.api.example.com/3.0/ping", c.URL("ping", nil))

	c.SetRegion("eu1")
	c.SetVersion("3.1")
	assert.Equal(t, "https://eu1.api.example.com/3.1/ping", c.URL("ping", nil))
}

func TestClient_SetCredential(t *testing.T) {
	c := NewClient(Config{Token: "first-us7"}, nil)

	c.SetCredential("second")
	assert.Equal(t, domain.Credential{Key: "second", Region: "us7"}, c.Credential())

	c.SetCredential("")
	assert.Equal(t, domain.Credential{Key: "second", Region: "us7"}, c.Credential())

	c.SetCredential("third-us9")
	assert.Equal(t, domain.Credential{Key: "third", Region: "us9"}, c.Credential())
}

func TestClient_Request_BasicAuthAndBody(t *testing.T) {
	var gotUser, gotPass, gotMethod, gotType string
	var gotBody map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		respond(http.StatusOK, `{"id":"l1","name":"Newsletter"}`)(w, r)
	})

	var out List
	err := c.Request(context.Background(), http.MethodPost, "lists", nil, map[string]string{"name": "Newsletter"}, &out)

	require.NoError(t, err)
	assert.Equal(t, Username, gotUser)
	assert.Equal(t, "secret", gotPass)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "Newsletter", gotBody["name"])
	assert.Equal(t, "l1", out.ID)
}

// ====== Classification Tests ======

func TestClient_Request_Classification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind string
		wantCode int
		wantMsg  string
	}{
		{"plain success", 200, `{"id":"x"}`, "", 0, ""},
		{"empty success", 204, ``, "", 0, ""},
		{"non-object success", 200, `[1,2]`, "", 0, ""},
		{"embedded field errors", 200, `{"status":400,"errors":[{"field":"email_address","message":"invalid"},{"field":"status","message":"required"}]}`, "business", 400, "email_address: invalid; status: required"},
		{"embedded errors without status", 200, `{"errors":[{"field":"a","message":"b"}]}`, "business", 200, "a: b"},
		{"embedded status", 200, `{"status":404,"detail":"gone"}`, "business", 404, "gone"},
		{"status 400 counts as success range", 400, `{"title":"Bad"}`, "", 0, ""},
		{"status 400 with body status", 400, `{"status":400,"detail":"bad input"}`, "business", 400, "bad input"},
		{"not found", 404, `{"title":"Resource Not Found","detail":"missing","status":404}`, "business", 404, "Resource Not Found :: missing"},
		{"unauthorised without body status", 401, `{"title":"API Key Invalid","detail":"bad key"}`, "business", 401, "API Key Invalid :: bad key"},
		{"500 is business", 500, `{"title":"Internal","detail":"oops","status":500}`, "business", 500, "Internal :: oops"},
		{"server error", 503, `{"detail":"down","status":503}`, "server", 503, "down"},
		{"server error without json", 502, `<html>bad gateway</html>`, "server", 502, ""},
		{"string status", 200, `{"status":"422","detail":"unprocessable"}`, "business", 422, "unprocessable"},
		{"embedded string errors", 200, `{"errors":["email is invalid"],"status":400}`, "business", 400, "email is invalid"},
		{"embedded errors with non-string title", 200, `{"errors":[{"field":"email","message":"bad"}],"title":7}`, "business", 200, "email: bad"},
		{"embedded mixed errors", 200, `{"errors":[{"field":"a","message":"b"},3]}`, "business", 200, "a: b; 3"},
		{"embedded non-array errors", 200, `{"errors":"quota exceeded"}`, "business", 200, "quota exceeded"},
		{"empty errors array", 200, `{"errors":[]}`, "business", 200, ""},
		{"null errors", 200, `{"errors":null,"id":"x"}`, "", 0, ""},
		{"non-string title on 404", 404, `{"title":7,"detail":"missing"}`, "business", 404, "7 :: missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, respond(tt.status, tt.body))

			err := c.Request(context.Background(), http.MethodGet, "thing", nil, nil, nil)

			switch tt.wantKind {
			case "":
				assert.NoError(t, err)
			case "business":
				var be *domain.BusinessError
				require.ErrorAs(t, err, &be)
				assert.Equal(t, tt.wantCode, be.Status)
				assert.Equal(t, tt.wantMsg, be.Message)
			case "server":
				var se *domain.ServerError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, tt.wantCode, se.Status)
				assert.Equal(t, tt.wantMsg, se.Message)
			}
		})
	}
}

func TestClient_Request_Transport(t *testing.T) {
	srv := httptest.NewServer(respond(200, `{}`))
	endpoint := srv.URL
	srv.Close()

	c := NewClient(Config{Token: "k-us1", Endpoint: endpoint}, nil)
	err := c.Request(context.Background(), http.MethodGet, "lists", nil, nil, nil)

	require.Error(t, err)
	assert.True(t, domain.IsTransport(err))
	assert.False(t, domain.IsBusiness(err))
}

func TestClient_Request_RedirectLimit(t *testing.T) {
	var hits atomic.Int32
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Redirect(w, r, srv.URL+r.URL.Path, http.StatusFound)
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL}, nil)
	err := c.Request(context.Background(), http.MethodGet, "loop", nil, nil, nil)

	assert.True(t, domain.IsTransport(err))
	assert.Equal(t, int32(MaxRedirects), hits.Load())
}

func TestClient_Request_LogsFailures(t *testing.T) {
	c, logs := newTestClient(t, respond(404, `{"title":"Not Found","detail":"nope","status":404}`))

	_ = c.Request(context.Background(), http.MethodGet, "lists/x", nil, nil, nil)

	entries := logs.FilterLoggerName("api").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, int64(404), entries[0].ContextMap()["status"])
	assert.Equal(t, "GET lists/x", entries[0].ContextMap()["op"])
}

func TestClient_Request_LogsServerErrors(t *testing.T) {
	c, logs := newTestClient(t, respond(503, `{"detail":"maintenance","status":503}`))

	_ = c.Request(context.Background(), http.MethodGet, "lists", nil, nil, nil)

	entries := logs.FilterLoggerName("api").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

// ====== Rate Limit Tests ======

func TestClient_Request_RetryAfterDefers(t *testing.T) {
	w := httptest.NewRecorder()
	w.Header().Set(HeaderRetryAfter, "30")
	w.WriteHeader(http.StatusTooManyRequests)

	r := NewRateLimiter(0)
	before := time.Now()
	r.Observe(w.Result())

	assert.True(t, r.DeferredUntil().After(before.Add(29*time.Second)))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)
}

func TestRateLimiter_IgnoresOtherStatuses(t *testing.T) {
	w := httptest.NewRecorder()
	w.Header().Set(HeaderRetryAfter, "30")
	w.WriteHeader(http.StatusOK)

	r := NewRateLimiter(100)
	r.Observe(w.Result())

	assert.True(t, r.DeferredUntil().IsZero())
	assert.NoError(t, r.Wait(context.Background()))
}
