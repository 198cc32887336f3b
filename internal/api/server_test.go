package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movnaglobal/chat-service/internal/chat"
	"github.com/movnaglobal/chat-service/internal/knowledge"
	"github.com/movnaglobal/chat-service/internal/log"
	"github.com/movnaglobal/chat-service/internal/session"
	"github.com/movnaglobal/chat-service/internal/testutil"
)

type stubCompleter struct {
	reply string
	err   error
}

func (c *stubCompleter) Complete(context.Context, []*ai.Message) (string, error) {
	return c.reply, c.err
}

type stubIndex struct {
	hits []knowledge.Hit
}

func (s *stubIndex) Load(context.Context, []knowledge.Record) error { return nil }

func (s *stubIndex) Search(context.Context, string, ...knowledge.SearchOption) ([]knowledge.Hit, error) {
	return s.hits, nil
}

func newTestServer(t *testing.T, completer chat.Completer) *Server {
	t.Helper()

	svc, err := chat.New(chat.Config{
		Index:     &stubIndex{hits: []knowledge.Hit{{Record: knowledge.Record{Answer: "100,000 NIS"}, Score: 0.9}}},
		Completer: completer,
		Logger:    log.NewNop(),
		Retrieval: knowledge.FilterConfig{
			TopK:            3,
			MaxAnswerLength: 500,
		},
		ValidationEnabled: true,
		MaxReplyLength:    2000,
	})
	require.NoError(t, err)

	srv, err := NewServer(ServerConfig{
		Logger:      log.NewNop(),
		Chat:        svc,
		CORSOrigins: []string{"http://localhost:3000"},
	})
	require.NoError(t, err)
	return srv
}

func postChat(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestChatSuccess(t *testing.T) {
	srv := newTestServer(t, &stubCompleter{reply: "The minimum investment is 100,000 NIS."})

	rec := postChat(t, srv, `{"message":"What is the minimum investment?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string         `json:"message"`
		History []session.Turn `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "100,000")
	require.Len(t, resp.History, 2)
	assert.Equal(t, session.RoleUser, resp.History[0].Role)
	assert.Equal(t, session.RoleBot, resp.History[1].Role)
}

func TestChatEndToEndWithRegisteredModel(t *testing.T) {
	g := genkit.Init(context.Background())
	mock := testutil.NewMockLLM("Please contact a human representative.")
	mock.AddResponse("minimum investment", "The minimum investment is 100,000 NIS.")
	mock.RegisterModel(g)

	completer := chat.NewGenkitCompleter(g, "mock/test-model", 0.2, 256)
	srv := newTestServer(t, completer)

	rec := postChat(t, srv, `{"message":"What is the minimum investment?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "100,000 NIS")

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].SystemMessage, "Movna Global")
	assert.Contains(t, calls[0].SystemMessage, "100,000 NIS")
	assert.Equal(t, "What is the minimum investment?", calls[0].UserMessage)
}

func TestChatHebrewQuery(t *testing.T) {
	srv := newTestServer(t, &stubCompleter{reply: "ההשקעה המינימלית היא 100,000 ש\"ח."})

	rec := postChat(t, srv, `{"message":"מה ההשקעה המינימלית?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "100,000")
}

func TestChatMissingMessage(t *testing.T) {
	srv := newTestServer(t, &stubCompleter{reply: "x"})

	for _, body := range []string{`{}`, `{"message":""}`, `not json`} {
		rec := postChat(t, srv, body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Message is required", resp["error"])
	}
}

func TestChatFailureLocalizedError(t *testing.T) {
	srv := newTestServer(t, &stubCompleter{err: errors.New("upstream exploded")})

	rec := postChat(t, srv, `{"message":"hello"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "exploded")

	recHe := postChat(t, srv, `{"message":"שלום"}`)
	require.Equal(t, http.StatusInternalServerError, recHe.Code)
	assert.Contains(t, recHe.Body.String(), "שגיאה")
	assert.NotContains(t, recHe.Body.String(), "exploded")
}

func TestChatValidationFailureIsGeneric(t *testing.T) {
	srv := newTestServer(t, &stubCompleter{reply: "bad \U0001F600"})

	rec := postChat(t, srv, `{"message":"hello"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
	assert.NotContains(t, resp["error"], "disallowed")
}

func TestChatHistoryRoundTrip(t *testing.T) {
	srv := newTestServer(t, &stubCompleter{reply: "Sure."})

	body := `{"message":"thanks","history":[{"role":"user","content":"hi"},{"role":"bot","content":"hello"}]}`
	rec := postChat(t, srv, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		History []session.Turn `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.History, 4)
	assert.Equal(t, "hi", resp.History[0].Content)
	assert.Equal(t, "Sure.", resp.History[3].Content)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &stubCompleter{reply: "x"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t, &stubCompleter{reply: "ok then"})

	rec := postChat(t, srv, `{"message":"hello"}`)
	id := rec.Header().Get("X-Request-ID")
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, &stubCompleter{reply: "x"})

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	// unknown origins get no CORS headers
	req2 := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req2.Header.Set("Origin", "http://evil.example")
	rec2 := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec2, req2)
	assert.Empty(t, rec2.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	handler := recoveryMiddleware(log.NewNop())(panicking)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "internal server error"))
}

func TestWriteJSONHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]string{"a": "b"}, log.NewNop())

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Length"))
}
