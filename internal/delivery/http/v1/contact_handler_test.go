package v1_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portfolio-backend/config"
	v1 "portfolio-backend/internal/delivery/http/v1"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const ownerAddr = "owner@example.com"

// scriptedTransport fails the nth send (1-based) when failOn > 0
type scriptedTransport struct {
	sent   []email.Message
	failOn int
}

func (s *scriptedTransport) Send(_ context.Context, msg email.Message) error {
	s.sent = append(s.sent, msg)
	if len(s.sent) == s.failOn {
		return errors.New("smtp: 554 transaction failed")
	}
	return nil
}

func newTestRouter(t *testing.T, tr email.Transport, cfg *config.Config) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	svc := email.NewEmailService(tr, email.Identity{From: "bot@example.com", Owner: ownerAddr, Signature: "Sam"})
	if cfg == nil {
		cfg = &config.Config{AllowedOrigins: []string{"http://localhost:3000"}}
	}

	return v1.NewRouter(v1.RouterDeps{
		ContactUC: usecase.NewContactUsecase(svc, validation.New(), log),
		HealthUC:  usecase.NewHealthUsecase(svc),
		Log:       log,
		Config:    cfg,
	}), logs
}

func postJSON(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/send-email", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSendEmailSuccess(t *testing.T) {
	tr := &scriptedTransport{}
	r, _ := newTestRouter(t, tr, nil)

	w := postJSON(r, `{"name":"Alice","email":"alice@x.com","message":"Hi"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Email sent successfully!"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	require.Len(t, tr.sent, 2)
	assert.Equal(t, ownerAddr, tr.sent[0].To)
	assert.Contains(t, tr.sent[0].Subject, "Alice")
	assert.Equal(t, "alice@x.com", tr.sent[1].To)
	assert.Equal(t, email.ConfirmationSubject, tr.sent[1].Subject)
}

func TestSendEmailMissingFields(t *testing.T) {
	bodies := []string{
		`{"name":"","email":"alice@x.com","message":"Hi"}`,
		`{"name":"Alice","message":"Hi"}`,
		`{"name":"Alice","email":"alice@x.com","message":null}`,
		`{}`,
		`null`,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			tr := &scriptedTransport{}
			r, _ := newTestRouter(t, tr, nil)

			w := postJSON(r, body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Missing required fields"}`, w.Body.String())
			assert.Empty(t, tr.sent)
		})
	}
}

func TestSendEmailMalformedJSON(t *testing.T) {
	for _, body := range []string{`{"name":`, ``, `[1,2]`, `{"name":123,"email":"alice@x.com","message":"Hi"}`} {
		tr := &scriptedTransport{}
		r, logs := newTestRouter(t, tr, nil)

		w := postJSON(r, body)

		assert.Equal(t, http.StatusInternalServerError, w.Code, body)
		assert.JSONEq(t, `{"error":"Failed to send email. Please try again."}`, w.Body.String())
		assert.Empty(t, tr.sent)
		assert.Equal(t, 1, logs.FilterMessage(v1.MsgSendFailed).Len(), "parse fault is logged")
	}
}

func TestSendEmailMalformedSenderAddressStillNotifiesOwner(t *testing.T) {
	tr := &scriptedTransport{}
	r, _ := newTestRouter(t, tr, nil)

	w := postJSON(r, `{"name":"Alice","email":"alice at x","message":"Hi"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, tr.sent, 2)
	assert.Equal(t, ownerAddr, tr.sent[0].To)
	assert.Empty(t, tr.sent[0].ReplyTo)
	assert.Equal(t, "alice at x", tr.sent[1].To)
}

func TestSendEmailTransportFailure(t *testing.T) {
	t.Run("notification fails", func(t *testing.T) {
		tr := &scriptedTransport{failOn: 1}
		r, logs := newTestRouter(t, tr, nil)

		w := postJSON(r, `{"name":"Alice","email":"alice@x.com","message":"Hi"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Failed to send email. Please try again."}`, w.Body.String())
		assert.Len(t, tr.sent, 1, "confirmation is never attempted")
		assert.NotContains(t, w.Body.String(), "554")

		entries := logs.FilterMessage(v1.MsgSendFailed).All()
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].ContextMap()["error"], "554")
	})

	t.Run("confirmation fails after notification", func(t *testing.T) {
		tr := &scriptedTransport{failOn: 2}
		r, _ := newTestRouter(t, tr, nil)

		w := postJSON(r, `{"name":"Alice","email":"alice@x.com","message":"Hi"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Failed to send email. Please try again."}`, w.Body.String())
		require.Len(t, tr.sent, 2)
		assert.Equal(t, ownerAddr, tr.sent[0].To, "owner was notified despite the 500")
	})
}

func TestSendEmailRepeatedSubmissions(t *testing.T) {
	tr := &scriptedTransport{}
	r, _ := newTestRouter(t, tr, nil)

	for i := 0; i < 2; i++ {
		w := postJSON(r, `{"name":"Alice","email":"alice@x.com","message":"Hi"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Len(t, tr.sent, 4)
}

func TestSendEmailRateLimit(t *testing.T) {
	tr := &scriptedTransport{}
	r, _ := newTestRouter(t, tr, &config.Config{ContactRateLimit: 2, RateLimitWindowSeconds: 60})

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, postJSON(r, `{"name":"A","email":"a@x.com","message":"Hi"}`).Code)
	}

	w := postJSON(r, `{"name":"A","email":"a@x.com","message":"Hi"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Rate limit exceeded. Please try again later."}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Len(t, tr.sent, 4)
}

func TestHealthAndNoRoute(t *testing.T) {
	r, _ := newTestRouter(t, &scriptedTransport{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","mail":"configured"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}
