package http_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78"

	"github.com/modelify-app/modelify-backend/config"
	"github.com/modelify-app/modelify-backend/internal/payments"
	webhookhttp "github.com/modelify-app/modelify-backend/internal/payments/http"
)

const webhookSecret = "whsec_test_secret"

type recordingReconciler struct {
	calls [][2]string
	err   error
}

func (r *recordingReconciler) MarkPaid(_ context.Context, projectID, paymentRef string) error {
	r.calls = append(r.calls, [2]string{projectID, paymentRef})
	return r.err
}

func setupWebhookRouter(t *testing.T, dedupe *payments.EventDedupe, rec *recordingReconciler) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orch := payments.NewOrchestrator(&config.StripeConfig{
		SecretKey:     "sk_test_123",
		WebhookSecret: webhookSecret,
	}, "http://localhost:3000", nil)

	r := gin.New()
	webhookhttp.NewWebhookHandler(orch, dedupe, rec).Register(r.Group("/api/v1"))
	return r
}

func eventPayload(eventID, eventType, object string) []byte {
	return []byte(fmt.Sprintf(`{"id":%q,"api_version":%q,"type":%q,"data":{"object":%s}}`,
		eventID, stripe.APIVersion, eventType, object))
}

func signPayload(payload []byte) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func deliver(r *gin.Engine, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signature)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookHandler(t *testing.T) {
	t.Run("completed checkout marks the project paid by payment intent", func(t *testing.T) {
		rec := &recordingReconciler{}
		r := setupWebhookRouter(t, nil, rec)

		payload := eventPayload("evt_1", "checkout.session.completed",
			`{"id":"cs_123","payment_intent":"pi_123","metadata":{"project_id":"proj-1"}}`)
		w := deliver(r, payload, signPayload(payload))

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, rec.calls, 1)
		assert.Equal(t, [2]string{"proj-1", "pi_123"}, rec.calls[0])
	})

	t.Run("session id is the fallback payment reference", func(t *testing.T) {
		rec := &recordingReconciler{}
		r := setupWebhookRouter(t, nil, rec)

		payload := eventPayload("evt_2", "checkout.session.completed",
			`{"id":"cs_456","metadata":{"project_id":"proj-2"}}`)
		w := deliver(r, payload, signPayload(payload))

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, rec.calls, 1)
		assert.Equal(t, [2]string{"proj-2", "cs_456"}, rec.calls[0])
	})

	t.Run("an invalid signature is rejected", func(t *testing.T) {
		rec := &recordingReconciler{}
		r := setupWebhookRouter(t, nil, rec)

		payload := eventPayload("evt_3", "checkout.session.completed",
			`{"id":"cs_123","metadata":{"project_id":"proj-1"}}`)
		w := deliver(r, payload, "t=1,v1=deadbeef")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, rec.calls)
	})

	t.Run("unrelated event types are acknowledged and ignored", func(t *testing.T) {
		rec := &recordingReconciler{}
		r := setupWebhookRouter(t, nil, rec)

		payload := eventPayload("evt_4", "invoice.paid", `{"id":"in_123"}`)
		w := deliver(r, payload, signPayload(payload))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, rec.calls)
	})

	t.Run("a session without a project id is acknowledged and ignored", func(t *testing.T) {
		rec := &recordingReconciler{}
		r := setupWebhookRouter(t, nil, rec)

		payload := eventPayload("evt_5", "checkout.session.completed", `{"id":"cs_789","metadata":{}}`)
		w := deliver(r, payload, signPayload(payload))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, rec.calls)
	})

	t.Run("re-delivery of the same event is processed once", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		dedupe := payments.NewEventDedupe(client)

		rec := &recordingReconciler{}
		r := setupWebhookRouter(t, dedupe, rec)

		payload := eventPayload("evt_6", "checkout.session.completed",
			`{"id":"cs_123","metadata":{"project_id":"proj-1"}}`)

		first := deliver(r, payload, signPayload(payload))
		second := deliver(r, payload, signPayload(payload))

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusOK, second.Code)
		assert.Len(t, rec.calls, 1)
	})

	t.Run("a reconciliation failure is still acknowledged", func(t *testing.T) {
		rec := &recordingReconciler{err: assert.AnError}
		r := setupWebhookRouter(t, nil, rec)

		payload := eventPayload("evt_7", "checkout.session.completed",
			`{"id":"cs_123","metadata":{"project_id":"proj-1"}}`)
		w := deliver(r, payload, signPayload(payload))

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, rec.calls, 1)
	})
}
