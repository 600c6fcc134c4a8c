package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v78"

	"github.com/modelify-app/modelify-backend/internal/payments"
	projectsdomain "github.com/modelify-app/modelify-backend/internal/projects/domain"
)

// Reconciler is the slice of the project lifecycle the webhook needs.
type Reconciler interface {
	MarkPaid(ctx context.Context, projectID, paymentRef string) error
}

// WebhookHandler receives payment provider callbacks. Only signature
// failures are rejected; every verified event is acknowledged so the
// provider stops retrying, even when we cannot act on it.
type WebhookHandler struct {
	orchestrator *payments.Orchestrator
	dedupe       *payments.EventDedupe
	reconciler   Reconciler
}

func NewWebhookHandler(orchestrator *payments.Orchestrator, dedupe *payments.EventDedupe, reconciler Reconciler) *WebhookHandler {
	return &WebhookHandler{
		orchestrator: orchestrator,
		dedupe:       dedupe,
		reconciler:   reconciler,
	}
}

func (h *WebhookHandler) Register(rg gin.IRouter) {
	rg.POST("/payments/webhook", h.handle)
}

func (h *WebhookHandler) handle(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read payload"})
		return
	}

	event, err := h.orchestrator.ParseEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		log.Printf("webhook: signature verification failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	h.process(c.Request.Context(), event)

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// process applies a verified event. Failures are logged, never surfaced:
// returning an error here would only trigger pointless provider retries.
func (h *WebhookHandler) process(ctx context.Context, event stripe.Event) {
	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return
	}

	if h.dedupe.Seen(ctx, event.ID) {
		log.Printf("webhook: event %s already processed", event.ID)
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Printf("webhook: event %s: malformed session payload: %v", event.ID, err)
		return
	}

	projectID := session.Metadata["project_id"]
	if projectID == "" {
		log.Printf("webhook: event %s carries no project_id", event.ID)
		return
	}

	paymentRef := session.ID
	if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
		paymentRef = session.PaymentIntent.ID
	}

	if err := h.reconciler.MarkPaid(ctx, projectID, paymentRef); err != nil {
		if errors.Is(err, projectsdomain.ErrNotFound) {
			log.Printf("webhook: event %s references unknown project %s", event.ID, projectID)
			return
		}
		log.Printf("webhook: event %s: mark project %s paid: %v", event.ID, projectID, err)
	}
}
