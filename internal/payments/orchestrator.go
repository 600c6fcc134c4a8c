package payments

import (
	"context"
	"fmt"
	"log"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"
	"golang.org/x/time/rate"

	"github.com/modelify-app/modelify-backend/config"
	"github.com/modelify-app/modelify-backend/internal/users/repository"
)

// Orchestrator wraps the payment provider: billing customers, quotes and
// checkout sessions. All outbound calls share one rate limiter so a burst of
// requests cannot trip the provider's limits.
type Orchestrator struct {
	api           *client.API
	users         *repository.UserRepository
	limiter       *rate.Limiter
	webhookSecret string
	frontendURL   string
}

func NewOrchestrator(cfg *config.StripeConfig, frontendURL string, users *repository.UserRepository) *Orchestrator {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &Orchestrator{
		api:           api,
		users:         users,
		limiter:       rate.NewLimiter(rate.Limit(10), 20),
		webhookSecret: cfg.WebhookSecret,
		frontendURL:   frontendURL,
	}
}

// EnsureCustomer returns the user's billing customer id, creating the
// customer on first use. The id is cached on the user row; a concurrent
// first-time call can still race the lookup and create a duplicate customer,
// which the provider tolerates.
func (o *Orchestrator) EnsureCustomer(ctx context.Context, userID string) (string, error) {
	user, err := o.users.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load user %s: %w", userID, err)
	}

	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return *user.StripeCustomerID, nil
	}

	if err := o.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var customerID string
	listParams := &stripe.CustomerListParams{Email: stripe.String(user.Email)}
	listParams.Limit = stripe.Int64(1)
	iter := o.api.Customers.List(listParams)
	if iter.Next() {
		customerID = iter.Customer().ID
	} else if err := iter.Err(); err != nil {
		return "", fmt.Errorf("list customers: %w", err)
	}

	if customerID == "" {
		params := &stripe.CustomerParams{
			Email: stripe.String(user.Email),
			Name:  stripe.String(user.DisplayName()),
		}
		params.AddMetadata("user_id", user.ID)

		customer, err := o.api.Customers.New(params)
		if err != nil {
			return "", fmt.Errorf("create customer: %w", err)
		}
		customerID = customer.ID
	}

	// Cache failure is not fatal: the id is re-derivable from the email.
	if err := o.users.SetStripeCustomerID(ctx, user.ID, customerID); err != nil {
		log.Printf("payments: cache customer id for %s: %v", user.ID, err)
	}

	return customerID, nil
}

// IssueQuote creates a one-off price for the amount and wraps it in a
// finalized, immediately referenceable quote. Amount is in major units
// (euros); the provider wants cents.
func (o *Orchestrator) IssueQuote(ctx context.Context, customerID string, amount float64, label string) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return "", err
	}

	amountCents := int64(amount * 100)

	price, err := o.api.Prices.New(&stripe.PriceParams{
		UnitAmount: stripe.Int64(amountCents),
		Currency:   stripe.String(string(stripe.CurrencyEUR)),
		ProductData: &stripe.PriceProductDataParams{
			Name: stripe.String(fmt.Sprintf("Projet : %s", label)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("create price: %w", err)
	}

	quote, err := o.api.Quotes.New(&stripe.QuoteParams{
		Customer: stripe.String(customerID),
		LineItems: []*stripe.QuoteLineItemParams{
			{
				Price:    stripe.String(price.ID),
				Quantity: stripe.Int64(1),
			},
		},
		Description:      stripe.String(fmt.Sprintf("Devis pour le projet %s", label)),
		CollectionMethod: stripe.String(string(stripe.QuoteCollectionMethodSendInvoice)),
		InvoiceSettings: &stripe.QuoteInvoiceSettingsParams{
			DaysUntilDue: stripe.Int64(30),
		},
	})
	if err != nil {
		return "", fmt.Errorf("create quote: %w", err)
	}

	finalized, err := o.api.Quotes.FinalizeQuote(quote.ID, &stripe.QuoteFinalizeQuoteParams{})
	if err != nil {
		return "", fmt.Errorf("finalize quote: %w", err)
	}

	return finalized.ID, nil
}

// StartCheckout creates a hosted payment session for the project. The
// project id rides along in the session metadata so the asynchronous
// confirmation can be correlated back.
func (o *Orchestrator) StartCheckout(ctx context.Context, customerID string, amount float64, label, projectID string) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return "", err
	}

	amountCents := int64(amount * 100)

	params := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(customerID),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyEUR)),
					UnitAmount: stripe.Int64(amountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Projet : %s", label)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(o.frontendURL + "/payment/success?project=" + projectID),
		CancelURL:  stripe.String(o.frontendURL + "/payment/cancel?project=" + projectID),
	}
	params.AddMetadata("project_id", projectID)
	params.AddMetadata("type", "project_payment")

	session, err := o.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	return session.URL, nil
}

// ParseEvent verifies the webhook payload against the signing secret.
func (o *Orchestrator) ParseEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, o.webhookSecret)
}
