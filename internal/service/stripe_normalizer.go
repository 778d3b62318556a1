package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports"
	"donor-reconciler/pkg/apperror"
)

// Stripe event types handled by the pipeline.
const (
	StripeCheckoutCompleted   = "checkout.session.completed"
	StripeSubscriptionCreated = "customer.subscription.created"
	StripeInvoicePaid         = "invoice.paid"
)

const (
	stripeBillingReasonCreate   = "subscription_create"
	stripeBillingReasonCycle    = "subscription_cycle"
	stripeCheckoutModePayment   = "payment"
	stripeCheckoutModeRecurring = "subscription"
)

type stripeEvent struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Livemode bool   `json:"livemode"`
	Data     struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type stripeAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (a stripeAddress) toDomain() domain.Address {
	return domain.Address{
		Line1:    a.Line1,
		Line2:    a.Line2,
		Town:     a.City,
		County:   a.State,
		Postcode: a.PostalCode,
		Country:  a.Country,
	}
}

type stripeCheckoutSession struct {
	ID              string          `json:"id"`
	Mode            string          `json:"mode"`
	AmountTotal     int64           `json:"amount_total"`
	Currency        string          `json:"currency"`
	Customer        string          `json:"customer"`
	Metadata        json.RawMessage `json:"metadata"`
	CustomerDetails struct {
		Email   string        `json:"email"`
		Name    string        `json:"name"`
		Phone   string        `json:"phone"`
		Address stripeAddress `json:"address"`
	} `json:"customer_details"`
}

type stripeSubscriptionObject struct {
	ID       string          `json:"id"`
	Customer string          `json:"customer"`
	Currency string          `json:"currency"`
	Metadata json.RawMessage `json:"metadata"`
	Items    struct {
		Data []struct {
			Quantity int64 `json:"quantity"`
			Price    struct {
				UnitAmount int64  `json:"unit_amount"`
				Currency   string `json:"currency"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

type stripeInvoice struct {
	ID                  string         `json:"id"`
	BillingReason       string         `json:"billing_reason"`
	AmountPaid          int64          `json:"amount_paid"`
	Currency            string         `json:"currency"`
	Customer            string         `json:"customer"`
	CustomerEmail       string         `json:"customer_email"`
	CustomerName        string         `json:"customer_name"`
	CustomerPhone       string         `json:"customer_phone"`
	CustomerAddress     *stripeAddress `json:"customer_address"`
	Created             int64          `json:"created"`
	Subscription        string         `json:"subscription"`
	SubscriptionDetails struct {
		Metadata json.RawMessage `json:"metadata"`
	} `json:"subscription_details"`
}

// StripeNormalizer implements ports.Normalizer for Stripe events.
type StripeNormalizer struct {
	stripe    ports.StripeClient
	originTag string
}

// NewStripeNormalizer creates a new StripeNormalizer.
func NewStripeNormalizer(stripe ports.StripeClient, originTag string) *StripeNormalizer {
	return &StripeNormalizer{stripe: stripe, originTag: originTag}
}

// Normalize converts a Stripe event into a donation.
func (n *StripeNormalizer) Normalize(ctx context.Context, env domain.Envelope) (*domain.Donation, error) {
	var evt stripeEvent
	if err := decodeObject(env.Raw, &evt); err != nil {
		return nil, err
	}

	switch evt.Type {
	case StripeCheckoutCompleted:
		return n.checkout(env, evt.Data.Object)
	case StripeSubscriptionCreated:
		return n.subscription(ctx, env, evt.Data.Object)
	case StripeInvoicePaid:
		return n.invoice(ctx, env, evt.Data.Object)
	default:
		return nil, domain.Ignored("unsupported stripe event type %q", evt.Type)
	}
}

func (n *StripeNormalizer) checkout(env domain.Envelope, raw json.RawMessage) (*domain.Donation, error) {
	var session stripeCheckoutSession
	if err := decodeObject(raw, &session); err != nil {
		return nil, err
	}
	meta, err := DecodeMetadata(session.Metadata)
	if err != nil {
		return nil, apperror.ErrInvalidPayload(err)
	}
	if err := originGuard(meta, n.originTag); err != nil {
		return nil, err
	}
	// Recurring checkouts are reconciled from customer.subscription.created.
	if session.Mode == stripeCheckoutModeRecurring {
		return nil, domain.Ignored("checkout session %s is in subscription mode", session.ID)
	}
	if session.Mode != stripeCheckoutModePayment {
		return nil, domain.Ignored("checkout session %s has unsupported mode %q", session.ID, session.Mode)
	}

	first, last := splitName(session.CustomerDetails.Name)
	d := newDonation(env, meta, payer{
		Email:      session.CustomerDetails.Email,
		FirstName:  first,
		LastName:   last,
		Phone:      session.CustomerDetails.Phone,
		Address:    session.CustomerDetails.Address.toDomain(),
		CustomerID: session.Customer,
	})
	if err := setAmount(d, session.AmountTotal, session.Currency); err != nil {
		return nil, err
	}
	d.PaymentMethod = domain.PaymentMethodStripeCheckout
	return d, nil
}

func (n *StripeNormalizer) subscription(ctx context.Context, env domain.Envelope, raw json.RawMessage) (*domain.Donation, error) {
	var sub stripeSubscriptionObject
	if err := decodeObject(raw, &sub); err != nil {
		return nil, err
	}
	meta, err := DecodeMetadata(sub.Metadata)
	if err != nil {
		return nil, apperror.ErrInvalidPayload(err)
	}
	if err := originGuard(meta, n.originTag); err != nil {
		return nil, err
	}

	customer, err := n.stripe.GetCustomer(ctx, sub.Customer)
	if err != nil {
		return nil, fmt.Errorf("fetch stripe customer %s: %w", sub.Customer, err)
	}

	var amount int64
	currency := sub.Currency
	for _, item := range sub.Items.Data {
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		amount += item.Price.UnitAmount * qty
		if currency == "" {
			currency = item.Price.Currency
		}
	}

	d := newDonation(env, meta, customerPayer(customer))
	if err := setAmount(d, amount, currency); err != nil {
		return nil, err
	}
	d.PaymentMethod = domain.PaymentMethodStripeSubscription
	d.SubscriptionID = sub.ID
	return d, nil
}

func (n *StripeNormalizer) invoice(ctx context.Context, env domain.Envelope, raw json.RawMessage) (*domain.Donation, error) {
	var inv stripeInvoice
	if err := decodeObject(raw, &inv); err != nil {
		return nil, err
	}
	switch inv.BillingReason {
	case stripeBillingReasonCycle:
	case stripeBillingReasonCreate:
		// The first payment is reconciled from customer.subscription.created.
		return nil, domain.Ignored("invoice %s opens a subscription", inv.ID)
	default:
		return nil, domain.Ignored("invoice %s has unsupported billing reason %q", inv.ID, inv.BillingReason)
	}

	meta, err := DecodeMetadata(inv.SubscriptionDetails.Metadata)
	if err != nil {
		return nil, apperror.ErrInvalidPayload(err)
	}
	if len(meta) == 0 && inv.Subscription != "" {
		sub, err := n.stripe.GetSubscription(ctx, inv.Subscription)
		if err != nil {
			return nil, fmt.Errorf("fetch stripe subscription %s: %w", inv.Subscription, err)
		}
		meta = Metadata(sub.Metadata)
	}
	if err := originGuard(meta, n.originTag); err != nil {
		return nil, err
	}

	p := payer{
		Email:      inv.CustomerEmail,
		Phone:      inv.CustomerPhone,
		CustomerID: inv.Customer,
	}
	p.FirstName, p.LastName = splitName(inv.CustomerName)
	if inv.CustomerAddress != nil {
		p.Address = inv.CustomerAddress.toDomain()
	}
	if p.Email == "" {
		customer, err := n.stripe.GetCustomer(ctx, inv.Customer)
		if err != nil {
			return nil, fmt.Errorf("fetch stripe customer %s: %w", inv.Customer, err)
		}
		p = customerPayer(customer)
	}

	d := newDonation(env, meta, p)
	if err := setAmount(d, inv.AmountPaid, inv.Currency); err != nil {
		return nil, err
	}
	d.PaymentMethod = domain.PaymentMethodStripeSubscription
	d.SubscriptionID = inv.Subscription
	if inv.Created > 0 {
		created := time.Unix(inv.Created, 0).UTC()
		d.ChargeDate = &created
	}
	return d, nil
}

func customerPayer(c *ports.StripeCustomer) payer {
	first, last := splitName(c.Name)
	return payer{
		Email:     c.Email,
		FirstName: first,
		LastName:  last,
		Phone:     c.Phone,
		Address: domain.Address{
			Line1:    c.Address.Line1,
			Line2:    c.Address.Line2,
			Town:     c.Address.City,
			County:   c.Address.Region,
			Postcode: c.Address.PostalCode,
			Country:  c.Address.Country,
		},
		CustomerID: c.ID,
	}
}
