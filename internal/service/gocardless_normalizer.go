package service

import (
	"context"
	"fmt"

	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports"
)

// GoCardless resource/action pair handled by the pipeline.
const (
	GoCardlessResourcePayments = "payments"
	GoCardlessActionConfirmed  = "confirmed"
)

type gocardlessEvent struct {
	ID           string `json:"id"`
	ResourceType string `json:"resource_type"`
	Action       string `json:"action"`
	Links        struct {
		Payment string `json:"payment"`
	} `json:"links"`
}

// GoCardlessNormalizer implements ports.Normalizer for GoCardless events.
type GoCardlessNormalizer struct {
	gc        ports.GoCardlessClient
	originTag string
}

// NewGoCardlessNormalizer creates a new GoCardlessNormalizer.
func NewGoCardlessNormalizer(gc ports.GoCardlessClient, originTag string) *GoCardlessNormalizer {
	return &GoCardlessNormalizer{gc: gc, originTag: originTag}
}

// Normalize converts one GoCardless batch entry into a donation. The event
// only references the payment, so payment and customer are fetched.
func (n *GoCardlessNormalizer) Normalize(ctx context.Context, env domain.Envelope) (*domain.Donation, error) {
	var evt gocardlessEvent
	if err := decodeObject(env.Raw, &evt); err != nil {
		return nil, err
	}
	if evt.ResourceType != GoCardlessResourcePayments || evt.Action != GoCardlessActionConfirmed {
		return nil, domain.Ignored("unsupported gocardless event %s.%s", evt.ResourceType, evt.Action)
	}
	if evt.Links.Payment == "" {
		return nil, domain.Ignored("gocardless event %s has no payment link", evt.ID)
	}

	payment, err := n.gc.GetPayment(ctx, evt.Links.Payment)
	if err != nil {
		return nil, fmt.Errorf("fetch gocardless payment %s: %w", evt.Links.Payment, err)
	}
	customerID, err := n.gc.GetMandateCustomerID(ctx, payment.MandateID)
	if err != nil {
		return nil, fmt.Errorf("fetch gocardless mandate %s: %w", payment.MandateID, err)
	}
	customer, err := n.gc.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("fetch gocardless customer %s: %w", customerID, err)
	}

	// GoCardless caps metadata per object, so the donation app spreads it
	// over the customer and the payment. Payment values win.
	meta := Metadata(customer.Metadata).Merge(Metadata(payment.Metadata))
	if err := originGuard(meta, n.originTag); err != nil {
		return nil, err
	}

	d := newDonation(env, meta, payer{
		Email:        customer.Email,
		FirstName:    customer.GivenName,
		LastName:     customer.FamilyName,
		Organisation: customer.CompanyName,
		Phone:        customer.Phone,
		Address: domain.Address{
			Line1:    customer.Address.Line1,
			Line2:    customer.Address.Line2,
			Town:     customer.Address.City,
			County:   customer.Address.Region,
			Postcode: customer.Address.PostalCode,
			Country:  customer.Address.Country,
		},
		CustomerID: customer.ID,
	})
	if err := setAmount(d, payment.Amount, payment.Currency); err != nil {
		return nil, err
	}
	d.PaymentMethod = domain.PaymentMethodGoCardless
	d.SubscriptionID = payment.SubscriptionID
	if !payment.ChargeDate.IsZero() {
		charged := payment.ChargeDate
		d.ChargeDate = &charged
	}
	return d, nil
}
