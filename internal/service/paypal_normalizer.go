package service

import (
	"context"
	"encoding/json"

	"donor-reconciler/internal/core/domain"
	"donor-reconciler/pkg/apperror"
)

// PayPalCaptureCompleted is the only PayPal event the donation app relays.
const PayPalCaptureCompleted = "PAYMENT.CAPTURE.COMPLETED"

// paypalRelay is the body the donation app posts after a capture: the
// PayPal webhook event plus the form metadata PayPal cannot carry.
type paypalRelay struct {
	ID        string          `json:"id"`
	EventType string          `json:"event_type"`
	Sandbox   bool            `json:"sandbox"`
	Metadata  json.RawMessage `json:"metadata"`
	Resource  struct {
		ID     string `json:"id"`
		Amount struct {
			CurrencyCode string `json:"currency_code"`
			Value        string `json:"value"`
		} `json:"amount"`
	} `json:"resource"`
	Payer struct {
		PayerID      string `json:"payer_id"`
		EmailAddress string `json:"email_address"`
		Name         struct {
			GivenName string `json:"given_name"`
			Surname   string `json:"surname"`
		} `json:"name"`
		Phone struct {
			PhoneNumber struct {
				NationalNumber string `json:"national_number"`
			} `json:"phone_number"`
		} `json:"phone"`
		Address struct {
			AddressLine1 string `json:"address_line_1"`
			AddressLine2 string `json:"address_line_2"`
			AdminArea2   string `json:"admin_area_2"`
			AdminArea1   string `json:"admin_area_1"`
			PostalCode   string `json:"postal_code"`
			CountryCode  string `json:"country_code"`
		} `json:"address"`
	} `json:"payer"`
}

// PayPalNormalizer implements ports.Normalizer for relayed PayPal captures.
type PayPalNormalizer struct {
	originTag string
}

// NewPayPalNormalizer creates a new PayPalNormalizer.
func NewPayPalNormalizer(originTag string) *PayPalNormalizer {
	return &PayPalNormalizer{originTag: originTag}
}

// Normalize converts a relayed PayPal capture into a donation.
func (n *PayPalNormalizer) Normalize(_ context.Context, env domain.Envelope) (*domain.Donation, error) {
	var relay paypalRelay
	if err := decodeObject(env.Raw, &relay); err != nil {
		return nil, err
	}
	if relay.EventType != PayPalCaptureCompleted {
		return nil, domain.Ignored("unsupported paypal event type %q", relay.EventType)
	}

	meta, err := DecodeMetadata(relay.Metadata)
	if err != nil {
		return nil, apperror.ErrInvalidPayload(err)
	}
	if err := originGuard(meta, n.originTag); err != nil {
		return nil, err
	}

	p := relay.Payer
	d := newDonation(env, meta, payer{
		Email:     p.EmailAddress,
		FirstName: p.Name.GivenName,
		LastName:  p.Name.Surname,
		Phone:     p.Phone.PhoneNumber.NationalNumber,
		Address: domain.Address{
			Line1:    p.Address.AddressLine1,
			Line2:    p.Address.AddressLine2,
			Town:     p.Address.AdminArea2,
			County:   p.Address.AdminArea1,
			Postcode: p.Address.PostalCode,
			Country:  p.Address.CountryCode,
		},
		CustomerID: p.PayerID,
	})

	currency, err := domain.ParseCurrency(relay.Resource.Amount.CurrencyCode)
	if err != nil {
		return nil, apperror.ErrInvalidPayload(err)
	}
	minor, err := currency.ParseMajor(relay.Resource.Amount.Value)
	if err != nil {
		return nil, apperror.ErrInvalidPayload(err)
	}
	if err := setAmount(d, minor, string(currency)); err != nil {
		return nil, err
	}
	d.PaymentMethod = domain.PaymentMethodPayPal
	return d, nil
}
