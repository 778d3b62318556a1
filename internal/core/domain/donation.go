package domain

import "time"

// Address is a postal address as captured by the donation form or gateway.
type Address struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	Town     string `json:"town"`
	County   string `json:"county"` // county (UK/ROW) or state (US)
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

// UTM is the marketing attribution triplet carried from a donation link.
type UTM struct {
	Source   string `json:"source"`
	Medium   string `json:"medium"`
	Campaign string `json:"campaign"`
}

// ChannelPreferences holds the donor's contact choices. A nil field means
// the form did not ask or the donor did not answer.
type ChannelPreferences struct {
	Email *bool `json:"email,omitempty"`
	Mail  *bool `json:"mail,omitempty"`
	Phone *bool `json:"phone,omitempty"`
	SMS   *bool `json:"sms,omitempty"`
}

// Donation is the gateway-independent shape every normalizer produces.
type Donation struct {
	Gateway   Gateway `json:"gateway"`
	EventID   string  `json:"event_id"`
	EventType string  `json:"event_type"`
	Test      bool    `json:"test"`

	Email            string  `json:"email"`
	Title            string  `json:"title"`
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	OrganisationName string  `json:"organisation_name"`
	Phone            string  `json:"phone"`
	Address          Address `json:"address"`
	// Metadata-sourced county candidates; the resolver picks one per tenant.
	State       string `json:"state"`
	StateCounty string `json:"state_county"`

	AmountMinor int64    `json:"amount_minor"`
	Currency    Currency `json:"currency"`

	Campaign           string             `json:"campaign"`
	Fund               string             `json:"fund"`
	UTM                UTM                `json:"utm"`
	GiftAid            bool               `json:"gift_aid"`
	Inspiration        string             `json:"inspiration"`
	InspirationDetails string             `json:"inspiration_details"`
	Preferences        ChannelPreferences `json:"preferences"`
	ThankYouTemplate   string             `json:"thank_you_template"`

	PaymentMethod     string     `json:"payment_method"`
	ChargeDate        *time.Time `json:"charge_date,omitempty"` // Backdate for invoice-driven payments
	GatewayCustomerID string     `json:"gateway_customer_id"`
	SubscriptionID    string     `json:"subscription_id"`
}

// AmountMajor returns the amount in major units (10.25 for 1025 cents).
func (d *Donation) AmountMajor() float64 {
	return d.Currency.ToMajor(d.AmountMinor)
}

// FormattedAmount renders the amount for donor-facing copy.
func (d *Donation) FormattedAmount() string {
	return d.Currency.Format(d.AmountMinor)
}

// Links returns the identifiers known before any CRM call.
func (d *Donation) Links() EventLinks {
	return EventLinks{
		GatewayCustomerID: d.GatewayCustomerID,
		SubscriptionID:    d.SubscriptionID,
	}
}
