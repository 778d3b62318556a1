package domain

import "time"

// Transaction defaults applied by the recorder.
const (
	DefaultCampaign = "Donation App General Campaign"
	DefaultFund     = "unrestricted"
	DefaultUTMValue = "unknown"
)

// Transaction is a financial record in the CRM. It is created once per
// processed donation event and never modified afterwards.
type Transaction struct {
	ID            string    `json:"id,omitempty"`
	ConstituentID string    `json:"constituent_id"`
	Amount        float64   `json:"amount"` // Major units
	Currency      Currency  `json:"currency"`
	Campaign      string    `json:"campaign"`
	Fund          string    `json:"fund"`
	PaymentMethod string    `json:"payment_method"`
	UTM           UTM       `json:"utm"`
	ChargeDate    time.Time `json:"charge_date"`
}

// PreferenceType distinguishes contact channels from contact purposes.
type PreferenceType string

const (
	PreferenceChannel PreferenceType = "Channel"
	PreferencePurpose PreferenceType = "Purpose"
)

// Preference names written on every sync.
const (
	PreferenceEmail        = "Email"
	PreferenceMail         = "Mail"
	PreferencePhone        = "Phone"
	PreferenceSMS          = "SMS"
	PreferenceEmailUpdates = "Email Updates"
)

// Preference is one consent entry on a constituent.
type Preference struct {
	Type    PreferenceType `json:"type"`
	Name    string         `json:"name"`
	Allowed bool           `json:"allowed"`
}

// Activity is an append-only typed note on a constituent.
type Activity struct {
	ConstituentID string   `json:"constituent_id"`
	ActivityType  string   `json:"activity_type"`
	Notes         string   `json:"notes"`
	Amount        *float64 `json:"amount,omitempty"`
}

// GiftAidValidity is the fixed lifetime of a declaration.
const GiftAidValidityYears = 100

// GiftAidDeclaration is a UK taxpayer's consent to reclaim tax on a gift.
type GiftAidDeclaration struct {
	TaxPayerTitle     string    `json:"tax_payer_title"`
	TaxPayerFirstName string    `json:"tax_payer_first_name"`
	TaxPayerLastName  string    `json:"tax_payer_last_name"`
	DeclarationDate   time.Time `json:"declaration_date"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
}

// NewGiftAidDeclaration builds a declaration valid from now for the fixed
// validity window.
func NewGiftAidDeclaration(title, firstName, lastName string, now time.Time) GiftAidDeclaration {
	return GiftAidDeclaration{
		TaxPayerTitle:     title,
		TaxPayerFirstName: firstName,
		TaxPayerLastName:  lastName,
		DeclarationDate:   now,
		StartDate:         now,
		EndDate:           now.AddDate(GiftAidValidityYears, 0, 0),
	}
}

// Tag formats a CRM tag in Category_Name form.
func Tag(category, name string) string {
	return category + "_" + name
}
