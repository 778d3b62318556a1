package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"donor-reconciler/internal/core/domain"
	"donor-reconciler/pkg/apperror"
)

// Metadata keys stamped by the donation app on every gateway object.
const (
	metaOrigin             = "origin"
	metaEmail              = "email"
	metaTitle              = "title"
	metaFirstName          = "firstName"
	metaLastName           = "lastName"
	metaOrganisationName   = "organisationName"
	metaPhone              = "phone"
	metaAddressLine1       = "addressLine1"
	metaAddressLine2       = "addressLine2"
	metaTown               = "town"
	metaPostcode           = "postcode"
	metaCountry            = "country"
	metaState              = "state"
	metaStateCounty        = "stateCounty"
	metaCampaign           = "campaign"
	metaFund               = "fund"
	metaUTMSource          = "utmSource"
	metaUTMMedium          = "utmMedium"
	metaUTMCampaign        = "utmCampaign"
	metaGiftAid            = "giftAid"
	metaInspiration        = "inspiration"
	metaInspirationDetails = "inspirationDetails"
	metaEmailPreference    = "emailPreference"
	metaMailPreference     = "mailPreference"
	metaPhonePreference    = "phonePreference"
	metaSMSPreference      = "smsPreference"
	metaThankYouTemplate   = "thankYouTemplate"
)

// Metadata is the string bag a gateway object carries. Values are trimmed
// and JSON nulls are dropped when decoded.
type Metadata map[string]string

// DecodeMetadata converts a raw metadata object. Non-string scalars are kept
// in their JSON text form so `true` and `"true"` read the same.
func DecodeMetadata(raw json.RawMessage) (Metadata, error) {
	meta := Metadata{}
	if len(raw) == 0 || string(raw) == "null" {
		return meta, nil
	}
	var bag map[string]any
	if err := json.Unmarshal(raw, &bag); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	for k, v := range bag {
		switch val := v.(type) {
		case nil:
		case string:
			meta[k] = strings.TrimSpace(val)
		case bool:
			meta[k] = strconv.FormatBool(val)
		case float64:
			meta[k] = strconv.FormatFloat(val, 'f', -1, 64)
		}
	}
	return meta, nil
}

// Get returns the value for key or "".
func (m Metadata) Get(key string) string {
	return m[key]
}

// Bool parses a "true"/"false" flag. Absent or unrecognised values are nil.
func (m Metadata) Bool(key string) *bool {
	var b bool
	switch strings.ToLower(m[key]) {
	case "true", "yes", "1":
		b = true
	case "false", "no", "0":
		b = false
	default:
		return nil
	}
	return &b
}

// Flag is Bool with absent treated as false.
func (m Metadata) Flag(key string) bool {
	b := m.Bool(key)
	return b != nil && *b
}

// Merge returns a copy of m overlaid with non-empty values from over.
func (m Metadata) Merge(over Metadata) Metadata {
	out := make(Metadata, len(m)+len(over))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range over {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// payer holds the gateway's own contact fields, the second link of the
// field fallback chain after metadata.
type payer struct {
	Email        string
	FirstName    string
	LastName     string
	Organisation string
	Phone        string
	Address      domain.Address
	CustomerID   string
}

// originGuard rejects objects not created by the donation app.
func originGuard(meta Metadata, originTag string) error {
	if got := meta.Get(metaOrigin); got != originTag {
		return domain.Ignored("origin marker %q does not match %q", got, originTag)
	}
	return nil
}

// newDonation assembles the canonical donation from metadata first and the
// gateway payer fields second.
func newDonation(env domain.Envelope, meta Metadata, p payer) *domain.Donation {
	return &domain.Donation{
		Gateway:   env.Gateway,
		EventID:   env.EventID,
		EventType: env.EventType,
		Test:      env.Test,

		Email:            strings.ToLower(firstOf(meta.Get(metaEmail), p.Email)),
		Title:            meta.Get(metaTitle),
		FirstName:        firstOf(meta.Get(metaFirstName), p.FirstName),
		LastName:         firstOf(meta.Get(metaLastName), p.LastName),
		OrganisationName: firstOf(meta.Get(metaOrganisationName), p.Organisation),
		Phone:            firstOf(meta.Get(metaPhone), p.Phone),
		Address: domain.Address{
			Line1:    firstOf(meta.Get(metaAddressLine1), p.Address.Line1),
			Line2:    firstOf(meta.Get(metaAddressLine2), p.Address.Line2),
			Town:     firstOf(meta.Get(metaTown), p.Address.Town),
			County:   p.Address.County,
			Postcode: firstOf(meta.Get(metaPostcode), p.Address.Postcode),
			Country:  firstOf(meta.Get(metaCountry), p.Address.Country),
		},
		State:       meta.Get(metaState),
		StateCounty: meta.Get(metaStateCounty),

		Campaign: meta.Get(metaCampaign),
		Fund:     meta.Get(metaFund),
		UTM: domain.UTM{
			Source:   meta.Get(metaUTMSource),
			Medium:   meta.Get(metaUTMMedium),
			Campaign: meta.Get(metaUTMCampaign),
		},
		GiftAid:            meta.Flag(metaGiftAid),
		Inspiration:        meta.Get(metaInspiration),
		InspirationDetails: meta.Get(metaInspirationDetails),
		Preferences: domain.ChannelPreferences{
			Email: meta.Bool(metaEmailPreference),
			Mail:  meta.Bool(metaMailPreference),
			Phone: meta.Bool(metaPhonePreference),
			SMS:   meta.Bool(metaSMSPreference),
		},
		ThankYouTemplate:  meta.Get(metaThankYouTemplate),
		GatewayCustomerID: p.CustomerID,
	}
}

// setAmount validates and stores the minor-unit amount and currency.
func setAmount(d *domain.Donation, minor int64, rawCurrency string) error {
	currency, err := domain.ParseCurrency(rawCurrency)
	if err != nil {
		return apperror.ErrInvalidPayload(err)
	}
	if minor <= 0 {
		return domain.Ignored("non-positive amount %d", minor)
	}
	d.AmountMinor = minor
	d.Currency = currency
	return nil
}

// splitName splits a single "full name" field into first and last names.
func splitName(full string) (string, string) {
	fields := strings.Fields(full)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func decodeObject(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return apperror.ErrInvalidPayload(err)
	}
	return nil
}
