package service

import (
	"context"
	"fmt"
	"strings"

	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports"

	"github.com/rs/zerolog"
)

// defaultProject is the project copy shown to donors who chose no fund. The
// transaction itself records domain.DefaultFund.
const defaultProject = "Unrestricted"

// ThankYouTemplates are the per-currency thank-you templates.
type ThankYouTemplates struct {
	GBP     string
	USD     string
	Default string
}

// ThankYouService sends the generic donor thank-you email.
type ThankYouService struct {
	mailer    ports.Mailer
	templates ThankYouTemplates
	excluded  map[string]bool
	log       zerolog.Logger
}

// NewThankYouService creates a new ThankYouService. Campaigns in excluded
// send their own notification and get no generic thank-you.
func NewThankYouService(mailer ports.Mailer, templates ThankYouTemplates, excluded []string, log zerolog.Logger) *ThankYouService {
	set := make(map[string]bool, len(excluded))
	for _, c := range excluded {
		if c = strings.TrimSpace(c); c != "" {
			set[c] = true
		}
	}
	return &ThankYouService{mailer: mailer, templates: templates, excluded: set, log: log}
}

// Excluded reports whether the campaign is on the exclusion list.
func (s *ThankYouService) Excluded(campaign string) bool {
	return s.excluded[campaign]
}

// Template resolves the template: metadata override, then currency.
func (s *ThankYouService) Template(d *domain.Donation) string {
	if d.ThankYouTemplate != "" {
		return d.ThankYouTemplate
	}
	switch d.Currency {
	case domain.CurrencyGBP:
		return s.templates.GBP
	case domain.CurrencyUSD:
		return s.templates.USD
	default:
		return s.templates.Default
	}
}

// Send emails the donor unless the campaign is excluded. It reports whether
// an email was sent.
func (s *ThankYouService) Send(ctx context.Context, d *domain.Donation) (bool, error) {
	if s.Excluded(d.Campaign) {
		s.log.Debug().Str("campaign", d.Campaign).Msg("campaign excluded from generic thank-you")
		return false, nil
	}
	if d.Email == "" {
		s.log.Warn().Msg("donation has no email, skipping thank-you")
		return false, nil
	}

	msg := ports.TemplateMessage{
		Template: s.Template(d),
		ToEmail:  d.Email,
		ToName:   strings.TrimSpace(d.FirstName + " " + d.LastName),
		Vars:     DonorVars(d),
		Tags:     []string{"thank-you", string(d.Gateway)},
	}
	if err := s.mailer.SendTemplate(ctx, msg); err != nil {
		return false, fmt.Errorf("send thank-you: %w", err)
	}
	return true, nil
}

// DonorVars are the merge variables every donor-facing template receives.
func DonorVars(d *domain.Donation) map[string]string {
	return map[string]string{
		"first_name": d.FirstName,
		"amount":     d.FormattedAmount(),
		"campaign":   orDefault(d.Campaign, domain.DefaultCampaign),
		"project":    orDefault(d.Fund, defaultProject),
	}
}
