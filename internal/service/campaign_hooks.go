package service

import (
	"context"
	"fmt"
	"strings"

	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports"

	"github.com/rs/zerolog"
)

// CampaignHook is the extra work a named campaign asks for.
type CampaignHook struct {
	Campaign      string
	Tags          []string // Extra CRM tags, Category_Name form
	DonorTemplate string   // Bespoke donor thank-you; replaces the generic one
	AdminTemplate string   // Notification to the admin address
}

// CampaignHooks dispatches campaign-specific side effects by exact name.
type CampaignHooks struct {
	hooks        map[string]CampaignHook
	mailer       ports.Mailer
	adminAddress string
	log          zerolog.Logger
}

// NewCampaignHooks creates the hook registry.
func NewCampaignHooks(hooks []CampaignHook, mailer ports.Mailer, adminAddress string, log zerolog.Logger) *CampaignHooks {
	byName := make(map[string]CampaignHook, len(hooks))
	for _, h := range hooks {
		byName[h.Campaign] = h
	}
	return &CampaignHooks{hooks: byName, mailer: mailer, adminAddress: adminAddress, log: log}
}

// Lookup returns the hook registered for campaign.
func (h *CampaignHooks) Lookup(campaign string) (CampaignHook, bool) {
	hook, ok := h.hooks[campaign]
	return hook, ok
}

// DonorEmailCampaigns lists campaigns whose hook sends its own donor email.
func (h *CampaignHooks) DonorEmailCampaigns() []string {
	var out []string
	for name, hook := range h.hooks {
		if hook.DonorTemplate != "" {
			out = append(out, name)
		}
	}
	return out
}

// Run executes the hook for the donation's campaign. It reports whether a
// hook was found; unknown campaigns are logged and skipped.
func (h *CampaignHooks) Run(ctx context.Context, client ports.CRMClient, constituentID string, d *domain.Donation) (bool, error) {
	if d.Campaign == "" {
		return false, nil
	}
	hook, ok := h.Lookup(d.Campaign)
	if !ok {
		h.log.Info().Str("campaign", d.Campaign).Msg("no campaign hook registered")
		return false, nil
	}

	if len(hook.Tags) > 0 {
		if err := client.AddTags(ctx, constituentID, hook.Tags); err != nil {
			return true, fmt.Errorf("campaign tags: %w", err)
		}
	}

	if hook.DonorTemplate != "" && d.Email != "" {
		msg := ports.TemplateMessage{
			Template: hook.DonorTemplate,
			ToEmail:  d.Email,
			ToName:   strings.TrimSpace(d.FirstName + " " + d.LastName),
			Vars:     DonorVars(d),
			Tags:     []string{"campaign", hook.Campaign},
		}
		if err := h.mailer.SendTemplate(ctx, msg); err != nil {
			return true, fmt.Errorf("campaign donor email: %w", err)
		}
	}

	if hook.AdminTemplate != "" && h.adminAddress != "" {
		vars := DonorVars(d)
		vars["donor_email"] = d.Email
		vars["donor_name"] = strings.TrimSpace(d.FirstName + " " + d.LastName)
		vars["constituent_id"] = constituentID
		vars["gateway"] = string(d.Gateway)
		msg := ports.TemplateMessage{
			Template: hook.AdminTemplate,
			ToEmail:  h.adminAddress,
			Vars:     vars,
			Tags:     []string{"campaign-admin", hook.Campaign},
		}
		if err := h.mailer.SendTemplate(ctx, msg); err != nil {
			return true, fmt.Errorf("campaign admin email: %w", err)
		}
	}
	return true, nil
}
