package service

import (
	"context"
	"fmt"

	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports"
)

// PreferenceService writes the donor's contact preferences.
type PreferenceService struct{}

// NewPreferenceService creates a new PreferenceService.
func NewPreferenceService() *PreferenceService {
	return &PreferenceService{}
}

// Build returns the complete five-entry preference set. The US tenant runs
// an opt-out consent model, so every entry is allowed there. Elsewhere an
// unanswered question is a refusal.
func (s *PreferenceService) Build(instance domain.Instance, prefs domain.ChannelPreferences) []domain.Preference {
	allowed := func(v *bool) bool {
		if instance == domain.InstanceUS {
			return true
		}
		return v != nil && *v
	}

	return []domain.Preference{
		{Type: domain.PreferenceChannel, Name: domain.PreferenceEmail, Allowed: allowed(prefs.Email)},
		{Type: domain.PreferenceChannel, Name: domain.PreferenceMail, Allowed: allowed(prefs.Mail)},
		{Type: domain.PreferenceChannel, Name: domain.PreferencePhone, Allowed: allowed(prefs.Phone)},
		{Type: domain.PreferenceChannel, Name: domain.PreferenceSMS, Allowed: allowed(prefs.SMS)},
		{Type: domain.PreferencePurpose, Name: domain.PreferenceEmailUpdates, Allowed: allowed(prefs.Email)},
	}
}

// Apply writes the preference set for a constituent.
func (s *PreferenceService) Apply(ctx context.Context, client ports.CRMClient, constituentID string, d *domain.Donation) error {
	prefs := s.Build(client.Instance(), d.Preferences)
	if err := client.UpdatePreferences(ctx, constituentID, prefs); err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	return nil
}
