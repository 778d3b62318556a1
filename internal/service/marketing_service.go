package service

import (
	"context"
	"errors"
	"fmt"

	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports"

	"github.com/rs/zerolog"
)

// Marketing list tags.
const (
	TagDonor  = "Donor"
	TagLapsed = "Lapsed"
)

// Member statuses used when a donor is first added to a list.
const (
	memberSubscribed    = "subscribed"
	memberTransactional = "transactional"
)

// MarketingService keeps the email-marketing list in step with donations.
type MarketingService struct {
	em    ports.EmailMarketing
	lists map[domain.Instance]string
	prefs *PreferenceService
	log   zerolog.Logger
}

// NewMarketingService creates a new MarketingService. lists maps each CRM
// tenant to its marketing list id.
func NewMarketingService(em ports.EmailMarketing, lists map[domain.Instance]string, prefs *PreferenceService, log zerolog.Logger) *MarketingService {
	return &MarketingService{em: em, lists: lists, prefs: prefs, log: log}
}

// Sync subscribes or updates the donor and refreshes their tags. A donor
// missing from the list when the lapsed tag is removed is not an error.
func (s *MarketingService) Sync(ctx context.Context, instance domain.Instance, d *domain.Donation) error {
	listID := s.lists[instance]
	if listID == "" {
		s.log.Warn().Str("crm_instance", string(instance)).Msg("no marketing list configured, skipping")
		return nil
	}
	if d.Email == "" {
		s.log.Warn().Msg("donation has no email, skipping marketing sync")
		return nil
	}

	status := memberTransactional
	for _, p := range s.prefs.Build(instance, d.Preferences) {
		if p.Name == domain.PreferenceEmailUpdates && p.Allowed {
			status = memberSubscribed
		}
	}

	member := ports.MarketingMember{
		Email:     d.Email,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Status:    status,
	}
	if err := s.em.UpsertMember(ctx, listID, member); err != nil {
		return fmt.Errorf("upsert list member: %w", err)
	}

	tags := []string{orDefault(d.Campaign, domain.DefaultCampaign), TagDonor}
	if err := s.em.AddTags(ctx, listID, d.Email, tags); err != nil {
		return fmt.Errorf("add list tags: %w", err)
	}

	err := s.em.RemoveTags(ctx, listID, d.Email, []string{TagLapsed})
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.log.Info().Str("list_id", listID).Msg("list member not found when removing lapsed tag, continuing")
	case err != nil:
		return fmt.Errorf("remove lapsed tag: %w", err)
	}
	return nil
}
