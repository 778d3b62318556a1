package service

import (
	"context"
	"errors"
	"fmt"

	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports"

	"github.com/rs/zerolog"
)

// Resolution is the outcome of constituent resolution.
type Resolution struct {
	ConstituentID  string
	AlreadyExisted bool
	Existing       *domain.Constituent // Stored record before the merge, update path only
}

// ResolverService finds or creates the CRM constituent for a donation.
type ResolverService struct {
	log zerolog.Logger
}

// NewResolverService creates a new ResolverService.
func NewResolverService(log zerolog.Logger) *ResolverService {
	return &ResolverService{log: log}
}

// FindDuplicate runs the CRM fuzzy email match and returns the best
// candidate at or above the match threshold, or nil.
func (s *ResolverService) FindDuplicate(ctx context.Context, client ports.CRMClient, email string) (*domain.DuplicateMatch, error) {
	if email == "" {
		return nil, nil
	}
	candidates, err := client.DuplicateCheck(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	best, ok := domain.BestMatch(candidates)
	if !ok {
		return nil, nil
	}
	return &best, nil
}

// Upsert updates the matched constituent or creates a new one.
func (s *ResolverService) Upsert(ctx context.Context, client ports.CRMClient, d *domain.Donation, match *domain.DuplicateMatch) (*Resolution, error) {
	incoming := ConstituentFromDonation(client.Instance(), d)

	if match != nil {
		existing, err := client.GetConstituent(ctx, match.ConstituentID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			s.log.Warn().Str("constituent_id", match.ConstituentID).Msg("matched constituent no longer exists, creating a new one")
		case err != nil:
			return nil, fmt.Errorf("get constituent %s: %w", match.ConstituentID, err)
		default:
			merged := domain.MergeConstituent(*existing, incoming)
			merged.ID = match.ConstituentID
			if err := client.UpdateConstituent(ctx, merged); err != nil {
				return nil, fmt.Errorf("update constituent %s: %w", match.ConstituentID, err)
			}
			return &Resolution{
				ConstituentID:  match.ConstituentID,
				AlreadyExisted: true,
				Existing:       existing,
			}, nil
		}
	}

	id, err := client.CreateConstituent(ctx, incoming)
	if err != nil {
		return nil, fmt.Errorf("create constituent: %w", err)
	}
	return &Resolution{ConstituentID: id}, nil
}

// ConstituentFromDonation maps a donation onto the CRM constituent shape.
// Missing fields stay "" so the create call always sends a full record.
func ConstituentFromDonation(instance domain.Instance, d *domain.Donation) domain.Constituent {
	county := d.StateCounty
	if instance.CountyField() == "state" {
		county = d.State
	}
	if county == "" {
		county = d.Address.County
	}

	kind := domain.ConstituentIndividual
	if d.OrganisationName != "" {
		kind = domain.ConstituentOrganisation
	}

	campaign := d.Campaign
	if campaign == "" {
		campaign = domain.DefaultCampaign
	}

	return domain.Constituent{
		Type:                kind,
		Title:               d.Title,
		FirstName:           d.FirstName,
		LastName:            d.LastName,
		OrganisationName:    d.OrganisationName,
		AddressLine1:        d.Address.Line1,
		AddressLine2:        d.Address.Line2,
		Town:                d.Address.Town,
		County:              county,
		Postcode:            d.Address.Postcode,
		Country:             d.Address.Country,
		Email:               d.Email,
		Phone:               d.Phone,
		RecruitmentCampaign: campaign,
	}
}
