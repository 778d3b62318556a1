package domain

// ConstituentType distinguishes individual donors from organisations.
type ConstituentType string

const (
	ConstituentIndividual   ConstituentType = "Individual"
	ConstituentOrganisation ConstituentType = "Organisation"
)

// DuplicateMatchThreshold is the lowest duplicate-check score treated as the
// same donor.
const DuplicateMatchThreshold = 15

// Constituent is a donor record in the CRM.
type Constituent struct {
	ID                  string          `json:"id,omitempty"`
	Type                ConstituentType `json:"type"`
	Title               string          `json:"title"`
	FirstName           string          `json:"first_name"`
	LastName            string          `json:"last_name"`
	OrganisationName    string          `json:"organisation_name"`
	AddressLine1        string          `json:"address_line1"`
	AddressLine2        string          `json:"address_line2"`
	Town                string          `json:"town"`
	County              string          `json:"county"`
	Postcode            string          `json:"postcode"`
	Country             string          `json:"country"`
	Email               string          `json:"email"`
	Phone               string          `json:"phone"`
	RecruitmentCampaign string          `json:"recruitment_campaign"`
}

// DuplicateMatch is one candidate returned by the CRM's fuzzy email match.
type DuplicateMatch struct {
	ConstituentID string `json:"constituent_id"`
	Score         int    `json:"score"`
}

// IsMatch reports whether the candidate is confident enough to reuse.
func (m DuplicateMatch) IsMatch() bool {
	return m.Score >= DuplicateMatchThreshold
}

// BestMatch returns the highest-scoring candidate that clears the threshold.
func BestMatch(candidates []DuplicateMatch) (DuplicateMatch, bool) {
	var best DuplicateMatch
	found := false
	for _, c := range candidates {
		if !c.IsMatch() || c.ConstituentID == "" {
			continue
		}
		if !found || c.Score > best.Score {
			best = c
			found = true
		}
	}
	return best, found
}

// MergeConstituent applies update over existing field by field: a non-empty
// update value wins, otherwise the stored value is kept. The recruitment
// campaign records the first campaign a donor came through, so the stored
// value wins there.
func MergeConstituent(existing, update Constituent) Constituent {
	merged := Constituent{
		ID:                  firstNonEmpty(existing.ID, update.ID),
		Type:                ConstituentType(firstNonEmpty(string(existing.Type), string(update.Type))),
		Title:               firstNonEmpty(update.Title, existing.Title),
		FirstName:           firstNonEmpty(update.FirstName, existing.FirstName),
		LastName:            firstNonEmpty(update.LastName, existing.LastName),
		OrganisationName:    firstNonEmpty(update.OrganisationName, existing.OrganisationName),
		AddressLine1:        firstNonEmpty(update.AddressLine1, existing.AddressLine1),
		AddressLine2:        firstNonEmpty(update.AddressLine2, existing.AddressLine2),
		Town:                firstNonEmpty(update.Town, existing.Town),
		County:              firstNonEmpty(update.County, existing.County),
		Postcode:            firstNonEmpty(update.Postcode, existing.Postcode),
		Country:             firstNonEmpty(update.Country, existing.Country),
		Email:               firstNonEmpty(update.Email, existing.Email),
		Phone:               firstNonEmpty(update.Phone, existing.Phone),
		RecruitmentCampaign: firstNonEmpty(existing.RecruitmentCampaign, update.RecruitmentCampaign),
	}
	return merged
}
