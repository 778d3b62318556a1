package domain

// Instance is a regional CRM tenant.
type Instance string

const (
	InstanceUK      Instance = "uk"
	InstanceUS      Instance = "us"
	InstanceROW     Instance = "row"
	InstanceSandbox Instance = "sandbox"
)

// SelectInstance picks the CRM tenant for an event. It depends only on the
// currency and gateway and is evaluated once per event: GoCardless Direct
// Debit is a UK bank scheme, GBP goes to the UK tenant, USD to the US tenant
// and everything else to the rest-of-world tenant.
func SelectInstance(currency Currency, gateway Gateway) Instance {
	switch {
	case gateway == GatewayGoCardless:
		return InstanceUK
	case currency == CurrencyGBP:
		return InstanceUK
	case currency == CurrencyUSD:
		return InstanceUS
	default:
		return InstanceROW
	}
}

// CountyField names the donation metadata key holding the county/state
// attribute for this tenant.
func (i Instance) CountyField() string {
	if i == InstanceUS {
		return "state"
	}
	return "stateCounty"
}
