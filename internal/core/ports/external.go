package ports

import (
	"context"
	"time"

	"donor-reconciler/internal/core/domain"
)

// CRMClient is one long-lived client bound to a single CRM tenant.
// None of its calls are idempotent.
type CRMClient interface {
	Instance() domain.Instance

	DuplicateCheck(ctx context.Context, email string) ([]domain.DuplicateMatch, error)
	CreateConstituent(ctx context.Context, c domain.Constituent) (string, error)
	GetConstituent(ctx context.Context, id string) (*domain.Constituent, error)
	UpdateConstituent(ctx context.Context, c domain.Constituent) error
	DeleteConstituent(ctx context.Context, id string) error

	GetPreferences(ctx context.Context, constituentID string) ([]domain.Preference, error)
	UpdatePreferences(ctx context.Context, constituentID string, prefs []domain.Preference) error

	AddTags(ctx context.Context, constituentID string, tags []string) error
	RemoveTag(ctx context.Context, constituentID string, tag string) error
	GetTags(ctx context.Context, constituentID string) ([]string, error)

	CreateActivity(ctx context.Context, activity domain.Activity) (string, error)
	CreateGiftAidDeclaration(ctx context.Context, constituentID string, decl domain.GiftAidDeclaration) (string, error)

	CreateTransaction(ctx context.Context, tx domain.Transaction) (string, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
}

// CRMRegistry hands out the client for a tenant.
type CRMRegistry interface {
	Client(instance domain.Instance) (CRMClient, error)
}

// MarketingMember is the subscriber shape pushed to the email-marketing list.
type MarketingMember struct {
	Email     string
	FirstName string
	LastName  string
	Status    string // "subscribed" or "transactional"
}

// EmailMarketing is the email-marketing list API.
type EmailMarketing interface {
	UpsertMember(ctx context.Context, listID string, member MarketingMember) error
	AddTags(ctx context.Context, listID, email string, tags []string) error
	// RemoveTags returns domain.ErrNotFound when the member does not exist.
	RemoveTags(ctx context.Context, listID, email string, tags []string) error
}

// TemplateMessage is one transactional email rendered from a stored template.
type TemplateMessage struct {
	Template string
	ToEmail  string
	ToName   string
	Vars     map[string]string
	Tags     []string
}

// Mailer sends transactional email.
type Mailer interface {
	SendTemplate(ctx context.Context, msg TemplateMessage) error
}

// GatewayAddress is a postal address as returned by a gateway API.
type GatewayAddress struct {
	Line1      string
	Line2      string
	City       string
	Region     string
	PostalCode string
	Country    string
}

// StripeCustomer is the subset of a Stripe customer the normalizer reads.
type StripeCustomer struct {
	ID       string
	Email    string
	Name     string
	Phone    string
	Address  GatewayAddress
	Metadata map[string]string
}

// StripeSubscription is the subset of a Stripe subscription the normalizer reads.
type StripeSubscription struct {
	ID       string
	Customer string
	Metadata map[string]string
}

// StripeClient reads Stripe objects referenced by an event.
type StripeClient interface {
	GetCustomer(ctx context.Context, id string) (*StripeCustomer, error)
	GetSubscription(ctx context.Context, id string) (*StripeSubscription, error)
}

// GoCardlessPayment is the subset of a GoCardless payment the normalizer reads.
type GoCardlessPayment struct {
	ID             string
	Amount         int64 // Minor units
	Currency       string
	ChargeDate     time.Time
	Metadata       map[string]string
	MandateID      string
	SubscriptionID string
}

// GoCardlessCustomer is the subset of a GoCardless customer the normalizer reads.
type GoCardlessCustomer struct {
	ID          string
	Email       string
	GivenName   string
	FamilyName  string
	CompanyName string
	Phone       string
	Address     GatewayAddress
	Metadata    map[string]string
}

// GoCardlessClient reads GoCardless objects referenced by an event.
type GoCardlessClient interface {
	GetPayment(ctx context.Context, id string) (*GoCardlessPayment, error)
	GetMandateCustomerID(ctx context.Context, mandateID string) (string, error)
	GetCustomer(ctx context.Context, id string) (*GoCardlessCustomer, error)
}
