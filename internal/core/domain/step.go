package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by the pipeline.
var (
	// ErrIgnored marks an event that is intentionally not processed.
	ErrIgnored = errors.New("event ignored")
	// ErrNotFound is returned by external clients when the remote record is absent.
	ErrNotFound = errors.New("not found")
	// ErrNoCRMInstance is returned when the selected tenant is not configured.
	ErrNoCRMInstance = errors.New("crm instance not configured")
)

// Ignored wraps ErrIgnored with the reason the event was skipped.
func Ignored(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIgnored, fmt.Sprintf(format, args...))
}

// StepName identifies one orchestrator step.
type StepName string

const (
	StepSelectInstance    StepName = "select_crm_instance"
	StepDuplicateCheck    StepName = "duplicate_check"
	StepUpsertConstituent StepName = "upsert_constituent"
	StepUpdatePreferences StepName = "update_preferences"
	StepCreateTransaction StepName = "create_transaction"
	StepInspiration       StepName = "inspiration"
	StepGiftAid           StepName = "gift_aid"
	StepEmailMarketing    StepName = "email_marketing"
	StepCampaignHook      StepName = "campaign_hook"
	StepThankYouEmail     StepName = "thank_you_email"
)

// StepResult is one entry of the audit trail.
type StepResult struct {
	Step    StepName `json:"step"`
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
}

// Trail is the ordered list of step results for one event.
type Trail []StepResult

// Ok appends a successful step.
func (t *Trail) Ok(step StepName) {
	*t = append(*t, StepResult{Step: step, Success: true})
}

// Fail appends a failed step.
func (t *Trail) Fail(step StepName, err error) {
	r := StepResult{Step: step}
	if err != nil {
		r.Error = err.Error()
	}
	*t = append(*t, r)
}

// String renders the trail as "step=ok, step=error: ..." for ledger notes.
func (t Trail) String() string {
	parts := make([]string, 0, len(t))
	for _, r := range t {
		if r.Success {
			parts = append(parts, string(r.Step)+"=ok")
			continue
		}
		parts = append(parts, string(r.Step)+"=error: "+r.Error)
	}
	return strings.Join(parts, ", ")
}

// Outcome is the single result shape of the orchestrator for every gateway.
type Outcome struct {
	Success           bool     `json:"success"`
	Ignored           bool     `json:"ignored,omitempty"`
	InProgress        bool     `json:"in_progress,omitempty"` // another delivery holds the event
	Instance          Instance `json:"crm_instance,omitempty"`
	ConstituentID     string   `json:"constituent_id,omitempty"`
	AlreadyExisted    bool     `json:"already_existed,omitempty"`
	TransactionID     string   `json:"transaction_id,omitempty"`
	GatewayCustomerID string   `json:"gateway_customer_id,omitempty"`
	SubscriptionID    string   `json:"subscription_id,omitempty"`
	Error             string   `json:"error,omitempty"`
	Results           Trail    `json:"results"`
}

// Links returns the ledger link fields this outcome produced.
func (o *Outcome) Links() EventLinks {
	return EventLinks{
		ConstituentID:     o.ConstituentID,
		GatewayCustomerID: o.GatewayCustomerID,
		TransactionID:     o.TransactionID,
		SubscriptionID:    o.SubscriptionID,
	}
}

// PipelineError is raised when an aborting step fails. It carries enough
// context to diagnose the partial run from logs alone.
type PipelineError struct {
	Step              StepName
	Results           Trail
	ConstituentID     string
	GatewayCustomerID string
	Err               error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}
