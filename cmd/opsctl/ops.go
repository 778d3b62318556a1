package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"donor-reconciler/internal/adapter/http/dto"
	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports"
	"donor-reconciler/pkg/poll"
)

// testEventLister is the ledger query sandbox cleanup runs on.
type testEventLister interface {
	ListTestEvents(ctx context.Context, since time.Time, limit int) ([]domain.WebhookEvent, error)
}

func printEvent(w io.Writer, event *domain.WebhookEvent) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dto.NewEventResponse(event))
}

// awaitEvent polls the ledger until the event reaches a terminal status.
// A failed event is reported as an error so scripts can branch on it.
func awaitEvent(ctx context.Context, repo ports.EventRepository, eventID string, interval, timeout time.Duration) (*domain.WebhookEvent, error) {
	var last *domain.WebhookEvent
	err := poll.Until(ctx, interval, timeout, func(ctx context.Context) (bool, error) {
		event, err := repo.GetByEventID(ctx, eventID)
		if err != nil {
			return false, err
		}
		last = event
		return event != nil && event.Status.IsTerminal(), nil
	})
	if err != nil {
		if last != nil {
			return last, fmt.Errorf("event %s still %s: %w", eventID, last.Status, err)
		}
		return nil, fmt.Errorf("event %s never recorded: %w", eventID, err)
	}
	if last.Status == domain.EventStatusFailed {
		return last, fmt.Errorf("event %s failed: %s", eventID, last.Notes)
	}
	return last, nil
}

type cleanupOptions struct {
	Since        time.Duration
	Limit        int
	Constituents bool
	Apply        bool
}

type cleanupReport struct {
	Events              int
	TransactionsDeleted int
	ConstituentsDeleted int
	Failures            int
}

// cleanupSandbox deletes the CRM records test events created in the
// sandbox tenant. Without Apply it only prints what it would delete.
func cleanupSandbox(ctx context.Context, w io.Writer, events testEventLister, client ports.CRMClient, now time.Time, opts cleanupOptions) (cleanupReport, error) {
	var report cleanupReport
	if client.Instance() != domain.InstanceSandbox {
		return report, fmt.Errorf("refusing to clean up %s tenant", client.Instance())
	}

	rows, err := events.ListTestEvents(ctx, now.Add(-opts.Since), opts.Limit)
	if err != nil {
		return report, err
	}
	report.Events = len(rows)

	seen := map[string]bool{}
	for _, e := range rows {
		if id := e.Links.TransactionID; id != "" {
			if !opts.Apply {
				fmt.Fprintf(w, "would delete transaction %s (event %s)\n", id, e.EventID)
			} else if err := client.DeleteTransaction(ctx, id); err != nil {
				fmt.Fprintf(w, "transaction %s: %v\n", id, err)
				report.Failures++
			} else {
				fmt.Fprintf(w, "deleted transaction %s (event %s)\n", id, e.EventID)
				report.TransactionsDeleted++
			}
		}

		id := e.Links.ConstituentID
		if !opts.Constituents || id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if !opts.Apply {
			fmt.Fprintf(w, "would delete constituent %s\n", id)
		} else if err := client.DeleteConstituent(ctx, id); err != nil {
			fmt.Fprintf(w, "constituent %s: %v\n", id, err)
			report.Failures++
		} else {
			fmt.Fprintf(w, "deleted constituent %s\n", id)
			report.ConstituentsDeleted++
		}
	}
	return report, nil
}
