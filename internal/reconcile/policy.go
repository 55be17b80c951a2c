package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/shared"
)

// Policy holds the independently settable flags that gate a sync.
type Policy struct {
	NoRemove    bool // Skip removal computation entirely
	DryRun      bool // Compute and report, never apply
	AutoConfirm bool // Treat a non-empty plan as approved without asking
}

// Outcome is the result of running a plan through [Decide].
type Outcome int

const (
	OutcomeUpToDate Outcome = iota // Plan was empty
	OutcomeApproved                // Plan should be applied
	OutcomeDeclined                // Confirmation was refused or failed
	OutcomeDryRun                  // Plan would be applied but dry-run suppressed it
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUpToDate:
		return "up_to_date"
	case OutcomeApproved:
		return "approved"
	case OutcomeDeclined:
		return "declined"
	case OutcomeDryRun:
		return "dry_run"
	default:
		return ""
	}
}

// Decision is the verdict of the policy gate for one plan.
type Decision struct {
	Outcome Outcome
	Summary string // Human-readable add/remove listing, empty for an empty plan
	Err     error  // Set when the confirmer failed
}

// Apply reports whether the plan may be applied.
func (d Decision) Apply() bool {
	return d.Outcome == OutcomeApproved
}

// Confirmer asks for approval of a plan summary and blocks until it has an answer.
type Confirmer interface {
	Confirm(summary string) (bool, error)
}

// ConfirmFunc adapts a function to [Confirmer].
type ConfirmFunc func(summary string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(summary string) (bool, error) { return f(summary) }

var errNoConfirmer = errors.New("no confirmer available")

// Decide applies policy to plan.
//
// An empty plan is up to date and nobody is asked. A dry run reports the plan without
// asking. Otherwise the plan is approved by policy.AutoConfirm or by confirm.
func Decide(plan *models.Plan, policy Policy, confirm Confirmer) Decision {
	if plan.Empty() {
		return Decision{Outcome: OutcomeUpToDate}
	}

	d := Decision{Summary: Summarize(plan)}
	switch {
	case policy.DryRun:
		d.Outcome = OutcomeDryRun
	case policy.AutoConfirm:
		d.Outcome = OutcomeApproved
	case confirm == nil:
		d.Outcome, d.Err = OutcomeDeclined, errNoConfirmer
	default:
		ok, err := confirm.Confirm(d.Summary)
		if err != nil {
			d.Outcome, d.Err = OutcomeDeclined, err
		} else if ok {
			d.Outcome = OutcomeApproved
		} else {
			d.Outcome = OutcomeDeclined
		}
	}
	return d
}

// CheckCreate reports whether a missing remote playlist may be created under policy.
//
// Creating a playlist is itself a mutation, so a dry run cannot proceed past it.
func CheckCreate(policy Policy) error {
	if policy.DryRun {
		return shared.ErrDryRunCreate
	}
	return nil
}

// IsAffirmative reports whether a confirmation answer approves the plan.
//
// Only "y" and "yes" approve; anything else, including an empty answer, declines.
func IsAffirmative(answer string) bool {
	switch strings.TrimSpace(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Summarize renders the additions and removals of plan, one per line.
func Summarize(plan *models.Plan) string {
	var b strings.Builder
	if len(plan.ToAdd) > 0 {
		fmt.Fprintf(&b, "Tracks to add (%d):\n", len(plan.ToAdd))
		for _, e := range plan.ToAdd {
			fmt.Fprintf(&b, "  + %s\n", e.DisplayName)
		}
	}
	if len(plan.ToRemove) > 0 {
		fmt.Fprintf(&b, "Tracks to remove (%d):\n", len(plan.ToRemove))
		for _, e := range plan.ToRemove {
			fmt.Fprintf(&b, "  - %s\n", e.DisplayName)
		}
	}
	return b.String()
}
