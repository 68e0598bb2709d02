package order

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation marks a request that was blocked locally before any network call.
var ErrValidation = errors.New("validation failed")

// ErrNotFound is returned when an order reference matches nothing on the board.
var ErrNotFound = errors.New("order not found")

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// IntakeContext provides context for intake validation.
type IntakeContext struct {
	Code        string
	Name        string
	Phone       string
	Description string
}

// ClaimContext provides context for claim guards.
type ClaimContext struct {
	OrderID    string
	Status     Status
	AssignedTo string
	Technician string
}

// SetStatusContext provides context for administrative status changes.
type SetStatusContext struct {
	OrderID    string
	Current    Status
	Requested  Status
	AssignedTo string
	Force      bool
}

// WorkContext provides context for work-record editor guards.
type WorkContext struct {
	OrderID    string
	Status     Status
	AssignedTo string
	Technician string
}

// ValidateIntake checks the mandatory intake fields.
// Rules:
// - code, name, phone and description must be non-blank
func ValidateIntake(ctx IntakeContext) error {
	var missing []string
	if strings.TrimSpace(ctx.Code) == "" {
		missing = append(missing, "code")
	}
	if strings.TrimSpace(ctx.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(ctx.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(ctx.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// CanClaim evaluates whether a technician can claim an order.
// Rules:
// - technician name must be known
// - order must be unassigned
// - order must be NEW
func CanClaim(ctx ClaimContext) GuardResult {
	if ctx.Technician == "" {
		return GuardResult{Allowed: false, Reason: "technician identity required to claim an order"}
	}
	if ctx.AssignedTo != "" {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("order %s is already assigned to %s", ctx.OrderID, ctx.AssignedTo),
		}
	}
	if ctx.Status != StatusNew {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only claim %s orders (order %s is %s)", StatusNew.Key(), ctx.OrderID, ctx.Status.Key()),
		}
	}
	return GuardResult{Allowed: true}
}

// CanSetStatus evaluates an administrative status change.
// Rules:
// - requested status must be one of the four known statuses
// - the move must be in the transition table, unless forced
// - IN_PROGRESS requires an assignee, unless forced
func CanSetStatus(ctx SetStatusContext) GuardResult {
	if !ctx.Requested.Valid() {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("unknown status %q", ctx.Requested)}
	}
	if ctx.Force {
		return GuardResult{Allowed: true}
	}
	if !CanTransition(ctx.Current, ctx.Requested) {
		return GuardResult{
			Allowed: false,
			Reason: fmt.Sprintf("cannot move order %s from %s to %s (allowed: %s). Use --force to override",
				ctx.OrderID, ctx.Current.Key(), ctx.Requested.Key(), keys(NextStatuses(ctx.Current))),
		}
	}
	if ctx.Requested == StatusInProgress && ctx.AssignedTo == "" {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("order %s has no technician; it moves to %s when a technician claims it", ctx.OrderID, StatusInProgress.Key()),
		}
	}
	return GuardResult{Allowed: true}
}

// CanEditWork evaluates whether a technician may change an order's work record.
// Rules:
// - order must be assigned to the technician
func CanEditWork(ctx WorkContext) GuardResult {
	if ctx.Technician == "" {
		return GuardResult{Allowed: false, Reason: "technician identity required to edit work records"}
	}
	if ctx.AssignedTo != ctx.Technician {
		assignee := ctx.AssignedTo
		if assignee == "" {
			assignee = "nobody"
		}
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("order %s is assigned to %s, not %s", ctx.OrderID, assignee, ctx.Technician),
		}
	}
	return GuardResult{Allowed: true}
}

// CanSaveWork evaluates whether the work record can be saved.
// Rules:
// - editor rules apply
// - the order must be able to move to DONE_WAITING_SIGN, or lie before it
func CanSaveWork(ctx WorkContext) GuardResult {
	if r := CanEditWork(ctx); !r.Allowed {
		return r
	}
	if !editorMove(ctx.Status, StatusDoneWaitingSign) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot save work on order %s while it is %s", ctx.OrderID, ctx.Status.Key()),
		}
	}
	return GuardResult{Allowed: true}
}

// CanClose evaluates whether the closing report can be generated.
// Rules:
// - editor rules apply
// - the order must be able to move to CLOSED, or lie before it
func CanClose(ctx WorkContext) GuardResult {
	if r := CanEditWork(ctx); !r.Allowed {
		return r
	}
	if !editorMove(ctx.Status, StatusClosed) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot close order %s while it is %s", ctx.OrderID, ctx.Status.Key()),
		}
	}
	return GuardResult{Allowed: true}
}

// editorMove allows the lifecycle table plus forward skips, as left by an
// administrator forcing an assigned order back to NEW.
func editorMove(from, to Status) bool {
	if CanTransition(from, to) {
		return true
	}
	return from.Valid() && from.Rank() < to.Rank()
}

func keys(ss []Status) string {
	if len(ss) == 0 {
		return "none"
	}
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = s.Key()
	}
	return strings.Join(parts, ", ")
}
