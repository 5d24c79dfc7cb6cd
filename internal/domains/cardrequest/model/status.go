package model

import "fmt"

// Status is the closed set of card-request lifecycle states. Values outside
// this set are rejected at the boundary by ParseStatus; nothing downstream
// ever sees a free-form status string.
type Status string

const (
	StatusSubmitted         Status = "submitted"
	StatusRevisionRequested Status = "revision_requested"
	StatusProcessing        Status = "processing" // queued for illustration
	StatusConfirmed         Status = "confirmed"
	StatusDelivered         Status = "delivered"
	StatusCancelled         Status = "cancelled"
	StatusRejected          Status = "rejected"
)

// AllStatuses lists every lifecycle state. Kept in workflow order for admin
// screens.
var AllStatuses = []Status{
	StatusSubmitted,
	StatusRevisionRequested,
	StatusProcessing,
	StatusConfirmed,
	StatusDelivered,
	StatusCancelled,
	StatusRejected,
}

// ParseStatus validates a raw string against the closed status set.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := statusTransitions[s]; !ok {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

// statusTransitions is the complete transition table. The happy path is
// submitted → processing → confirmed → delivered. Every state keeps
// corrective edges into revision_requested/rejected (admin-only);
// self-transitions are never allowed.
var statusTransitions = map[Status][]Status{
	StatusSubmitted:         {StatusProcessing, StatusCancelled, StatusRevisionRequested, StatusRejected},
	StatusRevisionRequested: {StatusSubmitted, StatusCancelled, StatusRejected},
	StatusProcessing:        {StatusConfirmed, StatusCancelled, StatusRevisionRequested, StatusRejected},
	StatusConfirmed:         {StatusDelivered, StatusRevisionRequested, StatusRejected},
	StatusDelivered:         {StatusRevisionRequested, StatusRejected},
	StatusCancelled:         {StatusRevisionRequested, StatusRejected},
	StatusRejected:          {StatusRevisionRequested},
}

// CanTransition reports whether the edge from → to is in the transition
// table. Pure lookup, no side effects.
func CanTransition(from, to Status) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsOwnerTransition reports whether the edge may be taken by the card's
// owner. Owners may only withdraw (cancel before production starts) and
// resubmit after a revision request; every other edge is admin-only.
func IsOwnerTransition(from, to Status) bool {
	if to == StatusCancelled {
		return IsCancellable(from)
	}
	return from == StatusRevisionRequested && to == StatusSubmitted
}

// IsCancellable is true only for states preceding confirmed: once production
// or delivery has started, self-service withdrawal is no longer available.
func IsCancellable(s Status) bool {
	return s == StatusSubmitted || s == StatusRevisionRequested || s == StatusProcessing
}

// IsEditable is true while the owner may still change card content. Editing
// in revision_requested implies a resubmit transition in the same update.
func IsEditable(s Status) bool {
	return s == StatusSubmitted || s == StatusRevisionRequested
}

// IsPublishable is true for the statuses from which owner-initiated public
// listing is allowed.
func IsPublishable(s Status) bool {
	return s == StatusConfirmed || s == StatusDelivered
}

// IsListable is the shared feed/profile/gallery predicate: cancelled and
// rejected cards never appear in public listings even if is_public was left
// set by an admin override.
func IsListable(s Status) bool {
	return s != StatusCancelled && s != StatusRejected
}
