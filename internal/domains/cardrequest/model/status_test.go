package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	t.Run("accepts every known status", func(t *testing.T) {
		for _, s := range AllStatuses {
			parsed, err := ParseStatus(string(s))
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		for _, raw := range []string{"", "draft", "SUBMITTED", "confirmed ", "archived"} {
			_, err := ParseStatus(raw)
			assert.Error(t, err, "value %q", raw)
		}
	})
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		// Main line
		{StatusSubmitted, StatusProcessing, true},
		{StatusProcessing, StatusConfirmed, true},
		{StatusConfirmed, StatusDelivered, true},

		// Skipping steps is not allowed
		{StatusSubmitted, StatusConfirmed, false},
		{StatusSubmitted, StatusDelivered, false},
		{StatusProcessing, StatusDelivered, false},

		// Cancellation window
		{StatusSubmitted, StatusCancelled, true},
		{StatusRevisionRequested, StatusCancelled, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, false},
		{StatusDelivered, StatusCancelled, false},

		// Resubmit
		{StatusRevisionRequested, StatusSubmitted, true},

		// Corrective edges reach revision_requested from anywhere else
		{StatusDelivered, StatusRevisionRequested, true},
		{StatusCancelled, StatusRevisionRequested, true},
		{StatusRejected, StatusRevisionRequested, true},

		// No backwards motion outside the corrective edges
		{StatusConfirmed, StatusProcessing, false},
		{StatusDelivered, StatusConfirmed, false},
		{StatusRejected, StatusSubmitted, false},
		{StatusCancelled, StatusSubmitted, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestCanTransitionRejectsSelfLoops(t *testing.T) {
	for _, s := range AllStatuses {
		assert.False(t, CanTransition(s, s), "self loop on %s", s)
	}
}

func TestEveryStatusCanReachRejectedExceptItself(t *testing.T) {
	for _, s := range AllStatuses {
		if s == StatusRejected {
			continue
		}
		assert.True(t, CanTransition(s, StatusRejected), "%s -> rejected", s)
	}
}

func TestIsOwnerTransition(t *testing.T) {
	// Owner edges: cancel while cancellable, and resubmit after revision.
	assert.True(t, IsOwnerTransition(StatusSubmitted, StatusCancelled))
	assert.True(t, IsOwnerTransition(StatusRevisionRequested, StatusCancelled))
	assert.True(t, IsOwnerTransition(StatusProcessing, StatusCancelled))
	assert.True(t, IsOwnerTransition(StatusRevisionRequested, StatusSubmitted))

	// Everything else belongs to admins.
	assert.False(t, IsOwnerTransition(StatusSubmitted, StatusProcessing))
	assert.False(t, IsOwnerTransition(StatusProcessing, StatusConfirmed))
	assert.False(t, IsOwnerTransition(StatusConfirmed, StatusDelivered))
	assert.False(t, IsOwnerTransition(StatusDelivered, StatusRevisionRequested))
	assert.False(t, IsOwnerTransition(StatusSubmitted, StatusRejected))
}

func TestStatusPredicates(t *testing.T) {
	t.Run("publishable", func(t *testing.T) {
		for _, s := range AllStatuses {
			want := s == StatusConfirmed || s == StatusDelivered
			assert.Equal(t, want, IsPublishable(s), "%s", s)
		}
	})

	t.Run("listable", func(t *testing.T) {
		for _, s := range AllStatuses {
			want := s != StatusCancelled && s != StatusRejected
			assert.Equal(t, want, IsListable(s), "%s", s)
		}
	})

	t.Run("editable", func(t *testing.T) {
		for _, s := range AllStatuses {
			want := s == StatusSubmitted || s == StatusRevisionRequested
			assert.Equal(t, want, IsEditable(s), "%s", s)
		}
	})

	t.Run("cancellable", func(t *testing.T) {
		for _, s := range AllStatuses {
			want := s == StatusSubmitted || s == StatusRevisionRequested || s == StatusProcessing
			assert.Equal(t, want, IsCancellable(s), "%s", s)
		}
	})

	t.Run("publishable implies listable", func(t *testing.T) {
		for _, s := range AllStatuses {
			if IsPublishable(s) {
				assert.True(t, IsListable(s), "%s", s)
			}
		}
	})
}

func TestBulkPublishEligible(t *testing.T) {
	url := "https://cdn.example.com/cards/x/illustration.jpg"

	tests := []struct {
		name     string
		card     CardRequest
		eligible bool
	}{
		{"confirmed with illustration, not public", CardRequest{Status: StatusConfirmed, IllustrationURL: &url}, true},
		{"delivered with illustration, not public", CardRequest{Status: StatusDelivered, IllustrationURL: &url}, true},
		{"already public", CardRequest{Status: StatusConfirmed, IllustrationURL: &url, IsPublic: true}, false},
		{"no illustration", CardRequest{Status: StatusConfirmed}, false},
		{"not publishable", CardRequest{Status: StatusProcessing, IllustrationURL: &url}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.eligible, tt.card.BulkPublishEligible())
		})
	}
}
