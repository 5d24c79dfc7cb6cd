package shared

// Asynq task type names. Queue routing: illustration processing runs on the
// high queue, emails and sweeps on default.
const (
	TypeProcessIllustration = "card:process_illustration"
	TypeStatusEmail         = "card:status_email"
	TypePublishSweep        = "feed:publish_sweep"
	TypeCleanupThumbnails   = "card:cleanup_thumbnails"

	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// ProcessIllustrationPayload carries the uploaded illustration to the worker
// for thumbnail generation.
type ProcessIllustrationPayload struct {
	CardRequestID string `json:"cardRequestId"`
	ObjectKey     string `json:"objectKey"`
}

// StatusEmailPayload notifies a card owner about a status change.
type StatusEmailPayload struct {
	CardRequestID string `json:"cardRequestId"`
	OwnerEmail    string `json:"ownerEmail"`
	NewStatus     string `json:"newStatus"`
	Note          string `json:"note,omitempty"`
}
