package events

import "time"

const CadetCreatedTopic = "cadet.profile.lifecycle.v1"

type CadetCreatedEvent struct {
	EventType         string    `json:"event_type"`
	RequestID         string    `json:"request_id,omitempty"`
	CadetID           string    `json:"cadet_id"`
	ApplicationNumber string    `json:"application_number"`
	Platoon           string    `json:"platoon"`
	CreatedBy         string    `json:"created_by"`
	OccurredAt        time.Time `json:"occurred_at"`
}
