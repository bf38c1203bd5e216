package feed

import (
	"encoding/json"
	"time"
)

type EventType string

const (
	EventNewsPublished EventType = "news.published"
	EventNewsDeleted   EventType = "news.deleted"
)

type Event struct {
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

// NewEvent marshals payload into an Event stamped with the current time.
func NewEvent(eventType EventType, payload interface{}) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}
