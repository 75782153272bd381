package feed

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType names a feed activity event
type EventType string

const (
	EventPostCreated  EventType = "post_created"
	EventPostEdited   EventType = "post_edited"
	EventPostLiked    EventType = "post_liked"
	EventPostUnliked  EventType = "post_unliked"
	EventCommentAdded EventType = "comment_added"
)

// Event describes an applied feed mutation
type Event struct {
	// EventID is unique per event so consumers can deduplicate
	EventID string         `json:"event_id"`
	Type    EventType      `json:"type"`
	PostID  int64          `json:"post_id"`
	ActorID string         `json:"actor_id"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time
func NewEvent(typ EventType, postID int64, actorID string, payload map[string]any) Event {
	return Event{
		EventID: uuid.New().String(),
		Type:    typ,
		PostID:  postID,
		ActorID: actorID,
		At:      time.Now().UTC(),
		Payload: payload,
	}
}

// EventPublisher delivers feed events to interested consumers
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
