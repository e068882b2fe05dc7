package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/IBM/sarama"
)

// EventFunc receives the CloudEvent type of a consumed message, for example
// "listing.created.v1".
type EventFunc func(ctx context.Context, eventType string) error

// Inbox deduplicates events by id.
type Inbox interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

// CloudEventHandler decodes structured CloudEvents and passes their type on.
// With an Inbox, events already handled are skipped.
type CloudEventHandler struct {
	OnEvent EventFunc
	Inbox   Inbox
}

type cloudEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

func (h CloudEventHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	if msg == nil || h.OnEvent == nil {
		return nil
	}
	evt, err := decodeEvent(msg)
	if err != nil {
		return err
	}
	if h.Inbox != nil && evt.ID != "" {
		seen, err := h.Inbox.Seen(ctx, evt.ID)
		if err != nil {
			return fmt.Errorf("kafka: inbox: %w", err)
		}
		if seen {
			return nil
		}
	}
	if err := h.OnEvent(ctx, evt.Type); err != nil {
		if h.Inbox != nil && evt.ID != "" {
			_ = h.Inbox.Forget(ctx, evt.ID)
		}
		return err
	}
	return nil
}

func decodeEvent(msg *sarama.ConsumerMessage) (cloudEvent, error) {
	var evt cloudEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return cloudEvent{}, fmt.Errorf("kafka: decode cloudevent: %w", err)
	}
	for _, header := range msg.Headers {
		if header != nil && strings.EqualFold(string(header.Key), "ce-type") && len(header.Value) > 0 {
			evt.Type = string(header.Value)
		}
	}
	if evt.Type == "" {
		return cloudEvent{}, fmt.Errorf("kafka: cloudevent without type at %s/%d/%d", msg.Topic, msg.Partition, msg.Offset)
	}
	return evt, nil
}
