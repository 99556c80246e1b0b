// Package messaging wraps watermill with typed publish functions and
// consumers so the rest of the code never touches raw messages.
package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Publish sends one typed event to its topic.
type Publish[T any] func(event *T) error

// NewPublishFunc binds an event type to a topic on the given publisher.
func NewPublishFunc[T any](publisher message.Publisher, topic string) Publish[T] {
	return func(event *T) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal event for %s: %w", topic, err)
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)

		return publisher.Publish(topic, msg)
	}
}

// PublisherGroup owns the underlying publisher's lifecycle so the
// injector can shut it down once, no matter how many typed publish
// functions were derived from it.
type PublisherGroup struct {
	publisher message.Publisher
}

// NewPublisherGroup wraps a watermill publisher.
func NewPublisherGroup(publisher message.Publisher) *PublisherGroup {
	return &PublisherGroup{publisher: publisher}
}

// Publisher exposes the raw publisher for deriving typed publish funcs.
func (g *PublisherGroup) Publisher() message.Publisher {
	return g.publisher
}

// Shutdown closes the underlying publisher.
func (g *PublisherGroup) Shutdown() error {
	return g.publisher.Close()
}
