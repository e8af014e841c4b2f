// Package mqtt defines the broker-facing contract used to announce selection
// outcomes.
package mqtt

import "errors"

// ErrNotConnected is returned when publishing without a live broker session.
var ErrNotConnected = errors.New("mqtt client not connected")

// Publisher sends a payload to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}
