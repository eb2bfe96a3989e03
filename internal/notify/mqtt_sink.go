package notify

import (
	"encoding/json"
	"fmt"

	"github.com/edgefleet/console-core/internal/infrastructure/mqtt"
)

// Publisher is the slice of the MQTT client the sink needs.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	IsConnected() bool
}

// MQTTSink publishes notifications to edgefleet/notify/{kind} so external
// tooling can follow console events. QoS 1 gives at-least-once delivery;
// duplicates are acceptable for notifications.
type MQTTSink struct {
	pub Publisher
	qos byte
}

// NewMQTTSink creates a sink publishing through the given client.
func NewMQTTSink(pub Publisher, qos byte) *MQTTSink {
	return &MQTTSink{pub: pub, qos: qos}
}

// Name implements Sink.
func (s *MQTTSink) Name() string { return "mqtt" }

// Deliver implements Sink. A disconnected broker is reported as an error and
// the notification is dropped for this sink; it stays available on the REST
// surface regardless.
func (s *MQTTSink) Deliver(n Notification) error {
	if !s.pub.IsConnected() {
		return mqtt.ErrNotConnected
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encoding notification %s: %w", n.ID, err)
	}

	topic := mqtt.Topics{}.Notification(string(n.Kind))
	return s.pub.Publish(topic, payload, s.qos, false)
}
