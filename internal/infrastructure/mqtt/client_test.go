package mqtt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/edgefleet/console-core/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration for testing.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "edgefleet-test",
			TLS:      false,
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

// disconnectedClient returns a client that was never connected. Validation
// paths short-circuit before touching the underlying paho client.
func disconnectedClient() *Client {
	return &Client{
		cfg:           testConfig(),
		subscriptions: make(map[string]subscription),
	}
}

func TestCloseNil(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil client error = %v", err)
	}
}

func TestHealthCheckCancelled(t *testing.T) {
	c := disconnectedClient()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.HealthCheck(ctx)
	if err == nil {
		t.Fatal("HealthCheck() with cancelled context expected error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck() error = %v, want context.Canceled", err)
	}
}

func TestHealthCheckDisconnected(t *testing.T) {
	c := disconnectedClient()

	err := c.HealthCheck(context.Background())
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

func TestPublishValidation(t *testing.T) {
	c := disconnectedClient()

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{
			name:    "empty topic",
			topic:   "",
			qos:     1,
			wantErr: ErrInvalidTopic,
		},
		{
			name:    "invalid qos",
			topic:   "edgefleet/notify/info",
			qos:     3,
			wantErr: ErrInvalidQoS,
		},
		{
			name:    "oversized payload",
			topic:   "edgefleet/notify/info",
			payload: make([]byte, maxPayloadSize+1),
			qos:     1,
			wantErr: ErrPublishFailed,
		},
		{
			name:    "disconnected",
			topic:   "edgefleet/notify/info",
			qos:     1,
			wantErr: ErrNotConnected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubscribeValidation(t *testing.T) {
	c := disconnectedClient()
	handler := func(topic string, payload []byte) error { return nil }

	if err := c.Subscribe("", 1, handler); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Subscribe(empty topic) error = %v, want ErrInvalidTopic", err)
	}
	if err := c.Subscribe("edgefleet/system/refresh", 3, handler); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("Subscribe(qos 3) error = %v, want ErrInvalidQoS", err)
	}
	if err := c.Subscribe("edgefleet/system/refresh", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("Subscribe(nil handler) error = %v, want ErrSubscribeFailed", err)
	}
	if err := c.Subscribe("edgefleet/system/refresh", 1, handler); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Subscribe() disconnected error = %v, want ErrNotConnected", err)
	}
}

func TestUnsubscribeValidation(t *testing.T) {
	c := disconnectedClient()

	if err := c.Unsubscribe(""); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Unsubscribe(empty) error = %v, want ErrInvalidTopic", err)
	}
	if err := c.Unsubscribe("edgefleet/system/refresh"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Unsubscribe() disconnected error = %v, want ErrNotConnected", err)
	}
}

func TestIsConnected_InitialState(t *testing.T) {
	c := disconnectedClient()
	if c.IsConnected() {
		t.Error("IsConnected() = true for never-connected client")
	}
}

func TestSubscriptionCount_Empty(t *testing.T) {
	c := disconnectedClient()
	if got := c.SubscriptionCount(); got != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0", got)
	}
	if c.HasSubscription("edgefleet/notify/+") {
		t.Error("HasSubscription() = true for empty client")
	}
}

func TestTopicBuilders(t *testing.T) {
	tests := []struct {
		name     string
		builder  func() string
		expected string
	}{
		{
			name:     "Notification",
			builder:  func() string { return Topics{}.Notification("success") },
			expected: "edgefleet/notify/success",
		},
		{
			name:     "DeviceStatus",
			builder:  func() string { return Topics{}.DeviceStatus(42) },
			expected: "edgefleet/fleet/42/status",
		},
		{
			name:     "DeployProgress",
			builder:  func() string { return Topics{}.DeployProgress(7) },
			expected: "edgefleet/deploy/7/progress",
		},
		{
			name:     "ConvertProgress",
			builder:  func() string { return Topics{}.ConvertProgress(3) },
			expected: "edgefleet/convert/3/progress",
		},
		{
			name:     "SystemStatus",
			builder:  func() string { return Topics{}.SystemStatus() },
			expected: "edgefleet/system/status",
		},
		{
			name:     "SystemRefresh",
			builder:  func() string { return Topics{}.SystemRefresh() },
			expected: "edgefleet/system/refresh",
		},
		{
			name:     "AllNotifications",
			builder:  func() string { return Topics{}.AllNotifications() },
			expected: "edgefleet/notify/+",
		},
		{
			name:     "AllDeviceStatuses",
			builder:  func() string { return Topics{}.AllDeviceStatuses() },
			expected: "edgefleet/fleet/+/status",
		},
		{
			name:     "AllTopics",
			builder:  func() string { return Topics{}.AllTopics() },
			expected: "edgefleet/#",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.builder(); got != tt.expected {
				t.Errorf("topic = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 {
		t.Fatalf("Servers len = %d, want 1", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "tcp://127.0.0.1:1883" {
		t.Errorf("broker URL = %q, want tcp://127.0.0.1:1883", got)
	}
	if opts.ClientID != "edgefleet-test" {
		t.Errorf("ClientID = %q, want edgefleet-test", opts.ClientID)
	}

	cfg.Broker.TLS = true
	opts = buildClientOptions(cfg)
	if got := opts.Servers[0].Scheme; got != "ssl" {
		t.Errorf("scheme with TLS = %q, want ssl", got)
	}
}

func TestConfigureLWT(t *testing.T) {
	cfg := testConfig()
	opts := buildClientOptions(cfg)
	configureLWT(opts, cfg.Broker.ClientID)

	if !opts.WillEnabled {
		t.Fatal("WillEnabled = false")
	}
	if opts.WillTopic != "edgefleet/system/status" {
		t.Errorf("WillTopic = %q, want edgefleet/system/status", opts.WillTopic)
	}
	payload := string(opts.WillPayload)
	if !strings.Contains(payload, `"status":"offline"`) {
		t.Errorf("will payload missing offline status: %s", payload)
	}
	if !strings.Contains(payload, "edgefleet-test") {
		t.Errorf("will payload missing client id: %s", payload)
	}
}
