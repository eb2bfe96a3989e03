// Package mqtt provides MQTT client connectivity for EdgeFleet Console.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// EdgeFleet uses MQTT as an optional outbound event bus: notifications and
// entity status changes are published so external tooling (ops dashboards,
// alerting) can follow the console without polling the REST API. The console
// also listens on a small command surface (fleet refresh).
//
//	EdgeFleet Console ↔ MQTT Broker ↔ External tooling
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff 1s-60s with jitter
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Publish a notification
//	topic := mqtt.Topics{}.Notification("success")
//	client.Publish(topic, payload, 1, false)
//
//	// React to external refresh commands
//	err = client.Subscribe(mqtt.Topics{}.SystemRefresh(), 1,
//	    func(topic string, payload []byte) error {
//	        return fleet.RefreshAll()
//	    })
package mqtt
