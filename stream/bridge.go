package stream

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Bridge mirrors published events to an MQTT broker so non-browser
// clients (dashboards, automations) can follow todo changes on topic
// todos/<user id>.
type Bridge struct {
	client mqtt.Client
}

// NewBridge connects to the broker at rawURL (e.g. mqtt://host:1883).
func NewBridge(rawURL string) (*Bridge, error) {
	uri, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid MQTT URL: %w", err)
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", uri.Host))
	opts.SetClientID("todo-events")

	client := mqtt.NewClient(opts)
	token := client.Connect()
	for !token.WaitTimeout(3 * time.Second) {
	}
	if err := token.Error(); err != nil {
		return nil, err
	}

	return &Bridge{client: client}, nil
}

// Mirror publishes one event to the user's topic. Fire and forget,
// same best-effort contract as the in-process channels.
func (b *Bridge) Mirror(userID string, ev Event) {
	payload, err := json.Marshal(map[string]any{
		"type": ev.Type,
		"data": json.RawMessage(ev.Data),
	})
	if err != nil {
		log.Printf("failed to encode MQTT payload: %v", err)
		return
	}
	b.client.Publish("todos/"+userID, 0, false, payload)
}
