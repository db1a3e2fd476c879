// Package pubsub publishes completion events over MQTT.
package pubsub

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const publishQoS = 1 // at-least-once, matching the session config issued to clients

const publishTimeout = 10 * time.Second

// MQTTPublisher holds one broker connection for the service. Messages go
// out QoS 1 so the broker queues them for subscribers with persistent
// sessions that are currently offline.
type MQTTPublisher struct {
	client mqtt.Client
}

func NewMQTTPublisher(brokerURL, clientID, username, password string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetUsername(username).
		SetPassword(password).
		SetCleanSession(false).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(15 * time.Second) {
		return nil, fmt.Errorf("connect to broker %s: timed out", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker %s: %w", brokerURL, err)
	}

	return &MQTTPublisher{client: client}, nil
}

func (p *MQTTPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	token := p.client.Publish(topic, publishQoS, false, payload)

	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("publish to %s: %w", topic, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("publish to %s: %w", topic, ctx.Err())
	}
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
