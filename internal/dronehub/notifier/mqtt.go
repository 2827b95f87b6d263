// Package notifier publishes session lifecycle events to interested
// consumers. All publishing is best effort; a lost event never affects the
// session itself.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/skyfleet-io/dronehub/internal/dronehub/core"
	"github.com/skyfleet-io/dronehub/internal/dronehub/core/model"
	"github.com/skyfleet-io/dronehub/pkg/log"
	pkgmqtt "github.com/skyfleet-io/dronehub/pkg/mqtt"
	"github.com/skyfleet-io/dronehub/pkg/mqtt/topic"
	"github.com/skyfleet-io/dronehub/pkg/options"
)

// publishTimeout bounds every publish so connection teardown never hangs on
// a slow broker.
const publishTimeout = 3 * time.Second

// Hub status payloads. The offline payload doubles as the last will.
const (
	statusOnline  = "online"
	statusOffline = "offline"
)

// MQTTNotifier is an EventSink that mirrors session lifecycle events onto an
// MQTT broker.
type MQTTNotifier struct {
	client pkgmqtt.Client
	topics *topic.Builder
	log    log.Logger
}

var _ core.EventSink = (*MQTTNotifier)(nil)

// NewMQTTNotifier creates a dedicated egress client and starts it. The
// broker announces the hub as offline through the last will if the client
// vanishes without disconnecting.
func NewMQTTNotifier(opts *options.MqttOptions) (*MQTTNotifier, error) {
	topics := topic.NewBuilder(opts.TopicRoot)

	cfg := opts.ToClientConfig()
	if cfg.ClientID == "" {
		hostname, _ := os.Hostname()
		cfg.ClientID = fmt.Sprintf("dronehub-%s", hostname)
	}
	cfg.ClientID += "-notifier"

	cfg.WillTopic = topics.HubStatus()
	cfg.WillPayload = []byte(statusOffline)
	cfg.WillQoS = 1
	cfg.WillRetain = true

	client, err := pkgmqtt.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	if err := client.Start(context.Background()); err != nil {
		return nil, err
	}

	n := &MQTTNotifier{
		client: client,
		topics: topics,
		log:    log.WithName("notifier"),
	}

	// Announce availability once the first connection is up.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
		defer cancel()
		if err := client.AwaitConnection(ctx); err != nil {
			n.log.Warn("Broker connection not yet established", "err", err)
			return
		}
		n.publish(ctx, topics.HubStatus(), true, []byte(statusOnline))
	}()

	return n, nil
}

// Stop announces the hub as offline and disconnects.
func (n *MQTTNotifier) Stop(ctx context.Context) {
	n.publish(ctx, n.topics.HubStatus(), true, []byte(statusOffline))
	n.client.Disconnect(ctx)
}

type connectedEvent struct {
	SessionID   string    `json:"session_id"`
	ConnectedAt time.Time `json:"connected_at"`
}

type crashedEvent struct {
	SessionID      string          `json:"session_id"`
	Reason         string          `json:"reason"`
	FinalTelemetry model.Telemetry `json:"final_telemetry"`
	Metrics        model.Metrics   `json:"metrics"`
	CrashedAt      time.Time       `json:"crashed_at"`
}

type closedEvent struct {
	SessionID string    `json:"session_id"`
	Reason    string    `json:"reason"`
	ClosedAt  time.Time `json:"closed_at"`
}

func (n *MQTTNotifier) SessionConnected(ctx context.Context, sessionID string) {
	n.publishJSON(ctx, n.topics.SessionConnected(sessionID), connectedEvent{
		SessionID:   sessionID,
		ConnectedAt: time.Now(),
	})
}

func (n *MQTTNotifier) SessionCrashed(ctx context.Context, sessionID, reason string, final model.Telemetry, metrics model.Metrics) {
	n.publishJSON(ctx, n.topics.SessionCrashed(sessionID), crashedEvent{
		SessionID:      sessionID,
		Reason:         reason,
		FinalTelemetry: final,
		Metrics:        metrics,
		CrashedAt:      time.Now(),
	})
}

func (n *MQTTNotifier) SessionClosed(ctx context.Context, sessionID, reason string) {
	n.publishJSON(ctx, n.topics.SessionClosed(sessionID), closedEvent{
		SessionID: sessionID,
		Reason:    reason,
		ClosedAt:  time.Now(),
	})
}

func (n *MQTTNotifier) publishJSON(ctx context.Context, topic string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		n.log.Error(err, "Failed to encode event", "topic", topic)
		return
	}
	n.publish(ctx, topic, false, payload)
}

func (n *MQTTNotifier) publish(ctx context.Context, topic string, retain bool, payload []byte) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := n.client.Publish(ctx, topic, 1, retain, payload); err != nil {
		n.log.Warn("Failed to publish event", "topic", topic, "err", err)
	}
}
