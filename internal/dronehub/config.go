// Package dronehub wires the simulator hub together: session registry,
// event sinks, snapshot storage and the protocol servers.
package dronehub

import (
	"fmt"

	"github.com/skyfleet-io/dronehub/internal/dronehub/core"
	"github.com/skyfleet-io/dronehub/internal/dronehub/core/session"
	"github.com/skyfleet-io/dronehub/internal/dronehub/notifier"
	"github.com/skyfleet-io/dronehub/internal/dronehub/server"
	"github.com/skyfleet-io/dronehub/internal/dronehub/storage"
	"github.com/skyfleet-io/dronehub/pkg/options"
)

type Config struct {
	ServerOptions   *options.ServerOptions
	SimOptions      *options.SimOptions
	LivenessOptions *options.LivenessOptions
	HttpOptions     *options.HttpOptions
	MqttOptions     *options.MqttOptions
	SnapshotOptions *options.SnapshotOptions
	S3Options       *options.S3Options
}

func (cfg *Config) NewHubServer() (*HubServer, error) {
	// 1. Core domain: the session registry every connection registers with.
	registry := session.NewRegistry(session.Config{
		MaxX:                 cfg.SimOptions.MaxX,
		SensorClassification: cfg.SimOptions.SensorClassification,
	})

	// 2. Infrastructure: snapshot storage (secondary adapter)
	storageAdapter, err := storage.NewProvider(cfg.SnapshotOptions, cfg.S3Options)
	if err != nil {
		return nil, fmt.Errorf("failed to init snapshot storage: %w", err)
	}

	// 3. Infrastructure: event notifier (secondary adapter)
	var sink core.EventSink = core.NopSink{}
	var mqttNotifier *notifier.MQTTNotifier
	if cfg.MqttOptions.Enabled() {
		mqttNotifier, err = notifier.NewMQTTNotifier(cfg.MqttOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to init notifier: %w", err)
		}
		sink = mqttNotifier
	}

	// 4. Ingress servers (primary adapters)
	serverConfig := &server.Config{
		ServerOptions:   cfg.ServerOptions,
		LivenessOptions: cfg.LivenessOptions,
		HttpOptions:     cfg.HttpOptions,
	}
	srvManager, err := server.NewManager(serverConfig, registry, sink, storageAdapter)
	if err != nil {
		return nil, fmt.Errorf("failed to init server manager: %w", err)
	}

	return &HubServer{
		serverManager: srvManager,
		notifier:      mqttNotifier,
	}, nil
}
