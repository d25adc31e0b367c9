package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/unitstat/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/unitstat/internal/adapters/daemon"    //nolint:depguard // Wired in app layer
	"go.trai.ch/unitstat/internal/adapters/export"    //nolint:depguard // Wired in app layer
	"go.trai.ch/unitstat/internal/adapters/loadhook"  //nolint:depguard // Wired in app layer
	"go.trai.ch/unitstat/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/unitstat/internal/adapters/publisher" //nolint:depguard // Wired in app layer
	"go.trai.ch/unitstat/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/unitstat/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/unitstat/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components bundles what the command layer needs from the graph.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			export.NodeID,
			publisher.NodeID,
			loadhook.NodeID,
			telemetry.TracerNodeID,
			watcher.NodeID,
			daemon.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	exporter, err := graft.Dep[ports.Exporter](ctx)
	if err != nil {
		return nil, err
	}

	table, err := graft.Dep[*publisher.Table](ctx)
	if err != nil {
		return nil, err
	}

	hook, err := graft.Dep[*loadhook.Dispatcher](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	connector, err := graft.Dep[ports.DaemonConnector](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, exporter, table, hook, tracer, fsWatcher, connector), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{App: app, Logger: log}, nil
}
