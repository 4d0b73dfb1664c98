package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/cas"     //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/metrics" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds what the command line needs from the dependency graph.
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
			cas.NodeID,
			fs.HasherNodeID,
			fs.SourceNodeID,
			fs.SinkNodeID,
			metrics.NodeID,
			watcher.NodeID,
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
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
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

	store, err := graft.Dep[ports.BuildInfoStore](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	source, err := graft.Dep[ports.FileSource](ctx)
	if err != nil {
		return nil, err
	}

	sink, err := graft.Dep[ports.FileSink](ctx)
	if err != nil {
		return nil, err
	}

	recorder, err := graft.Dep[ports.Metrics](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, store, hasher, source, sink, recorder, w), nil
}
