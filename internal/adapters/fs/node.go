package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/logger" //nolint:depguard // Source reports skipped entries
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	// WalkerNodeID is the unique identifier for the walker Graft node.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// ResolverNodeID is the unique identifier for the resolver Graft node.
	ResolverNodeID graft.ID = "adapter.fs.resolver"
	// HasherNodeID is the unique identifier for the hasher Graft node.
	HasherNodeID graft.ID = "adapter.fs.hasher"
	// SourceNodeID is the unique identifier for the file source Graft node.
	SourceNodeID graft.ID = "adapter.fs.source"
	// SinkNodeID is the unique identifier for the file sink Graft node.
	SinkNodeID graft.ID = "adapter.fs.sink"
)

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[*Resolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID},
		Run: func(ctx context.Context) (*Resolver, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(walker), nil
		},
	})

	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})

	graft.Register(graft.Node[ports.FileSource]{
		ID:        SourceNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ResolverNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.FileSource, error) {
			resolver, err := graft.Dep[*Resolver](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewSource(resolver, log), nil
		},
	})

	graft.Register(graft.Node[ports.FileSink]{
		ID:        SinkNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FileSink, error) {
			return NewSink(), nil
		},
	})
}
