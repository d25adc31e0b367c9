package export

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/unitstat/internal/adapters/telemetry"
	"go.trai.ch/unitstat/internal/core/ports"
)

// NodeID is the unique identifier for the exporter Graft node.
const NodeID graft.ID = "adapter.export"

func init() {
	graft.Register(graft.Node[ports.Exporter]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{telemetry.TracerNodeID},
		Run: func(ctx context.Context) (ports.Exporter, error) {
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			return NewRouter(os.Stdout, tracer), nil
		},
	})
}
