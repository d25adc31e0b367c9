package loadhook

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the load hook Graft node.
const NodeID graft.ID = "adapter.loadhook"

func init() {
	graft.Register(graft.Node[*Dispatcher]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Dispatcher, error) {
			return NewDispatcher(), nil
		},
	})
}
