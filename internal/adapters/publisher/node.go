package publisher

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the publication table Graft node.
const NodeID graft.ID = "adapter.publisher"

func init() {
	graft.Register(graft.Node[*Table]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Table, error) {
			return New(), nil
		},
	})
}
