package ports

import "context"

// Inspectable is an object whose state can be queried by inspection tools.
type Inspectable interface {
	// Inspect returns a point-in-time view of the object's attributes.
	// Values are limited to strings, bools, numbers and slices or maps of those.
	Inspect(ctx context.Context) (map[string]any, error)
}
