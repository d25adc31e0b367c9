package ports

import (
	"context"

	"go.trai.ch/unitstat/internal/core/domain"
)

// Publisher makes objects discoverable by external inspection tools.
//
//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks
type Publisher interface {
	// Publish exposes obj under name. It fails with domain.ErrRegistrationConflict
	// if the name is already published.
	Publish(ctx context.Context, name domain.ManagementName, obj Inspectable) (domain.RegistrationHandle, error)

	// Unpublish removes the publication identified by handle.
	// It fails with domain.ErrNotPublished if the handle is not active.
	Unpublish(ctx context.Context, handle domain.RegistrationHandle) error
}
