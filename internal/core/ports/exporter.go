package ports

import "context"

// Exporter delivers CSV content produced by the usage statistics to a destination.
//
//go:generate mockgen -source=exporter.go -destination=mocks/mock_exporter.go -package=mocks
type Exporter interface {
	// Export writes header followed by lines to the destination named by uri.
	Export(ctx context.Context, uri, header string, lines []string) error
}
