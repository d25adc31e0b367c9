package ports

import (
	"context"
	"iter"

	"go.trai.ch/unitstat/internal/core/domain"
)

// PathScanner enumerates the loadable units reachable from search path roots.
//
//go:generate mockgen -source=scanner.go -destination=mocks/mock_scanner.go -package=mocks
type PathScanner interface {
	// Scan lazily yields every unit found under roots, in root order.
	// A root that cannot be scanned yields a zero entry with a non-nil error
	// and scanning continues with the next root. Every call performs a fresh scan.
	Scan(ctx context.Context, roots []string) iter.Seq2[domain.PathEntry, error]
}
