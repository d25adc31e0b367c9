// Package naming derives the management names objects are published under.
package naming

import (
	"strings"

	"go.trai.ch/unitstat/internal/core/domain"
)

const (
	// DefaultDomain is used for single-segment names that carry no domain of their own.
	DefaultDomain = "default"

	typeKey = "type"
	nameKey = "name"

	// reserved holds the characters that delimit the domain and the property list.
	reserved = ":,="
)

// Resolve maps a qualified name to its management name.
//
// The first max(level, 1) segments form the domain and the last segment is the name property.
// Every segment in between becomes a nested property: the first is keyed "type", each following
// one is keyed by the value before it. The domain never absorbs the last segment, so a level
// larger than the name supports degrades to the deepest possible split.
//
// A name without a separator that already contains ':' is treated as a finished identifier and
// returned verbatim. Otherwise no segment may contain ':', ',' or '='.
func Resolve(qualifiedName string, level int) (domain.ManagementName, error) {
	if level < 0 {
		return domain.ManagementName{}, domain.Tag(domain.ErrInvalidLevel, "level", level)
	}
	if qualifiedName == "" {
		return domain.ManagementName{}, domain.Tag(domain.ErrInvalidName, "name", qualifiedName)
	}

	if !strings.Contains(qualifiedName, domain.NamespaceSeparator) {
		if strings.Contains(qualifiedName, ":") {
			return domain.NewLiteralManagementName(qualifiedName), nil
		}
		if strings.ContainsAny(qualifiedName, reserved) {
			return domain.ManagementName{}, domain.Tag(domain.ErrInvalidName, "name", qualifiedName)
		}
		return domain.ManagementName{
			Domain:     DefaultDomain,
			Properties: []domain.Property{{Key: nameKey, Value: qualifiedName}},
		}, nil
	}

	segments := strings.Split(qualifiedName, domain.NamespaceSeparator)
	for _, s := range segments {
		if s == "" || strings.ContainsAny(s, reserved) {
			return domain.ManagementName{}, domain.Tag(domain.ErrInvalidName, "name", qualifiedName)
		}
	}

	split := min(max(level, 1), len(segments)-1)
	leaf := segments[len(segments)-1]
	interior := segments[split : len(segments)-1]

	props := make([]domain.Property, 0, len(interior)+1)
	key := typeKey
	for _, s := range interior {
		props = append(props, domain.Property{Key: key, Value: s})
		key = s
	}
	props = append(props, domain.Property{Key: nameKey, Value: leaf})

	return domain.ManagementName{
		Domain:     strings.Join(segments[:split], domain.NamespaceSeparator),
		Properties: props,
	}, nil
}
