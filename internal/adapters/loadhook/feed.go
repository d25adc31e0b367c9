package loadhook

import (
	"bufio"
	"context"
	"io"
	"strings"

	"go.trai.ch/unitstat/internal/core/domain"
)

const (
	legacyPrefix   = "[Loaded "
	legacySuffix   = " from "
	unifiedTag     = "[class,load]"
	maxLineLength  = 1 << 20
	initialBufSize = 64 * 1024
)

// Feed reads a class-loading trace from r and calls notify for every load it recognises.
// It returns the number of events delivered.
//
// Three line forms are understood:
//
//	[Loaded a.b.C from file:/app/lib.jar]
//	[0.015s][info][class,load] a.b.C source: jrt:/java.base
//	a.b.C
//
// Blank lines, lines starting with '#' and anything else are ignored.
func Feed(ctx context.Context, r io.Reader, notify func(name string)) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, initialBufSize), maxLineLength)

	delivered := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return delivered, err
		}
		if name, ok := ParseLine(sc.Text()); ok {
			notify(name)
			delivered++
		}
	}
	if err := sc.Err(); err != nil {
		return delivered, domain.Cause(domain.ErrEventReadFailed, err)
	}
	return delivered, nil
}

// ParseLine extracts the qualified unit name from one trace line.
func ParseLine(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", false
	}

	if rest, ok := strings.CutPrefix(line, legacyPrefix); ok {
		name, _, found := strings.Cut(rest, legacySuffix)
		if !found {
			name = strings.TrimSuffix(rest, "]")
		}
		return validName(name)
	}

	if _, rest, ok := strings.Cut(line, unifiedTag); ok {
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return "", false
		}
		return validName(fields[0])
	}

	if strings.ContainsAny(line, " \t[]") {
		return "", false
	}
	return validName(line)
}

func validName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, " \t") {
		return "", false
	}
	return name, true
}
