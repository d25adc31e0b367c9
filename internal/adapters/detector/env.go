// Package detector provides environment detection for log format selection.
package detector

import (
	"os"

	"go.trai.ch/unitstat/internal/core/domain"
	"golang.org/x/term"
)

// DetectEnvironment returns the log format suited to the current environment.
// Pretty output is used when stderr is a terminal and no CI variable is set.
func DetectEnvironment() domain.LogFormat {
	return detect(term.IsTerminal(int(os.Stderr.Fd())))
}

func detect(isTTY bool) domain.LogFormat {
	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return domain.LogFormatJSON
	}
	return domain.LogFormatPretty
}

// ResolveLogFormat applies the configured or requested format to the detected one.
func ResolveLogFormat(detected, requested domain.LogFormat) domain.LogFormat {
	switch requested {
	case domain.LogFormatPretty, domain.LogFormatJSON:
		return requested
	default:
		return detected
	}
}
