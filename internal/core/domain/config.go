package domain

import "time"

// LogFormat selects the log handler.
type LogFormat string

const (
	// LogFormatAuto picks pretty output on terminals and JSON otherwise.
	LogFormatAuto LogFormat = "auto"
	// LogFormatPretty forces coloured human-readable output.
	LogFormatPretty LogFormat = "pretty"
	// LogFormatJSON forces JSON output.
	LogFormatJSON LogFormat = "json"
)

// NamingConfig controls how published objects are named.
type NamingConfig struct {
	Level      int
	Statistics string
	Inventory  string
}

// Config is the resolved configuration of unitstat.
type Config struct {
	// Path is the config file the values were read from, empty when defaults are used.
	Path              string
	Roots             []string
	UnitExtensions    []string
	ArchiveExtensions []string
	Naming            NamingConfig
	ConflictPolicy    ConflictPolicy
	ExportURI         string
	SocketPath        string
	Watch             bool
	Debounce          time.Duration
	LogFormat         LogFormat
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		UnitExtensions:    []string{DefaultUnitExtension},
		ArchiveExtensions: DefaultArchiveExtensions(),
		Naming: NamingConfig{
			Level:      DefaultNamingLevel,
			Statistics: DefaultStatisticsName,
			Inventory:  DefaultInventoryName,
		},
		ConflictPolicy: ConflictFail,
		SocketPath:     DefaultSocketPath(),
		Debounce:       DefaultDebounce,
		LogFormat:      LogFormatAuto,
	}
}
