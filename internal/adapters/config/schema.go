package config

// Unitfile represents the structure of the unitstat.yaml configuration file.
type Unitfile struct {
	Version           string     `yaml:"version"`
	Roots             []string   `yaml:"roots"`
	UnitExtensions    []string   `yaml:"unit_extensions"`
	ArchiveExtensions []string   `yaml:"archive_extensions"`
	Naming            *NamingDTO `yaml:"naming"`
	ConflictPolicy    string     `yaml:"conflict_policy"`
	ExportURI         string     `yaml:"export_uri"`
	Socket            string     `yaml:"socket"`
	Watch             bool       `yaml:"watch"`
	Debounce          string     `yaml:"debounce"`
	LogFormat         string     `yaml:"log_format"`
}

// NamingDTO represents the naming section of the configuration.
type NamingDTO struct {
	Level      *int   `yaml:"level"`
	Statistics string `yaml:"statistics"`
	Inventory  string `yaml:"inventory"`
}
