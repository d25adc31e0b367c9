package domain

import (
	"path/filepath"
	"time"
)

const (
	// StateDirName is the name of the internal state directory.
	StateDirName = ".unitstat"

	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "unitstat.yaml"

	// SocketFileName is the name of the daemon Unix socket.
	SocketFileName = "unitstat.sock"

	// NamespaceSeparator separates the segments of a qualified name.
	NamespaceSeparator = "."

	// DefaultUnitExtension is the file extension of a loose loadable unit.
	DefaultUnitExtension = ".class"

	// DefaultStatisticsName is the qualified name the usage statistics are published under.
	DefaultStatisticsName = "unitstat.usage.Statistics"

	// DefaultInventoryName is the qualified name the path inventory is published under.
	DefaultInventoryName = "unitstat.usage.PathInventory"

	// DefaultNamingLevel is the nesting level used to derive management names.
	DefaultNamingLevel = 1

	// DefaultDebounce is the quiet period before a changed search path is rescanned.
	DefaultDebounce = 500 * time.Millisecond

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600

	// SocketPerm is the permission of the daemon socket (rw-------).
	SocketPerm = 0o600
)

// DefaultArchiveExtensions returns the file extensions treated as packaged archives.
func DefaultArchiveExtensions() []string {
	return []string{".jar", ".zip"}
}

// DefaultSocketPath returns the default path of the daemon socket.
// It joins .unitstat and unitstat.sock.
func DefaultSocketPath() string {
	return filepath.Join(StateDirName, SocketFileName)
}
