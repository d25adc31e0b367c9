package domain

// UnitRecord is the usage counter of one loadable unit.
type UnitRecord struct {
	// Name is the qualified name of the unit, unique within a snapshot.
	Name string
	// LoadCount is the number of observed load events.
	LoadCount uint64
}

// IsDead reports whether the unit was never observed being loaded.
func (r UnitRecord) IsDead() bool {
	return r.LoadCount == 0
}

// EntryKind describes how a unit is stored on the search path.
type EntryKind uint8

const (
	// KindLoose is a unit stored as a plain file in a directory tree.
	KindLoose EntryKind = iota
	// KindPackaged is a unit stored inside an archive.
	KindPackaged
)

// String returns the lowercase name of the kind.
func (k EntryKind) String() string {
	switch k {
	case KindPackaged:
		return "packaged"
	case KindLoose:
		return "loose"
	default:
		return "unknown"
	}
}

// PathEntry is one loadable unit found on the search path.
type PathEntry struct {
	// Name is the qualified name derived from the unit's location.
	Name string
	// Source is the archive or directory root the unit was found in.
	Source InternedString
	// Kind tells whether the unit is packaged or loose.
	Kind EntryKind
}
