package ports

// LoadHook is the injection point the host runtime notifies on every unit load.
//
//go:generate mockgen -source=load_hook.go -destination=mocks/mock_load_hook.go -package=mocks
type LoadHook interface {
	// Install registers onLoad to be called with the qualified name of each loaded unit.
	// onLoad may be called concurrently and must not block.
	Install(onLoad func(name string)) error

	// Uninstall removes the registered callback. It is a no-op when nothing is installed.
	Uninstall() error
}
