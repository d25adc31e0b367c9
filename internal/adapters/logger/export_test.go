// export_test.go exports private functions for white-box testing.
package logger

type ErrorEntry = errorEntry

// CausesKey is the attribute key Logger.Error uses for the cause chain.
const CausesKey = causesKey

var (
	CollectErrorEntries = collectErrorEntries
	MetadataAttrs       = metadataAttrs
)
