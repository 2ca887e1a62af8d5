// Package config holds the storage engine's own configuration shape
// and the file-based loader used to populate it outside of tests, where
// the engine is constructed directly with a literal Config.
package config

// Config controls segment sizing and the offset a brand-new log starts
// at. Zero values for the byte limits are normalised by log.NewLog, not
// here, so a zero-value Config is always a legal input.
type Config struct {
	Segment struct {
		// MaxStoreBytes is the size, in bytes, at which a segment's
		// store is considered maxed.
		MaxStoreBytes uint64 `yaml:"max_store_bytes"`
		// MaxIndexBytes is the size, in bytes, at which a segment's
		// index is considered maxed.
		MaxIndexBytes uint64 `yaml:"max_index_bytes"`
		// InitialOffset is the base offset used for the first segment
		// of a freshly created log.
		InitialOffset uint64 `yaml:"initial_offset"`
	} `yaml:"segment"`
}
