package log

// Config controls segment sizing and the offset a brand-new log starts
// at. Zero values for the byte limits are normalised to 1024 by NewLog.
type Config struct {
	Segment struct {
		// MaxStoreBytes is the size, in bytes, at which a segment's
		// store is considered maxed.
		MaxStoreBytes uint64
		// MaxIndexBytes is the size, in bytes, at which a segment's
		// index is considered maxed.
		MaxIndexBytes uint64
		// InitialOffset is the base offset used for the first segment
		// of a freshly created log.
		InitialOffset uint64
	}
}
