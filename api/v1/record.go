// Package log_v1 defines the wire-level contract between the storage
// core and whatever surface produces and consumes records: the Record
// shape, the Codec a caller plugs in to frame it, and the error values
// the core raises.
package log_v1

// Record is the unit appended to the log. Offset is assigned by the
// segment on Append; a caller-supplied value is overwritten.
type Record struct {
	Value  []byte
	Offset uint64
}

// Codec frames a Record to and from bytes for storage. The store only
// ever sees the encoded form; it is the codec's job to make Offset
// round-trip through Decode.
type Codec interface {
	Encode(r *Record) ([]byte, error)
	Decode(b []byte) (*Record, error)
}
