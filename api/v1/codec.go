package log_v1

import (
	"encoding/binary"
	"fmt"
)

const offsetWidth = 8

// BinaryCodec is the default Codec collaborator: offset:u64 BE followed
// by the raw value. It exists so the engine and its tests have something
// concrete to drive without depending on a generated schema — a real
// deployment supplies its own Codec (protobuf, a custom binary format,
// whatever the transport layer already speaks).
type BinaryCodec struct{}

// Encode implements Codec.
func (BinaryCodec) Encode(r *Record) ([]byte, error) {
	b := make([]byte, offsetWidth+len(r.Value))
	binary.BigEndian.PutUint64(b[:offsetWidth], r.Offset)
	copy(b[offsetWidth:], r.Value)
	return b, nil
}

// Decode implements Codec.
func (BinaryCodec) Decode(b []byte) (*Record, error) {
	if len(b) < offsetWidth {
		return nil, fmt.Errorf("log_v1: short record: %d bytes", len(b))
	}
	return &Record{
		Offset: binary.BigEndian.Uint64(b[:offsetWidth]),
		Value:  append([]byte(nil), b[offsetWidth:]...),
	}, nil
}
