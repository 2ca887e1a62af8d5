package log

import (
	"fmt"
	"os"
	"path"

	api "github.com/NguyenLe1605/proglog/api/v1"
)

// segment pairs one store and one index, binding the absolute offset
// space of the log to byte positions within its own files. baseOffset is
// the absolute offset of the first record this segment will hold;
// nextOffset is the absolute offset the next Append will receive.
type segment struct {
	store      *Store
	index      *index
	baseOffset uint64
	nextOffset uint64
	config     Config
	codec      api.Codec
	storePath  string
	indexPath  string
	closed     bool
}

// newSegment creates a new segment for the log, initializing its store and index.
// It opens or creates the store and index files in the specified directory,
// using the base offset for naming. The store file is opened in append mode,
// while the index file is opened for reading and writing. The segment's next
// offset is set based on the last entry in the index or defaults to the base
// offset if the index is empty. It returns a pointer to the new segment and
// an error, if any.
func newSegment(dir string, baseOffset uint64, c Config, codec api.Codec) (*segment, error) {

	s := &segment{
		baseOffset: baseOffset,
		config:     c,
		codec:      codec,
		storePath:  path.Join(dir, fmt.Sprintf("%d%s", baseOffset, ".store")),
		indexPath:  path.Join(dir, fmt.Sprintf("%d%s", baseOffset, ".index")),
	}

	var err error

	storeFile, err := os.OpenFile(
		s.storePath,
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0644,
	)

	if err != nil {
		return nil, err
	}

	if s.store, err = newStore(storeFile); err != nil {
		return nil, err
	}

	indexFile, err := os.OpenFile(
		s.indexPath,
		os.O_RDWR|os.O_CREATE,
		0644,
	)

	if err != nil {
		return nil, err
	}

	if s.index, err = newIndex(indexFile, c); err != nil {
		return nil, err
	}

	if off, _, err := s.index.Read(-1); err != nil {
		s.nextOffset = baseOffset
	} else {
		s.nextOffset = baseOffset + uint64(off) + 1
	}

	return s, nil

}

// Append adds a new record to the segment. It sets the record's offset,
// encodes it with the segment's codec, appends the encoded bytes to the
// store, and records the (relative offset, position) pair in the index.
// It returns the offset assigned to the record and any error encountered.
func (s *segment) Append(record *api.Record) (offset uint64, err error) {
	cur := s.nextOffset
	record.Offset = cur

	p, err := s.codec.Encode(record)

	if err != nil {
		return 0, err
	}
	_, pos, err := s.store.Append(p)

	if err != nil {
		return 0, err
	}

	if err = s.index.Write(
		uint32(s.nextOffset-s.baseOffset),
		pos,
	); err != nil {
		return 0, err
	}

	s.nextOffset++

	return cur, nil
}

// Read retrieves a record from the segment at the given absolute offset.
// It returns an error if the offset is out of bounds for this segment or
// if there is an error reading from the store or index.
func (s *segment) Read(offset uint64) (*api.Record, error) {

	if offset < s.baseOffset {
		return nil, api.ErrorOffsetOutOfRange{Offset: offset}
	}

	_, pos, err := s.index.Read(int64(offset - s.baseOffset))

	if err != nil {
		return nil, err
	}

	p, err := s.store.Read(pos)

	if err != nil {
		return nil, err
	}

	return s.codec.Decode(p)
}

// IsMaxed checks if the segment is at maximum capacity. A segment is at maximum
// capacity when either the store file has reached its maximum size or the index
// has reached its maximum size.
func (s *segment) IsMaxed() bool {
	return s.store.size >= s.config.Segment.MaxStoreBytes ||
		s.index.size >= s.config.Segment.MaxIndexBytes
}

// Remove closes the segment's store and index, then removes the files from disk.
// It returns any error encountered during the removal process.
func (s *segment) Remove() error {
	if err := s.Close(); err != nil {
		return err
	}
	if err := os.Remove(s.indexPath); err != nil {
		return err
	}
	if err := os.Remove(s.storePath); err != nil {
		return err
	}
	return nil
}

// Close flushes the index's memory map, synchronizes the underlying file,
// truncates it to the correct size, and closes it. It also flushes the buffer
// and closes the underlying store file. It is safe to call multiple times. It
// returns any error encountered during the close operation.
func (s *segment) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.index.Close(); err != nil {
		return err
	}

	if err := s.store.Close(); err != nil {
		return err
	}

	return nil
}
