package log

import (
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"

	api "github.com/NguyenLe1605/proglog/api/v1"
	"go.uber.org/zap"
)

// Log owns a directory of segments, the active (last) one accepting
// appends, and a cursor used by the streaming reader. Mutating
// operations take the write lock; reads by offset only need the read
// lock since they never touch the segment list itself.
type Log struct {
	mu            sync.RWMutex
	Dir           string
	Config        Config
	Codec         api.Codec
	activeSegment *segment
	segments      []*segment
	readSegment   int
	logger        *zap.Logger
}

type logReader struct {
	l *Log
}

// NewLog returns a new Log with the given directory and config. It will
// create a new segment if none exists, and set up the log ready for
// use. If Config.Segment.MaxStoreBytes or MaxIndexBytes are zero they
// default to 1024. A nil codec defaults to api.BinaryCodec{}.
func NewLog(dir string, c Config, codec api.Codec) (*Log, error) {
	if c.Segment.MaxStoreBytes == 0 {
		c.Segment.MaxStoreBytes = 1024
	}

	if c.Segment.MaxIndexBytes == 0 {
		c.Segment.MaxIndexBytes = 1024
	}

	if codec == nil {
		codec = api.BinaryCodec{}
	}

	l := &Log{
		Dir:    dir,
		Config: c,
		Codec:  codec,
		logger: zap.L().Named("log"),
	}

	return l, l.setup()
}

// setup recovers the segments already present in Dir, or creates a
// single segment at the configured initial offset when the directory is
// empty. Filenames are grouped by their parsed base offset: a segment is
// only opened once both its .store and .index halves are present, so a
// partially written pair fails loudly instead of silently mispairing
// with its neighbour.
func (l *Log) setup() error {

	files, err := os.ReadDir(l.Dir)

	if err != nil {
		return err
	}

	type pair struct{ store, index bool }
	bases := make(map[uint64]pair)

	for _, file := range files {
		name := file.Name()
		ext := path.Ext(name)
		stem := strings.TrimSuffix(name, ext)

		off, err := strconv.ParseUint(stem, 10, 64)
		if err != nil {
			return api.ErrorParse{Name: name, Err: err}
		}

		p := bases[off]
		switch ext {
		case ".store":
			p.store = true
		case ".index":
			p.index = true
		default:
			return api.ErrorParse{Name: name, Err: fmt.Errorf("unrecognised segment extension %q", ext)}
		}
		bases[off] = p
	}

	var baseOffsets []uint64
	for off, p := range bases {
		if !p.store || !p.index {
			return api.ErrorParse{
				Name: fmt.Sprintf("%d", off),
				Err:  fmt.Errorf("segment %d is missing its store or index half", off),
			}
		}
		baseOffsets = append(baseOffsets, off)
	}

	sort.Slice(baseOffsets, func(i, j int) bool {
		return baseOffsets[i] < baseOffsets[j]
	})

	for _, off := range baseOffsets {
		if err := l.newSegment(off); err != nil {
			return err
		}
	}

	if l.segments == nil {
		if err := l.newSegment(l.Config.Segment.InitialOffset); err != nil {
			return err
		}
	}

	l.readSegment = 0

	l.logger.Debug("log set up", zap.Int("segments", len(l.segments)))

	return nil
}

// Append adds a new record to the current segment. If the segment is at maximum
// capacity, it will create a new one at the next offset. It returns the offset of
// the appended record and any error encountered.
func (l *Log) Append(record *api.Record) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	off, err := l.activeSegment.Append(record)

	if err != nil {
		return 0, err
	}

	if l.activeSegment.IsMaxed() {
		l.logger.Debug("segment maxed, rolling over", zap.Uint64("next_base", off+1))
		err = l.newSegment(off + 1)
	}

	return off, err
}

// Read retrieves a record from the log at the given offset. It
// returns an error if the offset is out of bounds or if there is an
// error reading from the store or index.
func (l *Log) Read(off uint64) (*api.Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var s *segment

	for _, segment := range l.segments {
		if segment.baseOffset <= off && off < segment.nextOffset {
			s = segment
			break
		}
	}

	if s == nil || s.nextOffset <= off {
		return nil, api.ErrorOffsetOutOfRange{Offset: off}
	}

	return s.Read(off)
}

// ReadStream serves the log's sequential streaming reader. It reads from
// the segment at the cursor; when that segment's store is exhausted it
// advances the cursor and retries, so the raw length-prefixed frames of
// every segment appear back to back. It returns io.EOF once the cursor
// has moved past the last segment.
func (l *Log) ReadStream(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for {
		if l.readSegment >= len(l.segments) {
			return 0, io.EOF
		}

		n, err := l.segments[l.readSegment].store.ReadStream(p)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			return n, nil
		}

		l.readSegment++
	}
}

// Reader returns an io.Reader over the whole log's raw store bytes,
// starting from wherever the streaming cursor currently sits.
func (l *Log) Reader() io.Reader {
	return &logReader{l: l}
}

func (r *logReader) Read(p []byte) (int, error) {
	return r.l.ReadStream(p)
}

// Close closes all segments in the log. It is safe to call multiple times.
// It returns any error encountered during the close operation.
func (l *Log) Close() error {

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, segment := range l.segments {
		if err := segment.Close(); err != nil {
			return err
		}
	}
	return nil
}

// Remove removes all the files associated with the log from disk. It first calls Close
// to ensure that all in-memory data is flushed to disk. It returns any error encountered
// during the removal process.
func (l *Log) Remove() error {
	if err := l.Close(); err != nil {
		return err
	}

	return os.RemoveAll(l.Dir)
}

// Reset reinitializes the log by closing all current segments and setting up new segments.
// It ensures that all in-memory data is flushed to disk before reinitialization.
// It returns any error encountered during the close or setup operation.
func (l *Log) Reset() error {
	if err := l.Close(); err != nil {
		return err
	}

	l.segments = nil
	return l.setup()
}

// LowestOffset returns the lowest offset in the log.
func (l *Log) LowestOffset() (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.segments) == 0 {
		return 0, api.ErrorCorruptLog{Dir: l.Dir}
	}

	return l.segments[0].baseOffset, nil
}

// HighestOffset returns the highest offset in the log: the last segment's
// next offset minus one, or 0 when that next offset is 0. A log with no
// records therefore reports one below its initial offset (0 when that
// offset is 0). It returns ErrorCorruptLog if the log has no segments.
func (l *Log) HighestOffset() (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.segments) == 0 {
		return 0, api.ErrorCorruptLog{Dir: l.Dir}
	}

	off := l.segments[len(l.segments)-1].nextOffset

	if off == 0 {
		return 0, nil
	}

	return off - 1, nil
}

// Truncate removes every segment whose highest held offset is at most
// lowest, retaining the rest in order. It resets the streaming cursor to
// the start of whatever remains.
func (l *Log) Truncate(lowest uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var segments []*segment

	for _, s := range l.segments {
		if s.nextOffset <= lowest+1 {
			if err := s.Remove(); err != nil {
				return err
			}
			continue
		}
		segments = append(segments, s)
	}
	l.segments = segments
	l.readSegment = 0
	return nil
}

// newSegment creates a new segment for the log starting at the given offset.
// It initializes the segment with the log's directory and configuration, and
// appends it to the log's list of segments. It also sets the newly created
// segment as the active segment. Returns an error if the segment creation fails.
func (l *Log) newSegment(off uint64) error {
	s, err := newSegment(l.Dir, off, l.Config, l.Codec)

	if err != nil {
		return err
	}

	l.segments = append(l.segments, s)
	l.activeSegment = s

	return nil
}
