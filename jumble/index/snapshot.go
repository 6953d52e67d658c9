package index

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ZanzyTHEbar/jumble-solver/jumble/common"
	"github.com/ZanzyTHEbar/jumble-solver/jumble/signature"

	"github.com/google/uuid"
)

const (
	snapshotVersion = 2
	// maxFieldLen bounds any length prefix read back from a snapshot.
	maxFieldLen = 1 << 26
)

// snapshotMagic opens with a non-text byte and a CRLF/EOF guard so no word
// list line can be mistaken for a snapshot header.
var snapshotMagic = []byte("\x89JBSN\r\n\x1a\n")

// WriteSnapshot encodes the index in the versioned little-endian format:
//
//	[magic "\x89JBSN\r\n\x1a\n"] [u32 version] [16B build id] [i64 build unix]
//	[u64 lines] [u64 skipped] [u32 entries]
//	per entry: [u32 len][signature] [u32 words] per word: [u32 len][word]
//
// Lines and skipped carry the source word list's counters so Stats reads the
// same whether the index was parsed or decoded.
// Entries are written in ascending signature order, words in first-seen order.
func (idx *SignatureIndex) WriteSnapshot(w io.Writer) error {
	sw := &snapshotWriter{w: bufio.NewWriter(w)}

	sw.bytes(snapshotMagic)
	sw.u32(snapshotVersion)
	sw.bytes(idx.buildID[:])
	sw.i64(idx.builtAt.Unix())
	sw.u64(uint64(idx.stats.Lines))
	sw.u64(uint64(idx.stats.Skipped))
	sw.u32(uint32(idx.Size()))

	idx.Walk(func(sig signature.Signature, words []string) bool {
		sw.str(string(sig))
		sw.u32(uint32(len(words)))
		for _, word := range words {
			sw.str(word)
		}
		return sw.err != nil
	})

	if sw.err != nil {
		return sw.err
	}
	return sw.w.Flush()
}

// ReadSnapshot decodes an index written by WriteSnapshot. WordIDs are
// re-derived in file order.
func ReadSnapshot(r io.Reader) (*SignatureIndex, error) {
	sr := &snapshotReader{r: r}

	magic := sr.bytes(len(snapshotMagic))
	if sr.err == nil && string(magic) != string(snapshotMagic) {
		return nil, fmt.Errorf("%w: bad magic %q", common.ErrBadSnapshot, magic)
	}
	version := sr.u32()
	if sr.err == nil && version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", common.ErrBadSnapshot, version)
	}
	rawID := sr.bytes(16)
	builtAt := sr.i64()
	lines := sr.u64()
	skipped := sr.u64()
	entries := sr.u32()
	if sr.err != nil {
		return nil, sr.failure()
	}

	buildID, err := uuid.FromBytes(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBadSnapshot, err)
	}

	b := newBuilder(buildID, time.Unix(builtAt, 0))
	for i := uint32(0); i < entries; i++ {
		sig := signature.Signature(sr.str())
		count := sr.u32()
		for j := uint32(0); j < count && sr.err == nil; j++ {
			word := sr.str()
			if sr.err == nil {
				b.add(sig, word)
			}
		}
		if sr.err != nil {
			return nil, sr.failure()
		}
	}

	b.idx.stats.Lines = int(lines)
	b.idx.stats.Skipped = int(skipped)
	idx := b.finish()
	if errs := idx.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", common.ErrBadSnapshot, errors.Join(errs...))
	}
	return idx, nil
}

// PersistSnapshot writes the index snapshot to path.
func PersistSnapshot(path string, idx *SignatureIndex) error {
	f, err := os.Create(path)
	if err != nil {
		return common.NewResourceError("create snapshot", path, err)
	}
	if err := idx.WriteSnapshot(f); err != nil {
		f.Close()
		return common.NewResourceError("write snapshot", path, err)
	}
	if err := f.Close(); err != nil {
		return common.NewResourceError("write snapshot", path, err)
	}

	slog.Debug("Snapshot persisted", "path", path, "build_id", idx.buildID, "signatures", idx.Size())
	return nil
}

// LoadSnapshot reads a snapshot persisted with PersistSnapshot.
func LoadSnapshot(path string) (*SignatureIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.NewResourceError("open snapshot", path, err)
	}
	defer f.Close()

	idx, err := ReadSnapshot(bufio.NewReader(f))
	if err != nil {
		return nil, common.NewResourceError("load snapshot", path, err)
	}
	return idx, nil
}

// snapshotWriter latches the first write error.
type snapshotWriter struct {
	w   *bufio.Writer
	err error
	buf [8]byte
}

func (sw *snapshotWriter) bytes(p []byte) {
	if sw.err == nil {
		_, sw.err = sw.w.Write(p)
	}
}

func (sw *snapshotWriter) u32(v uint32) {
	binary.LittleEndian.PutUint32(sw.buf[:4], v)
	sw.bytes(sw.buf[:4])
}

func (sw *snapshotWriter) u64(v uint64) {
	binary.LittleEndian.PutUint64(sw.buf[:8], v)
	sw.bytes(sw.buf[:8])
}

func (sw *snapshotWriter) i64(v int64) {
	sw.u64(uint64(v))
}

func (sw *snapshotWriter) str(s string) {
	sw.u32(uint32(len(s)))
	if sw.err == nil {
		_, sw.err = sw.w.WriteString(s)
	}
}

// snapshotReader latches the first read error.
type snapshotReader struct {
	r   io.Reader
	err error
}

func (sr *snapshotReader) bytes(n int) []byte {
	if sr.err != nil {
		return nil
	}
	p := make([]byte, n)
	_, sr.err = io.ReadFull(sr.r, p)
	return p
}

func (sr *snapshotReader) u32() uint32 {
	p := sr.bytes(4)
	if sr.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(p)
}

func (sr *snapshotReader) u64() uint64 {
	p := sr.bytes(8)
	if sr.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(p)
}

func (sr *snapshotReader) i64() int64 {
	return int64(sr.u64())
}

func (sr *snapshotReader) str() string {
	n := sr.u32()
	if sr.err != nil {
		return ""
	}
	if n > maxFieldLen {
		sr.err = fmt.Errorf("%w: field length %d exceeds limit", common.ErrBadSnapshot, n)
		return ""
	}
	return string(sr.bytes(int(n)))
}

// failure maps a latched read error onto ErrBadSnapshot.
func (sr *snapshotReader) failure() error {
	if errors.Is(sr.err, common.ErrBadSnapshot) {
		return sr.err
	}
	if errors.Is(sr.err, io.EOF) || errors.Is(sr.err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated: %w", common.ErrBadSnapshot, sr.err)
	}
	return sr.err
}
