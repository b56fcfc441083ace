// Package savestate implements the persisted-state record: a `<name>/`
// directory holding `state.bin` (chunked binary component state),
// `state.ini` (frozen config snapshot), `state.txt` (user description),
// `state.png` (screenshot thumbnail), and the staged pause/reset/restore
// sequence that feeds state.bin back into each registered component in
// registration order, verifying the tag of every chunk as it's consumed.
package savestate

import (
	"encoding/binary"
	"fmt"
	"io"
)

// tagLen is the tag width of the {tag, size} header every component's state is
// wrapped in: an 8-byte, NUL-padded ASCII tag followed by a uint32 byte
// count, mirroring the original's StateBuf `{size, tag}` log.
const tagLen = 8

// ChunkWriter wraps an io.Writer, tracking the framing for one component's
// state block.
type ChunkWriter struct {
	w io.Writer
}

func NewChunkWriter(w io.Writer) *ChunkWriter { return &ChunkWriter{w: w} }

// WriteChunk emits one tagged block: the tag (truncated/padded to 8
// bytes), a little-endian uint32 length, then the payload.
func (cw *ChunkWriter) WriteChunk(tag string, payload []byte) error {
	header := make([]byte, tagLen+4)
	copy(header, padTag(tag))
	binary.LittleEndian.PutUint32(header[tagLen:], uint32(len(payload)))
	if _, err := cw.w.Write(header); err != nil {
		return fmt.Errorf("savestate: write chunk header %q: %w", tag, err)
	}
	if _, err := cw.w.Write(payload); err != nil {
		return fmt.Errorf("savestate: write chunk payload %q: %w", tag, err)
	}
	return nil
}

// ChunkReader wraps an io.Reader, reading tagged blocks back in order.
type ChunkReader struct {
	r io.Reader
}

func NewChunkReader(r io.Reader) *ChunkReader { return &ChunkReader{r: r} }

// ReadChunk reads the next tagged block and verifies its tag matches
// wantTag; a mismatch means the state file and the registration order it
// is being fed into have diverged.
func (cr *ChunkReader) ReadChunk(wantTag string) ([]byte, error) {
	header := make([]byte, tagLen+4)
	if _, err := io.ReadFull(cr.r, header); err != nil {
		return nil, fmt.Errorf("savestate: read chunk header for %q: %w", wantTag, err)
	}
	gotTag := unpadTag(header[:tagLen])
	if gotTag != wantTag {
		return nil, fmt.Errorf("savestate: chunk tag mismatch: want %q, got %q", wantTag, gotTag)
	}
	size := binary.LittleEndian.Uint32(header[tagLen:])
	payload := make([]byte, size)
	if _, err := io.ReadFull(cr.r, payload); err != nil {
		return nil, fmt.Errorf("savestate: read chunk payload %q: %w", wantTag, err)
	}
	return payload, nil
}

func padTag(tag string) []byte {
	b := make([]byte, tagLen)
	copy(b, tag)
	return b
}

func unpadTag(b []byte) string {
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return string(b[:n])
}
