package capture

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// aviRotationLimit is the near-limit threshold at which the writer closes
// the current file and opens a new numbered one, staying safely under the
// classic 4GiB RIFF size-field ceiling.
const aviRotationLimit = 4*1024*1024*1024 - 16*1024*1024

// aviIndexEntry is one idx1 record: fourcc, flags, chunk offset (relative
// to the first movi data byte) and chunk size.
type aviIndexEntry struct {
	fourcc [4]byte
	flags  uint32
	offset uint32
	size   uint32
}

const aviKeyframeFlag = 0x10

// AVIWriter streams a RIFF/AVI container: LIST/hdrl, LIST/INFO, LIST/movi
// with interleaved video and `01wb` audio chunks, then idx1. Video chunks
// are always tagged `00dc`, whatever the encoder.
// Rotation on size or mode change starts a fresh numbered file, each one a
// fully self-contained, independently-playable AVI.
type AVIWriter struct {
	dir        string
	baseName   string
	seq        int
	sessionID  uuid.UUID

	f          *os.File
	w          *bufio.Writer
	written    int64
	movStart   int64
	moviList   int64
	frameCount uint32
	index      []aviIndexEntry

	width, height int
	fps           float64
	videoFourCC   [4]byte
	audioRate     int
	audioChannels int
}

func NewAVIWriter(dir, baseName string, width, height int, fps float64, videoFourCC [4]byte, audioRate, audioChannels int) *AVIWriter {
	return &AVIWriter{
		dir: dir, baseName: baseName,
		sessionID: uuid.New(),
		width: width, height: height, fps: fps,
		videoFourCC: videoFourCC, audioRate: audioRate, audioChannels: audioChannels,
	}
}

// SessionID is the capture session's correlation id. The writer does not
// log it or write it into the AVI file; it is only returned here.
func (w *AVIWriter) SessionID() uuid.UUID { return w.sessionID }

func (w *AVIWriter) Open() error {
	path := fmt.Sprintf("%s/%s_%04d.avi", w.dir, w.baseName, w.seq)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w.f = f
	w.w = bufio.NewWriter(f)
	w.written = 0
	w.frameCount = 0
	w.index = w.index[:0]
	return w.writeHeaders()
}

func (w *AVIWriter) writeHeaders() error {
	// RIFF header with a placeholder size, fixed up on Close.
	w.writeFourCC([4]byte{'R', 'I', 'F', 'F'})
	w.writeU32(0)
	w.writeFourCC([4]byte{'A', 'V', 'I', ' '})

	hdrl := w.beginList([4]byte{'h', 'd', 'r', 'l'})
	w.writeChunk([4]byte{'a', 'v', 'i', 'h'}, w.mainHeader())
	strl := w.beginList([4]byte{'s', 't', 'r', 'l'})
	w.writeChunk([4]byte{'s', 't', 'r', 'h'}, w.videoStreamHeader())
	w.writeChunk([4]byte{'s', 't', 'r', 'f'}, w.videoStreamFormat())
	w.endList(strl)
	if w.audioRate > 0 {
		strl2 := w.beginList([4]byte{'s', 't', 'r', 'l'})
		w.writeChunk([4]byte{'s', 't', 'r', 'h'}, w.audioStreamHeader())
		w.writeChunk([4]byte{'s', 't', 'r', 'f'}, w.audioStreamFormat())
		w.endList(strl2)
	}
	w.endList(hdrl)

	info := w.beginList([4]byte{'I', 'N', 'F', 'O'})
	w.writeChunk([4]byte{'I', 'S', 'F', 'T'}, []byte("ps1core capture\x00"))
	w.endList(info)

	w.movStart = w.written
	w.moviList = w.beginList([4]byte{'m', 'o', 'v', 'i'})
	return nil
}

func (w *AVIWriter) mainHeader() []byte {
	b := make([]byte, 56)
	binary.LittleEndian.PutUint32(b[0:], uint32(1_000_000/w.fps))
	binary.LittleEndian.PutUint32(b[12:], 0x10) // AVIF_HASINDEX
	binary.LittleEndian.PutUint32(b[16:], w.frameCount)
	streams := uint32(1)
	if w.audioRate > 0 {
		streams = 2
	}
	binary.LittleEndian.PutUint32(b[24:], streams)
	binary.LittleEndian.PutUint32(b[32:], uint32(w.width))
	binary.LittleEndian.PutUint32(b[36:], uint32(w.height))
	return b
}

func (w *AVIWriter) videoStreamHeader() []byte {
	b := make([]byte, 56)
	copy(b[0:4], "vids")
	copy(b[4:8], w.videoFourCC[:])
	binary.LittleEndian.PutUint32(b[20:], 1)             // scale
	binary.LittleEndian.PutUint32(b[24:], uint32(w.fps)) // rate
	binary.LittleEndian.PutUint32(b[32:], w.frameCount)
	return b
}

func (w *AVIWriter) videoStreamFormat() []byte {
	b := make([]byte, 40)
	binary.LittleEndian.PutUint32(b[0:], 40)
	binary.LittleEndian.PutUint32(b[4:], uint32(w.width))
	binary.LittleEndian.PutUint32(b[8:], uint32(w.height))
	binary.LittleEndian.PutUint16(b[12:], 1)
	binary.LittleEndian.PutUint16(b[14:], 24)
	copy(b[16:20], w.videoFourCC[:])
	binary.LittleEndian.PutUint32(b[20:], uint32(w.width*w.height*3))
	return b
}

func (w *AVIWriter) audioStreamHeader() []byte {
	b := make([]byte, 56)
	copy(b[0:4], "auds")
	binary.LittleEndian.PutUint32(b[20:], 1)
	binary.LittleEndian.PutUint32(b[24:], uint32(w.audioRate))
	return b
}

func (w *AVIWriter) audioStreamFormat() []byte {
	b := make([]byte, 16)
	binary.LittleEndian.PutUint16(b[0:], 1) // PCM
	binary.LittleEndian.PutUint16(b[2:], uint16(w.audioChannels))
	binary.LittleEndian.PutUint32(b[4:], uint32(w.audioRate))
	bytesPerSec := w.audioRate * w.audioChannels * 2
	binary.LittleEndian.PutUint32(b[8:], uint32(bytesPerSec))
	binary.LittleEndian.PutUint16(b[12:], uint16(w.audioChannels*2))
	binary.LittleEndian.PutUint16(b[14:], 16)
	return b
}

// WriteVideoChunk writes one "00dc" (compressed) chunk and projects whether
// the file needs rotation before the NEXT frame.
func (w *AVIWriter) WriteVideoChunk(data []byte, keyframe bool) (needsRotation bool) {
	off := uint32(w.written - w.movStart - 8)
	w.writeChunk([4]byte{'0', '0', 'd', 'c'}, data)
	flags := uint32(0)
	if keyframe {
		flags = aviKeyframeFlag
	}
	w.index = append(w.index, aviIndexEntry{[4]byte{'0', '0', 'd', 'c'}, flags, off, uint32(len(data))})
	w.frameCount++
	return w.written+int64(w.NeededNextChunkMax()) > aviRotationLimit
}

// WriteAudioChunk writes one "01wb" audio chunk.
func (w *AVIWriter) WriteAudioChunk(data []byte) {
	off := uint32(w.written - w.movStart - 8)
	w.writeChunk([4]byte{'0', '1', 'w', 'b'}, data)
	w.index = append(w.index, aviIndexEntry{[4]byte{'0', '1', 'w', 'b'}, 0, off, uint32(len(data))})
}

// NeededNextChunkMax is a conservative upper bound used for the
// near-limit rotation check: one full video frame plus a generous audio
// chunk allowance.
func (w *AVIWriter) NeededNextChunkMax() int64 {
	return int64(w.width*w.height*3) + 65536
}

func (w *AVIWriter) Close() error {
	w.endList(w.moviList)

	idxBuf := make([]byte, 0, len(w.index)*16)
	for _, e := range w.index {
		rec := make([]byte, 16)
		copy(rec[0:4], e.fourcc[:])
		binary.LittleEndian.PutUint32(rec[4:], e.flags)
		binary.LittleEndian.PutUint32(rec[8:], e.offset)
		binary.LittleEndian.PutUint32(rec[12:], e.size)
		idxBuf = append(idxBuf, rec...)
	}
	w.writeChunk([4]byte{'i', 'd', 'x', '1'}, idxBuf)

	if err := w.w.Flush(); err != nil {
		return err
	}
	// Fix up the RIFF size field (total file size minus the 8-byte RIFF
	// header) now that the final length is known.
	if _, err := w.f.Seek(4, 0); err != nil {
		return err
	}
	sizeBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(sizeBuf, uint32(w.written-8))
	if _, err := w.f.WriteAt(sizeBuf, 4); err != nil {
		return err
	}
	return w.f.Close()
}

// Rotate closes the current file and opens the next numbered one,
// returning the new file's session-relative sequence number.
func (w *AVIWriter) Rotate() (int, error) {
	if err := w.Close(); err != nil {
		return w.seq, err
	}
	w.seq++
	return w.seq, w.Open()
}

// --- low-level RIFF chunk plumbing ---

func (w *AVIWriter) beginList(kind [4]byte) int64 {
	w.writeFourCC([4]byte{'L', 'I', 'S', 'T'})
	off := w.written
	w.writeU32(0)
	w.writeFourCC(kind)
	return off
}

func (w *AVIWriter) endList(sizeOffset int64) {
	size := uint32(w.written - sizeOffset - 4)
	w.patchU32(sizeOffset, size)
}

func (w *AVIWriter) writeChunk(fourcc [4]byte, data []byte) {
	w.writeFourCC(fourcc)
	w.writeU32(uint32(len(data)))
	w.writeBytes(data)
	if len(data)%2 == 1 {
		w.writeBytes([]byte{0})
	}
}

func (w *AVIWriter) writeFourCC(f [4]byte) { w.writeBytes(f[:]) }

func (w *AVIWriter) writeU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.writeBytes(b[:])
}

func (w *AVIWriter) writeBytes(b []byte) {
	w.w.Write(b)
	w.written += int64(len(b))
}

// patchU32 flushes the buffered writer then seeks back to patch a
// previously-written size field; used only at list/file close, never in
// the per-chunk hot path.
func (w *AVIWriter) patchU32(offset int64, v uint32) {
	w.w.Flush()
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.f.WriteAt(b[:], offset)
}
