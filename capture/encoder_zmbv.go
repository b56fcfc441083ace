package capture

import (
	"bytes"
	"compress/flate"
	"fmt"
)

// zmbvKeyframeInterval forces a keyframe at least this often even with no
// explicit request, bounding how far a decoder must seek back to resync.
const zmbvKeyframeInterval = 300

// ZMBVEncoder maintains an XOR-delta against the previous frame and
// deflates the result, matching the original ZMBV codec's two-stage
// design (pixel-domain delta, then general-purpose entropy coding).
type ZMBVEncoder struct {
	width, height int
	prev          []byte
	cur           Frame
	frameIndex    int
	forceKey      bool
}

func NewZMBVEncoder() *ZMBVEncoder { return &ZMBVEncoder{} }

func (e *ZMBVEncoder) SetupCompress(format PixelFormat, width, height int) error {
	if format != FormatRGB24 {
		return fmt.Errorf("capture: zmbv encoder only accepts RGB24, got %v", format)
	}
	e.width, e.height = width, height
	e.prev = nil
	e.frameIndex = 0
	return nil
}

func (e *ZMBVEncoder) NeededBufSize() int {
	return e.width*e.height*3 + 16
}

// RequestKeyframe forces the next CompressLines call to encode an
// un-delta'd frame.
func (e *ZMBVEncoder) RequestKeyframe() { e.forceKey = true }

func (e *ZMBVEncoder) PrepareFrame(f Frame) { e.cur = f }

func (e *ZMBVEncoder) CompressLines() ([]byte, bool, error) {
	isKey := e.forceKey || e.prev == nil || e.frameIndex%zmbvKeyframeInterval == 0
	e.forceKey = false

	raw := e.cur.RGB
	payload := make([]byte, len(raw))
	if isKey {
		copy(payload, raw)
	} else {
		for i := range raw {
			payload[i] = raw[i] ^ e.prev[i]
		}
	}

	var buf bytes.Buffer
	buf.WriteByte(boolByte(isKey))
	fw, err := flate.NewWriter(&buf, flate.BestSpeed)
	if err != nil {
		return nil, false, err
	}
	if _, err := fw.Write(payload); err != nil {
		return nil, false, err
	}
	if err := fw.Close(); err != nil {
		return nil, false, err
	}

	if e.prev == nil {
		e.prev = make([]byte, len(raw))
	}
	copy(e.prev, raw)
	e.frameIndex++

	return buf.Bytes(), isKey, nil
}

func (e *ZMBVEncoder) FinishFrame() {}

func (e *ZMBVEncoder) FourCC() [4]byte { return [4]byte{'Z', 'M', 'B', 'V'} }

func (e *ZMBVEncoder) Name() string { return "ZMBV" }

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
