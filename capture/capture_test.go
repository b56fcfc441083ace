package capture

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibmulator-go/ps1core/chrono"
	"github.com/ibmulator-go/ps1core/queue"
)

func solidFrame(w, h int, r, g, b byte) Frame {
	buf := make([]byte, w*h*3)
	for i := 0; i < w*h; i++ {
		buf[i*3], buf[i*3+1], buf[i*3+2] = r, g, b
	}
	return Frame{Width: w, Height: h, RGB: buf}
}

func TestBMPEncoderRoundTripsOpaquePixels(t *testing.T) {
	enc := NewBMPEncoder()
	require.NoError(t, enc.SetupCompress(FormatRGB24, 4, 2))
	f := solidFrame(4, 2, 10, 20, 30)
	enc.PrepareFrame(f)
	data, keyframe, err := enc.CompressLines()
	require.NoError(t, err)
	assert.True(t, keyframe)
	assert.NotEmpty(t, data)
	assert.Equal(t, [4]byte{'D', 'I', 'B', ' '}, enc.FourCC())
}

func TestMPNGEncoderProducesDecodablePNG(t *testing.T) {
	enc := NewMPNGEncoder()
	require.NoError(t, enc.SetupCompress(FormatRGB24, 3, 3))
	f := solidFrame(3, 3, 1, 2, 3)
	enc.PrepareFrame(f)
	data, _, err := enc.CompressLines()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
}

func TestZMBVEncoderFirstFrameIsKeyframeSubsequentAreDelta(t *testing.T) {
	enc := NewZMBVEncoder()
	require.NoError(t, enc.SetupCompress(FormatRGB24, 4, 4))
	f1 := solidFrame(4, 4, 5, 5, 5)
	enc.PrepareFrame(f1)
	_, key1, err := enc.CompressLines()
	require.NoError(t, err)
	assert.True(t, key1)

	f2 := solidFrame(4, 4, 5, 5, 5)
	enc.PrepareFrame(f2)
	_, key2, err := enc.CompressLines()
	require.NoError(t, err)
	assert.False(t, key2)
}

func TestZMBVEncoderForcesPeriodicKeyframe(t *testing.T) {
	enc := NewZMBVEncoder()
	require.NoError(t, enc.SetupCompress(FormatRGB24, 2, 2))
	var lastKey bool
	for i := 0; i < zmbvKeyframeInterval+1; i++ {
		enc.PrepareFrame(solidFrame(2, 2, byte(i), 0, 0))
		_, key, err := enc.CompressLines()
		require.NoError(t, err)
		lastKey = key
	}
	assert.True(t, lastKey, "frame %d should force a keyframe", zmbvKeyframeInterval)
}

func TestImageSequenceTargetWritesNumberedFiles(t *testing.T) {
	dir := t.TempDir()
	target, err := NewImageSequenceTarget(dir, 1, NewBMPEncoder(), "bmp")
	require.NoError(t, err)
	require.NoError(t, target.WriteFrame(solidFrame(2, 2, 1, 1, 1)))
	require.NoError(t, target.WriteFrame(solidFrame(2, 2, 2, 2, 2)))

	entries, err := os.ReadDir(target.Name())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "00000000.bmp", entries[0].Name())
}

func TestVideoFileTargetProducesReadableRIFFHeader(t *testing.T) {
	dir := t.TempDir()
	target := NewVideoFileTarget(dir, "capture", 30, 0, 0, NewBMPEncoder())
	require.NoError(t, target.WriteFrame(solidFrame(4, 4, 1, 2, 3)))
	require.NoError(t, target.Close())

	path := filepath.Join(dir, "capture_0000.avi")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 12)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "AVI ", string(data[8:12]))
}

func TestWriteScreenshotProducesValidPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteScreenshot(&buf, solidFrame(8, 4, 9, 9, 9), 4))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

type fakeFrameSource struct {
	frames []Frame
}

func (s *fakeFrameSource) PopTimeout(timeout time.Duration) (Frame, bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	f := s.frames[0]
	s.frames = s.frames[1:]
	return f, true
}

func TestSessionStepWritesFramesWhileRecordingAndRunning(t *testing.T) {
	dir := t.TempDir()
	cmds := queue.NewCommandQueue[Command](4)
	src := &fakeFrameSource{frames: []Frame{solidFrame(2, 2, 1, 1, 1)}}
	c := chrono.New()
	pacer := chrono.NewPacer(c, 16_000_000)
	s := NewSession(cmds, pacer, src)
	s.SetMachineRunning(true)

	target, err := NewImageSequenceTarget(dir, 1, NewBMPEncoder(), "bmp")
	require.NoError(t, err)
	require.NoError(t, cmds.Push(Command{Kind: CmdStart, Target: target}))
	s.Step(16_000_000)
	assert.True(t, s.IsRecording())

	entries, _ := os.ReadDir(target.Name())
	assert.Len(t, entries, 1)
}

func TestSessionStopClosesTarget(t *testing.T) {
	dir := t.TempDir()
	cmds := queue.NewCommandQueue[Command](4)
	src := &fakeFrameSource{}
	c := chrono.New()
	pacer := chrono.NewPacer(c, 16_000_000)
	s := NewSession(cmds, pacer, src)

	target, err := NewImageSequenceTarget(dir, 1, NewBMPEncoder(), "bmp")
	require.NoError(t, err)
	require.NoError(t, cmds.Push(Command{Kind: CmdStart, Target: target}))
	s.Step(16_000_000)
	require.NoError(t, cmds.Push(Command{Kind: CmdStop}))
	s.Step(16_000_000)
	assert.False(t, s.IsRecording())
}
