package capture

// VideoFileTarget drives an AVIWriter through an Encoder, rotating to a
// fresh numbered file on size limit or a resolution change. The frame rate
// is fixed at construction, so no rotation happens on a refresh-rate change.
type VideoFileTarget struct {
	dir, baseName               string
	fps                         float64
	audioRate, audioChannels    int

	avi           *AVIWriter
	encoder       Encoder
	opened        bool
	width, height int
}

func NewVideoFileTarget(dir, baseName string, fps float64, audioRate, audioChannels int, enc Encoder) *VideoFileTarget {
	return &VideoFileTarget{
		dir: dir, baseName: baseName, fps: fps,
		audioRate: audioRate, audioChannels: audioChannels,
		encoder: enc,
	}
}

func (t *VideoFileTarget) WriteFrame(f Frame) error {
	if t.opened && (f.Width != t.width || f.Height != t.height) {
		if err := t.avi.Close(); err != nil {
			return err
		}
		t.opened = false
	}
	if !t.opened {
		if err := t.encoder.SetupCompress(FormatRGB24, f.Width, f.Height); err != nil {
			return err
		}
		t.width, t.height = f.Width, f.Height
		seq := 0
		if t.avi != nil {
			seq = t.avi.seq + 1
		}
		t.avi = NewAVIWriter(t.dir, t.baseName, f.Width, f.Height, t.fps, t.encoder.FourCC(), t.audioRate, t.audioChannels)
		t.avi.seq = seq
		if err := t.avi.Open(); err != nil {
			return err
		}
		t.opened = true
	}

	t.encoder.PrepareFrame(f)
	data, keyframe, err := t.encoder.CompressLines()
	t.encoder.FinishFrame()
	if err != nil {
		return err
	}
	needsRotation := t.avi.WriteVideoChunk(data, keyframe)
	if len(f.Audio) > 0 {
		t.avi.WriteAudioChunk(f.Audio)
	}
	if needsRotation {
		if _, err := t.avi.Rotate(); err != nil {
			return err
		}
	}
	return nil
}

func (t *VideoFileTarget) Close() error {
	if !t.opened {
		return nil
	}
	t.opened = false
	return t.avi.Close()
}

func (t *VideoFileTarget) Name() string {
	if t.avi == nil {
		return t.dir
	}
	return t.avi.dir
}
