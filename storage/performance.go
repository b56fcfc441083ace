package storage

// Performance holds a drive's measured/derived timing characteristics.
// SeekMaxMs/SeekTrkMs are the measured anchor points; the derived fields
// are computed once by Derive and then used on every timing query.
type Performance struct {
	SeekMaxMs    float64
	SeekTrkMs    float64
	RotSpeedRPM  float64
	InterleaveN  float64

	seekOverheadUs float64
	seekK1         float64
	seekK2         float64

	rotationUs  float64 // time for one full revolution
	sectorUs    float64 // rotation_us / sectors_per_track
	trkReadUs   float64 // sectors_per_track * sectorUs
	bytesPerUs  float64
	sectorBytes float64
	spt         int
}

// DerivePerformance fits the quadratic seek model to the two measured
// anchor points (track-to-track at delta=1, full stroke at delta=cyl-1)
// with zero fixed overhead, and derives the rotational/transfer constants
// from RPM and sector geometry.
func DerivePerformance(seekMaxMs, seekTrkMs, rotSpeedRPM, interleave float64, geom Geometry, sectorBytes float64) Performance {
	p := Performance{
		SeekMaxMs:   seekMaxMs,
		SeekTrkMs:   seekTrkMs,
		RotSpeedRPM: rotSpeedRPM,
		InterleaveN: interleave,
		spt:         geom.SectorsPerTrack,
		sectorBytes: sectorBytes,
	}

	trkUs := seekTrkMs * 1000
	maxUs := seekMaxMs * 1000
	dMax := float64(geom.Cylinders - 1)
	if dMax <= 1 {
		dMax = 1
	}

	// Solve overhead=0, k1*1+k2*1=trkUs, k1*dMax+k2*dMax^2=maxUs for k1,k2.
	denom := dMax*dMax - dMax
	if denom == 0 {
		p.seekK2 = 0
	} else {
		p.seekK2 = (maxUs - trkUs*dMax) / denom
	}
	p.seekK1 = trkUs - p.seekK2
	p.seekOverheadUs = 0

	p.rotationUs = 60_000_000.0 / rotSpeedRPM
	if geom.SectorsPerTrack > 0 {
		p.sectorUs = p.rotationUs / float64(geom.SectorsPerTrack)
	}
	p.trkReadUs = p.rotationUs
	if p.sectorUs > 0 {
		p.bytesPerUs = sectorBytes / p.sectorUs
	}

	return p
}

// SeekMoveTimeUs implements the quadratic seek model: overhead + k1*delta +
// k2*delta^2, symmetric in the two cylinders since it only depends on the
// absolute difference.
func (p Performance) SeekMoveTimeUs(fromCyl, toCyl int) int64 {
	delta := fromCyl - toCyl
	if delta < 0 {
		delta = -delta
	}
	if delta == 0 {
		return 0
	}
	d := float64(delta)
	us := p.seekOverheadUs + p.seekK1*d + p.seekK2*d*d
	if us < 0 {
		us = 0
	}
	return int64(us)
}

// HwSectorFor returns the physical (hardware) sector for a 1-indexed
// logical sector, given this performance's interleave factor.
func (p Performance) HwSectorFor(logSector int) int {
	if p.spt <= 0 {
		return 0
	}
	i := int(p.InterleaveN)
	if i <= 0 {
		i = 1
	}
	hw := ((logSector - 1) * i) % p.spt
	if hw < 0 {
		hw += p.spt
	}
	return hw
}

// RotationalLatencyUs returns the time to rotate from the head's current
// fractional hw-sector position to destLogSector's hw-sector, at the
// drive's current RPM. The result is always in [0, trk_read_us).
func (p Performance) RotationalLatencyUs(startHwSector float64, destLogSector int) int64 {
	if p.spt <= 0 {
		return 0
	}
	target := float64(p.HwSectorFor(destLogSector))
	spt := float64(p.spt)

	start := mod(startHwSector, spt)
	distance := mod(target-start, spt)
	return int64(distance * p.sectorUs)
}

func mod(a, m float64) float64 {
	r := a - m*floorDiv(a, m)
	if r < 0 {
		r += m
	}
	return r
}

func floorDiv(a, b float64) float64 {
	q := a / b
	if q < 0 {
		return float64(int64(q) - 1)
	}
	return float64(int64(q))
}

// TransferTimeUs sums seek time (if currCyl != destCyl), rotational latency
// (unless suppressed, e.g. a read-ahead buffer already covers the LBA), and
// the linear sector-transfer time for xferAmount sectors.
func (p Performance) TransferTimeUs(currCyl, destCyl int, startHwSector float64, destLogSector int, xferAmountSectors int64, includeRotLatency bool) int64 {
	var total int64
	total += p.SeekMoveTimeUs(currCyl, destCyl)
	if includeRotLatency {
		total += p.RotationalLatencyUs(startHwSector, destLogSector)
	}
	if p.sectorUs > 0 {
		total += int64(float64(xferAmountSectors) * p.sectorUs * p.InterleaveN)
	}
	return total
}

// TrackReadTimeUs is the time to read a full track (one revolution).
func (p Performance) TrackReadTimeUs() float64 { return p.trkReadUs }

// BytesPerUs is the raw linear transfer rate implied by RPM and sector size.
func (p Performance) BytesPerUs() float64 { return p.bytesPerUs }
