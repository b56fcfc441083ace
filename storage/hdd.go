package storage

import "sync"

// HDD is a CAV hard disk: fixed geometry, fixed performance, stateful head
// position tracked across seek/transfer calls.
type HDD struct {
	mu       sync.Mutex
	geometry Geometry
	perf     Performance

	headCylinder   int
	headHwSector   float64
	headUpdatedUs  int64
}

// NewHDD builds a drive from a standard type index (1-44, or
// CustomHDDTypeIndex with customGeom) plus the measured seek/rpm/interleave
// triple baseline (type 35's WDL-330P baseline: 40ms max seek, 8ms
// track-to-track, 3600rpm, 4:1 interleave, is the reference most other
// types are scaled from when no better data exists).
func NewHDD(typeIndex int, customGeom Geometry, seekMaxMs, seekTrkMs, rotSpeedRPM, interleave float64) *HDD {
	var geom Geometry
	if typeIndex == CustomHDDTypeIndex {
		geom = customGeom
	} else if typeIndex >= 0 && typeIndex < len(HDDTypeTable) {
		geom = HDDTypeTable[typeIndex]
	}
	const hddSectorBytes = 512 + 64 // data + ECC/ID/gap overhead
	return &HDD{
		geometry: geom,
		perf:     DerivePerformance(seekMaxMs, seekTrkMs, rotSpeedRPM, interleave, geom, hddSectorBytes),
	}
}

func (h *HDD) Geometry() Geometry     { return h.geometry }
func (h *HDD) Performance() Performance { return h.perf }

// Seek moves the head to the destination cylinder, returning the time cost
// and updating tracked head position.
func (h *HDD) Seek(nowUs int64, destCyl int) int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	cost := h.perf.SeekMoveTimeUs(h.headCylinder, destCyl)
	h.headCylinder = destCyl
	h.advanceHeadLocked(nowUs)
	return cost
}

// advanceHeadLocked rotates the tracked fractional hw-sector position
// forward by elapsed time at the current RPM. Caller holds h.mu.
func (h *HDD) advanceHeadLocked(nowUs int64) {
	if h.headUpdatedUs == 0 {
		h.headUpdatedUs = nowUs
		return
	}
	elapsed := nowUs - h.headUpdatedUs
	if elapsed <= 0 {
		return
	}
	if h.perf.sectorUs > 0 {
		h.headHwSector = mod(h.headHwSector+float64(elapsed)/h.perf.sectorUs, float64(h.geometry.SectorsPerTrack))
	}
	h.headUpdatedUs = nowUs
}

// TransferTimeUs computes the cost of transferring xferAmountSectors
// starting at lba, from the drive's current head position, advancing the
// tracked head position as a side effect.
func (h *HDD) TransferTimeUs(nowUs int64, lba int64, xferAmountSectors int64, includeRotLatency bool) int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.advanceHeadLocked(nowUs)

	cyl, _, sector := h.geometry.LBAToCHS(lba)
	cost := h.perf.TransferTimeUs(h.headCylinder, cyl, h.headHwSector, sector, xferAmountSectors, includeRotLatency)
	h.headCylinder = cyl
	h.headHwSector = float64(h.perf.HwSectorFor(sector))
	return cost
}
