package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHDDStandardTypeUsesTable(t *testing.T) {
	h := NewHDD(35, Geometry{}, 40, 8, 3600, 4)
	assert.Equal(t, HDDTypeTable[35], h.Geometry())
}

func TestNewHDDCustomTypeUsesSuppliedGeometry(t *testing.T) {
	custom := Geometry{Cylinders: 1024, Heads: 16, SectorsPerTrack: 63}
	h := NewHDD(CustomHDDTypeIndex, custom, 17, 6, 3700, 1)
	assert.Equal(t, custom, h.Geometry())
}

func TestHDDSeekUpdatesHeadCylinder(t *testing.T) {
	h := NewHDD(CustomHDDTypeIndex, Geometry{Cylinders: 1000, Heads: 4, SectorsPerTrack: 17}, 40, 8, 3600, 4)
	cost := h.Seek(0, 500)
	assert.Greater(t, cost, int64(0))
	// A second seek to the same cylinder costs nothing.
	cost2 := h.Seek(1000, 500)
	assert.Equal(t, int64(0), cost2)
}

func TestHDDTransferTimeAdvancesHeadPosition(t *testing.T) {
	geom := Geometry{Cylinders: 1000, Heads: 4, SectorsPerTrack: 17}
	h := NewHDD(CustomHDDTypeIndex, geom, 40, 8, 3600, 4)
	lba := geom.CHSToLBA(10, 0, 1)
	cost := h.TransferTimeUs(0, lba, 4, true)
	assert.Greater(t, cost, int64(0))
}
