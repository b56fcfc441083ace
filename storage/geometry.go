// Package storage implements the timing model shared by hard disks, floppy
// disks, and CD-ROM drives: geometry/performance math, seek/rotational/
// transfer-time computation, and the CD-ROM disc insertion/spin-up/eject
// state machine.
package storage

// Geometry describes a CHS-addressable medium.
type Geometry struct {
	Cylinders       int
	Heads           int
	SectorsPerTrack int
}

// Sectors returns the total sector count implied by CHS geometry.
func (g Geometry) Sectors() int64 {
	return int64(g.Cylinders) * int64(g.Heads) * int64(g.SectorsPerTrack)
}

// CHSToLBA converts a 1-indexed sector within (cylinder, head) to a 0-indexed LBA.
func (g Geometry) CHSToLBA(cyl, head, sector int) int64 {
	return (int64(cyl)*int64(g.Heads)+int64(head))*int64(g.SectorsPerTrack) + int64(sector-1)
}

// LBAToCHS is the inverse of CHSToLBA.
func (g Geometry) LBAToCHS(lba int64) (cyl, head, sector int) {
	spt := int64(g.SectorsPerTrack)
	heads := int64(g.Heads)
	sector = int(lba%spt) + 1
	temp := lba / spt
	head = int(temp % heads)
	cyl = int(temp / heads)
	return
}

// HDDTypeTable holds IBM-standard HDD types 1-44, cylinders/heads/spt only
// (write-precomp and landing-zone cylinders are firmware concerns not
// modeled here). Index 0 is unused ("none"); the custom type,
// CustomHDDTypeIndex (47), has no entry in this table.
var HDDTypeTable = [...]Geometry{
	0:  {},
	1:  {306, 4, 17},
	2:  {615, 4, 17},
	3:  {615, 6, 17},
	4:  {940, 8, 17},
	5:  {940, 6, 17},
	6:  {615, 4, 17},
	7:  {462, 8, 17},
	8:  {733, 5, 17},
	9:  {900, 15, 17},
	10: {820, 3, 17},
	11: {855, 5, 17},
	12: {855, 7, 17},
	13: {306, 8, 17},
	14: {733, 7, 17},
	15: {}, // reserved
	16: {612, 4, 17},
	17: {977, 5, 17},
	18: {977, 7, 17},
	19: {1024, 7, 17},
	20: {733, 5, 17},
	21: {733, 7, 17},
	22: {733, 5, 17},
	23: {306, 4, 17},
	24: {612, 4, 17},
	25: {306, 4, 17},
	26: {612, 4, 17},
	27: {698, 7, 17},
	28: {976, 5, 17},
	29: {306, 4, 17},
	30: {611, 4, 17},
	31: {732, 7, 17},
	32: {1023, 5, 17},
	33: {614, 4, 25},
	34: {775, 2, 27},
	35: {921, 5, 17},
	36: {402, 4, 26},
	37: {580, 6, 26},
	38: {845, 2, 36},
	39: {769, 3, 36},
	40: {531, 4, 39},
	41: {577, 2, 36},
	42: {654, 2, 32},
	43: {923, 5, 36},
	44: {531, 8, 39},
}

// CustomHDDTypeIndex is the slot reserved for a user-supplied geometry
// rather than one of the fixed standard types.
const CustomHDDTypeIndex = 47
