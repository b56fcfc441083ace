package ata

import "encoding/binary"

// BuildIdentifyDevice fills the 512-byte IDENTIFY DEVICE information block
// for a fixed disk, vendor/model/firmware strings padded with spaces and
// byte-swapped per the ATA word convention (each pair of ASCII bytes
// stored high-byte-first within the 16-bit word).
func BuildIdentifyDevice(d *Drive) []byte {
	w := make([]uint16, 256)
	geom := d.Geom

	w[0] = 0x0040 // fixed disk, not removable
	w[1] = uint16(geom.Cylinders)
	w[3] = uint16(geom.Heads)
	w[6] = uint16(geom.SectorsPerTrack)
	putIdentifyString(w[10:20], "000000000000")       // serial number
	putIdentifyString(w[23:27], "1.0")                 // firmware revision
	putIdentifyString(w[27:47], "EMULATED IDE DISK")   // model number
	w[47] = 16                                         // max sectors per READ/WRITE MULTIPLE
	w[49] = 1 << 9                                     // LBA supported
	w[53] = 1 << 1                                      // word 54-58 valid
	w[54] = uint16(geom.Cylinders)
	w[55] = uint16(geom.Heads)
	w[56] = uint16(geom.SectorsPerTrack)
	totalSectors := geom.Sectors()
	w[57] = uint16(totalSectors)
	w[58] = uint16(totalSectors >> 16)
	w[60] = uint16(totalSectors)
	w[61] = uint16(totalSectors >> 16)
	w[80] = 0x01E0 // bits 5-8: ATA/ATAPI-5 through ATA/ATAPI-8 supported

	return wordsToBytes(w)
}

// BuildIdentifyPacketDevice fills the IDENTIFY PACKET DEVICE block for an
// ATAPI CD-ROM drive.
func BuildIdentifyPacketDevice(d *Drive) []byte {
	w := make([]uint16, 256)

	w[0] = 0x8580 // ATAPI, CD-ROM, removable, 12-byte CDB, DRQ within 3ms
	putIdentifyString(w[10:20], "000000000000")
	putIdentifyString(w[23:27], d.firmwareOrDefault())
	putIdentifyString(w[27:47], d.modelOrDefault())
	w[49] = 1 << 9 // LBA supported
	w[80] = 0x01E0

	return wordsToBytes(w)
}

func (d *Drive) firmwareOrDefault() string {
	if d.Revision != "" {
		return d.Revision
	}
	return "1.0"
}

func (d *Drive) modelOrDefault() string {
	if d.ProductID != "" {
		return d.ProductID
	}
	return "EMULATED CD-ROM DRIVE"
}

// putIdentifyString packs s, space-padded to 2*len(dst) bytes, into dst
// with the ATA byte-swap-within-word convention.
func putIdentifyString(dst []uint16, s string) {
	n := len(dst) * 2
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	copy(b, s)
	for i := range dst {
		dst[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}
}

func wordsToBytes(w []uint16) []byte {
	b := make([]byte, len(w)*2)
	for i, v := range w {
		binary.LittleEndian.PutUint16(b[2*i:], v)
	}
	return b
}
