package ata

import "github.com/ibmulator-go/ps1core/storage"

func pktTestUnitReady(ch *Channel, dev int, cdb []byte) (int64, error) {
	d := ch.Drives[dev]
	if !d.checkMediaState() {
		return 0, senseErr
	}
	return 0, nil
}

func pktRequestSense(ch *Channel, dev int, cdb []byte) (int64, error) {
	d := ch.Drives[dev]
	buf := make([]byte, 18)
	buf[0] = 0x70 // current errors, fixed format
	buf[2] = byte(d.Sense.Key)
	buf[7] = 10
	buf[12] = d.Sense.ASC
	buf[13] = d.Sense.ASCQ
	d.TF.Buffer = buf
	ch.ReadyToTransfer(dev, false, true, uint16(len(buf)))
	d.Sense = SenseData{}
	return 1, nil
}

func pktInquiry(ch *Channel, dev int, cdb []byte) (int64, error) {
	d := ch.Drives[dev]
	buf := make([]byte, 36)
	buf[0] = 0x05 // CD-ROM device
	buf[1] = 0x80 // removable
	buf[2] = 0x00
	buf[3] = 0x21 // ATAPI version / response data format
	buf[4] = 31   // additional length
	copy(buf[8:16], padRight(vendorOrDefault(d), 8))
	copy(buf[16:32], padRight(d.modelOrDefault(), 16))
	copy(buf[32:36], padRight(d.firmwareOrDefault(), 4))
	d.TF.Buffer = buf
	ch.ReadyToTransfer(dev, false, true, uint16(len(buf)))
	return 1, nil
}

func vendorOrDefault(d *Drive) string {
	if d.VendorID != "" {
		return d.VendorID
	}
	return "GENERIC"
}

func padRight(s string, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	copy(b, s)
	return b
}

func pktModeSelect(ch *Channel, dev int, cdb []byte) (int64, error) {
	return 0, nil
}

func pktModeSense(ch *Channel, dev int, cdb []byte) (int64, error) {
	d := ch.Drives[dev]
	buf := make([]byte, 8)
	buf[1] = 6
	d.TF.Buffer = buf
	ch.ReadyToTransfer(dev, false, true, uint16(len(buf)))
	return 1, nil
}

func pktStartStopUnit(ch *Channel, dev int, cdb []byte) (int64, error) {
	d := ch.Drives[dev]
	if d.CD == nil {
		return 0, errNotImplemented
	}
	start := cdb[4]&0x01 != 0
	loadEject := cdb[4]&0x02 != 0
	if loadEject {
		if start {
			d.CD.CloseDoor(func() {})
		} else {
			d.CD.Eject()
		}
	}
	return 0, nil
}

func pktPreventAllowMediumRemoval(ch *Channel, dev int, cdb []byte) (int64, error) {
	d := ch.Drives[dev]
	if d.CD == nil {
		return 0, errNotImplemented
	}
	d.CD.SetDoorLock(cdb[4]&0x01 != 0)
	return 0, nil
}

func pktReadCapacity(ch *Channel, dev int, cdb []byte) (int64, error) {
	d := ch.Drives[dev]
	if !d.checkMediaState() {
		return 0, senseErr
	}
	buf := make([]byte, 8)
	// Last logical block address and block length; capacity is unknown
	// without a mounted image's real size, so a zero-length placeholder
	// disc reports block size only.
	buf[4], buf[5], buf[6], buf[7] = 0, 0, 8, 0
	d.TF.Buffer = buf
	ch.ReadyToTransfer(dev, false, true, uint16(len(buf)))
	return 1, nil
}

func pktRead10(ch *Channel, dev int, cdb []byte) (int64, error) {
	d := ch.Drives[dev]
	if !d.checkMediaState() {
		return 0, senseErr
	}
	if d.CD == nil {
		return 0, errNotImplemented
	}
	lba := int64(cdb[2])<<24 | int64(cdb[3])<<16 | int64(cdb[4])<<8 | int64(cdb[5])
	count := int64(cdb[7])<<8 | int64(cdb[8])
	if count == 0 {
		return 0, nil
	}
	timing := d.CD.AccessTiming()
	rate := storage.CDTransferRateBytesPerUs(d.CD.XFactor())
	bytes := count * storage.CDDataSectorBytes
	xferUs := int64(float64(bytes) / rate)
	seekUs := int64(timing.SeekThirdMs * 1000)
	_ = lba
	return seekUs + xferUs, nil
}

func pktSeek10(ch *Channel, dev int, cdb []byte) (int64, error) {
	d := ch.Drives[dev]
	if d.CD == nil {
		return 0, errNotImplemented
	}
	timing := d.CD.AccessTiming()
	return int64(timing.SeekThirdMs * 1000), nil
}

func pktPauseResume(ch *Channel, dev int, cdb []byte) (int64, error) {
	return 0, nil
}

func pktReadSubChannel(ch *Channel, dev int, cdb []byte) (int64, error) {
	d := ch.Drives[dev]
	buf := make([]byte, 16)
	d.TF.Buffer = buf
	ch.ReadyToTransfer(dev, false, true, uint16(len(buf)))
	return 1, nil
}

// pktReadTOC builds a format-0 TOC response: two-byte length, first/last
// track numbers, one 8-byte descriptor per track plus a lead-out
// descriptor, addresses in MSF when cdb[1]&0x02 is set.
func pktReadTOC(ch *Channel, dev int, cdb []byte) (int64, error) {
	d := ch.Drives[dev]
	if !d.checkMediaState() {
		return 0, senseErr
	}
	msf := cdb[1]&0x02 != 0
	const leadOutLBA = 60 * 75 * 60 // 60:00:00 in frames (placeholder single-session disc)

	buf := make([]byte, 4+8+8)
	buf[2], buf[3] = 1, 2 // first=1 last=2
	writeTOCEntry(buf[4:12], 1, 0, msf)
	writeTOCEntry(buf[12:20], 0xAA, leadOutLBA, msf)
	length := uint16(len(buf) - 2)
	buf[0], buf[1] = byte(length>>8), byte(length)

	d.TF.Buffer = buf
	ch.ReadyToTransfer(dev, false, true, uint16(len(buf)))
	return 1, nil
}

func writeTOCEntry(b []byte, track uint8, lba int64, msf bool) {
	b[1] = 0x14 // ADR/CONTROL: data track
	b[2] = track
	if msf {
		m, s, f := lbaToMSF(lba)
		b[5], b[6], b[7] = m, s, f
	} else {
		b[4], b[5], b[6], b[7] = byte(lba>>24), byte(lba>>16), byte(lba>>8), byte(lba)
	}
}

func lbaToMSF(lba int64) (byte, byte, byte) {
	const framesPerSec = 75
	total := lba
	m := total / (60 * framesPerSec)
	total -= m * 60 * framesPerSec
	s := total / framesPerSec
	f := total % framesPerSec
	return byte(m), byte(s), byte(f)
}

func pktPlayAudioMSF(ch *Channel, dev int, cdb []byte) (int64, error) {
	d := ch.Drives[dev]
	if !d.checkMediaState() {
		return 0, senseErr
	}
	return 0, nil
}

func pktGetEventStatusNotification(ch *Channel, dev int, cdb []byte) (int64, error) {
	d := ch.Drives[dev]
	buf := make([]byte, 8)
	buf[1] = 6
	buf[2] = 0x04 // media event class supported
	d.TF.Buffer = buf
	ch.ReadyToTransfer(dev, false, true, uint16(len(buf)))
	return 1, nil
}

func pktReadDiscInformation(ch *Channel, dev int, cdb []byte) (int64, error) {
	d := ch.Drives[dev]
	if !d.checkMediaState() {
		return 0, senseErr
	}
	buf := make([]byte, 34)
	buf[0], buf[1] = 0, 32
	buf[2] = 0x0E // disc finalized, single session
	d.TF.Buffer = buf
	ch.ReadyToTransfer(dev, false, true, uint16(len(buf)))
	return 1, nil
}

var senseErr = &senseError{}

type senseError struct{}

func (*senseError) Error() string { return "ata: sense condition reported" }
