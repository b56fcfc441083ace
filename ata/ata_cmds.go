package ata

import "errors"

var errNotImplemented = errors.New("ata: command not implemented for this drive")

func cmdCalibrateDrive(ch *Channel, dev int) (int64, error) {
	d := ch.Drives[dev]
	if d.HDD == nil {
		return 0, errNotImplemented
	}
	cost := d.HDD.Seek(0, 0)
	d.TF.CylinderLow, d.TF.CylinderHigh = 0, 0
	return cost, nil
}

func cmdReadSectors(ch *Channel, dev int) (int64, error) {
	d := ch.Drives[dev]
	if d.HDD == nil {
		return 0, errNotImplemented
	}
	lba := addressFromTaskFile(d)
	count := int64(d.TF.SectorCount)
	if count == 0 {
		count = 256
	}
	cost := d.HDD.TransferTimeUs(0, lba, count, true)
	d.TF.NumSectors = uint32(count)
	return cost, nil
}

func cmdWriteSectors(ch *Channel, dev int) (int64, error) {
	return cmdReadSectors(ch, dev)
}

func cmdReadVerifySectors(ch *Channel, dev int) (int64, error) {
	return cmdReadSectors(ch, dev)
}

func cmdExecuteDeviceDiagnostic(ch *Channel, dev int) (int64, error) {
	d := ch.Drives[dev]
	d.TF.Error = 0x01 // no error detected, device 0 passed
	return 0, nil
}

func cmdInitializeDriveParameters(ch *Channel, dev int) (int64, error) {
	d := ch.Drives[dev]
	d.TF.MultipleSectors = d.TF.SectorCount
	return 0, nil
}

func cmdSeek(ch *Channel, dev int) (int64, error) {
	d := ch.Drives[dev]
	if d.HDD == nil {
		return 0, errNotImplemented
	}
	lba := addressFromTaskFile(d)
	cyl, _, _ := d.Geom.LBAToCHS(lba)
	return d.HDD.Seek(0, cyl), nil
}

func cmdIdentifyDevice(ch *Channel, dev int) (int64, error) {
	d := ch.Drives[dev]
	if d.Kind != KindDisk {
		return 0, errNotImplemented
	}
	buf := BuildIdentifyDevice(d)
	d.TF.Buffer = buf
	d.TF.BufferIdx = 0
	ch.ReadyToTransfer(dev, false, true, uint16(len(buf)))
	return 1, nil
}

func cmdIdentifyPacketDevice(ch *Channel, dev int) (int64, error) {
	d := ch.Drives[dev]
	if d.Kind != KindCDROM {
		return 0, errNotImplemented
	}
	buf := BuildIdentifyPacketDevice(d)
	d.TF.Buffer = buf
	d.TF.BufferIdx = 0
	ch.ReadyToTransfer(dev, false, true, uint16(len(buf)))
	return 1, nil
}

func cmdSetFeatures(ch *Channel, dev int) (int64, error) {
	return 0, nil
}

func cmdSetMultipleMode(ch *Channel, dev int) (int64, error) {
	d := ch.Drives[dev]
	d.TF.MultipleSectors = d.TF.SectorCount
	return 0, nil
}

func cmdDeviceReset(ch *Channel, dev int) (int64, error) {
	d := ch.Drives[dev]
	d.TF = TaskFile{Status: StatusDRDY | StatusDSC}
	return 0, nil
}

func cmdPacket(ch *Channel, dev int) (int64, error) {
	d := ch.Drives[dev]
	if d.Kind != KindCDROM {
		return 0, errNotImplemented
	}
	// Request the 12-byte CDB in a data-out phase; the caller writes it to
	// the buffer and re-enters via IssuePacket once the transfer completes.
	ch.ReadyToTransfer(dev, true, false, 12)
	return 0, nil
}

func cmdCheckPowerMode(ch *Channel, dev int) (int64, error) {
	d := ch.Drives[dev]
	d.TF.SectorCount = 0xFF // active/idle
	return 0, nil
}

func cmdPowerStub(ch *Channel, dev int) (int64, error) {
	return 0, nil
}

func cmdReadNativeMaxAddress(ch *Channel, dev int) (int64, error) {
	d := ch.Drives[dev]
	if d.HDD == nil {
		return 0, errNotImplemented
	}
	maxLBA := d.Geom.Sectors() - 1
	d.TF.SetLBA28(maxLBA)
	return 0, nil
}

// addressFromTaskFile resolves the LBA the current command targets, from
// either the 28-bit CHS/LBA registers or (when lba48 is latched) the HOB
// shadow bank.
func addressFromTaskFile(d *Drive) int64 {
	if d.TF.LBAMode {
		if d.TF.LBA48 {
			lo := d.TF.LBA28()
			hi := int64(d.TF.HOBCylHigh)<<40 | int64(d.TF.HOBCylLow)<<32 | int64(d.TF.HOBSectorNo)<<24
			return hi | lo
		}
		return d.TF.LBA28()
	}
	cyl := int(d.TF.CylinderNo())
	head := int(d.TF.HeadNo & 0x0F)
	sector := int(d.TF.SectorNo)
	return d.Geom.CHSToLBA(cyl, head, sector)
}
