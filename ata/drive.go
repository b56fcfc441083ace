package ata

import "github.com/ibmulator-go/ps1core/storage"

// DriveKind distinguishes a fixed ATA disk from an ATAPI CD-ROM.
type DriveKind int

const (
	KindNone DriveKind = iota
	KindDisk
	KindCDROM
)

// Drive is one of the two devices (master/slave) on a Channel.
type Drive struct {
	Kind DriveKind
	TF   TaskFile

	Sense SenseData

	HDD  *storage.HDD
	CD   *storage.CDDrive
	Geom storage.Geometry

	VendorID, ProductID, Revision string

	// mediaChanged latches true on disc swap until the next command that
	// calls checkMediaState reports it once as UNIT ATTENTION and clears it.
	mediaChanged bool
}

func NewDiskDrive(hdd *storage.HDD) *Drive {
	return &Drive{Kind: KindDisk, HDD: hdd, Geom: hdd.Geometry(), TF: TaskFile{Status: StatusDRDY | StatusDSC}}
}

func NewCDROMDrive(cd *storage.CDDrive, vendor, product, rev string) *Drive {
	return &Drive{Kind: KindCDROM, CD: cd, VendorID: vendor, ProductID: product, Revision: rev, TF: TaskFile{Status: StatusDRDY | StatusDSC}}
}

func (d *Drive) Present() bool { return d.Kind != KindNone }

// raiseUnitAttention marks a pending media-changed condition; the next
// command that checks sense will report it once and clear the latch.
func (d *Drive) raiseUnitAttention() {
	d.mediaChanged = true
}

// checkMediaState updates Sense for an ATAPI drive based on current disc
// state and the media-changed latch, called by command handlers before
// servicing any media-access command.
func (d *Drive) checkMediaState() bool {
	if d.Kind != KindCDROM {
		return true
	}
	if d.mediaChanged {
		d.mediaChanged = false
		d.Sense = SenseData{Key: SenseUnitAttention, ASC: ASCMediumMayHaveChgd, ASCQ: ASCQNone}
		return false
	}
	switch d.CD.State() {
	case storage.StateNoDisc, storage.StateDoorOpen:
		d.Sense = SenseData{Key: SenseNotReady, ASC: ASCMediumNotPresent, ASCQ: ASCQNone}
		return false
	case storage.StateDoorClosing, storage.StateSpinningUp:
		d.Sense = SenseData{Key: SenseNotReady, ASC: ASCNotReadyToReady, ASCQ: ASCQBecomingReady}
		return false
	default:
		d.CD.Access()
		d.Sense = SenseData{}
		return true
	}
}
