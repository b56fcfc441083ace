package ata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibmulator-go/ps1core/storage"
)

type fakeArm struct {
	fired int
}

func (f *fakeArm) arm(delayUs int64, fire func()) {
	f.fired++
	fire()
}

func newTestDiskChannel() (*Channel, *fakeArm, int) {
	f := &fakeArm{}
	irqs := 0
	ch := NewChannel(f.arm, func() { irqs++ })
	geom := storage.Geometry{Cylinders: 100, Heads: 4, SectorsPerTrack: 17}
	hdd := storage.NewHDD(storage.CustomHDDTypeIndex, geom, 40, 8, 3600, 4)
	ch.Drives[0] = NewDiskDrive(hdd)
	return ch, f, irqs
}

func TestIssueATACommandIdentifyDevice(t *testing.T) {
	ch, f, _ := newTestDiskChannel()
	ch.IssueATACommand(CmdIdentifyDevice)
	require.Equal(t, 1, f.fired)
	d := ch.Drives[0]
	assert.NotZero(t, d.TF.Status&StatusDRQ)
	assert.Len(t, d.TF.Buffer, 512)
}

func TestIssueATACommandUnknownOpcodeAborts(t *testing.T) {
	ch, _, _ := newTestDiskChannel()
	ch.IssueATACommand(0xFF)
	d := ch.Drives[0]
	assert.NotZero(t, d.TF.Status&StatusErr)
	assert.Equal(t, uint8(0x04), d.TF.Error)
}

func TestIssueATACommandNoDriveAborts(t *testing.T) {
	f := &fakeArm{}
	ch := NewChannel(f.arm, func() {})
	ch.IssueATACommand(CmdIdentifyDevice)
	assert.Equal(t, 0, f.fired)
}

func TestReadSectorsAdvancesAndCompletes(t *testing.T) {
	ch, f, _ := newTestDiskChannel()
	d := ch.Drives[0]
	d.TF.LBAMode = true
	d.TF.SetLBA28(100)
	d.TF.SectorCount = 4
	ch.IssueATACommand(CmdReadSectors)
	require.Equal(t, 1, f.fired)
	assert.NotZero(t, d.TF.Status&StatusDRDY)
	assert.False(t, ch.Busy)
}

func newTestCDChannel() (*Channel, *fakeArm) {
	f := &fakeArm{}
	cd := storage.NewCDDrive(8, func(delayUs int64, fire func()) { fire() })
	cd.Insert(func() {})
	ch := NewChannel(f.arm, func() {})
	ch.Drives[0] = NewCDROMDrive(cd, "GENERIC", "CD-ROM DRIVE", "1.0")
	return ch, f
}

func TestIssuePacketTestUnitReadyWhenInserted(t *testing.T) {
	ch, f := newTestCDChannel()
	ch.IssuePacket([]byte{PktTestUnitReady, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	require.Equal(t, 1, f.fired)
	d := ch.Drives[0]
	assert.NotZero(t, d.TF.Status&StatusDRDY)
	assert.False(t, d.Sense.IsError())
}

func TestIssuePacketReportsNotReadyWithoutDisc(t *testing.T) {
	f := &fakeArm{}
	cd := storage.NewCDDrive(8, func(delayUs int64, fire func()) { fire() })
	ch := NewChannel(f.arm, func() {})
	ch.Drives[0] = NewCDROMDrive(cd, "GENERIC", "CD-ROM DRIVE", "1.0")

	ch.IssuePacket([]byte{PktTestUnitReady, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	d := ch.Drives[0]
	assert.Equal(t, SenseNotReady, d.Sense.Key)
	assert.NotZero(t, d.TF.Status&StatusErr)
}

func TestIssuePacketUnknownOpcodeSetsIllegalRequest(t *testing.T) {
	ch, _ := newTestCDChannel()
	ch.IssuePacket([]byte{0xFE, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	d := ch.Drives[0]
	assert.Equal(t, SenseIllegalReq, d.Sense.Key)
}

func TestPktReadTOCFormatsLeadOutMSF(t *testing.T) {
	ch, _ := newTestCDChannel()
	ch.IssuePacket([]byte{PktReadTOC, 0x02, 0, 0, 0, 0, 0, 0, 40, 0, 0, 0})
	d := ch.Drives[0]
	require.Len(t, d.TF.Buffer, 20)
	assert.Equal(t, uint8(1), d.TF.Buffer[2])
	assert.Equal(t, uint8(2), d.TF.Buffer[3])
	// Lead-out descriptor MSF should read 60:00:00.
	assert.Equal(t, []byte{60, 0, 0}, d.TF.Buffer[17:20])
}

func TestMediaChangedLatchesUnitAttentionOnce(t *testing.T) {
	ch, _ := newTestCDChannel()
	d := ch.Drives[0]
	d.raiseUnitAttention()

	ch.IssuePacket([]byte{PktTestUnitReady, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	assert.Equal(t, SenseUnitAttention, d.Sense.Key)

	ch.IssuePacket([]byte{PktTestUnitReady, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	assert.False(t, d.Sense.IsError())
}
