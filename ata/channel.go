package ata

import "fmt"

// Channel is one of the controller's two ATA channels, each carrying a
// master (0) and slave (1) drive.
type Channel struct {
	Drives  [2]*Drive
	Select  int
	Busy    bool

	onIRQ func()
	arm   func(delayUs int64, fire func())
}

func NewChannel(arm func(delayUs int64, fire func()), onIRQ func()) *Channel {
	return &Channel{arm: arm, onIRQ: onIRQ}
}

func (c *Channel) Selected() *Drive { return c.Drives[c.Select] }

func (c *Channel) SelectDrive(dev int) { c.Select = dev }

func (c *Channel) raiseIRQ() {
	if c.onIRQ != nil {
		c.onIRQ()
	}
}

// IssueATACommand dispatches opcode against the selected drive and arms the
// command completion timer. Unknown opcodes or a missing drive abort
// immediately with ATA_ERR/ABRT semantics.
func (c *Channel) IssueATACommand(opcode uint8) {
	d := c.Selected()
	if d == nil || !d.Present() {
		c.abort(opcode)
		return
	}
	entry, ok := lookupATACommand(opcode)
	if !ok {
		c.abort(opcode)
		return
	}
	d.TF.CurrentCommand = opcode
	c.Busy = true
	d.TF.Status = (d.TF.Status | StatusBSY) &^ StatusDRQ
	delayUs, err := entry.Handler(c, c.Select)
	if err != nil {
		c.completeWithError(d)
		return
	}
	c.armCompletion(d, delayUs)
}

// IssuePacket dispatches an ATAPI CDB (already placed in the drive's
// buffer by the PACKET command's data-out phase) against the selected
// drive.
func (c *Channel) IssuePacket(cdb []byte) {
	d := c.Selected()
	if d == nil || d.Kind != KindCDROM {
		c.abort(cdb[0])
		return
	}
	entry, ok := lookupATAPICommand(cdb[0])
	if !ok {
		d.Sense = SenseData{Key: SenseIllegalReq, ASC: ASCInvalidCommandOp, ASCQ: ASCQNone}
		c.completeWithError(d)
		return
	}
	c.Busy = true
	d.TF.Status = (d.TF.Status | StatusBSY) &^ StatusDRQ
	delayUs, err := entry.Handler(c, c.Select, cdb)
	if err != nil {
		c.completeWithError(d)
		return
	}
	c.armCompletion(d, delayUs)
}

func (c *Channel) armCompletion(d *Drive, delayUs int64) {
	if delayUs < 0 {
		delayUs = 0
	}
	c.arm(delayUs, func() {
		c.Busy = false
		d.TF.Status = (d.TF.Status &^ StatusBSY) | StatusDRDY | StatusDSC
		c.raiseIRQ()
	})
}

func (c *Channel) completeWithError(d *Drive) {
	c.arm(0, func() {
		c.Busy = false
		d.TF.Status = (d.TF.Status &^ StatusBSY) | StatusErr | StatusDRDY
		if d.Kind == KindCDROM {
			d.TF.Error = uint8(d.Sense.Key) << 4
		} else {
			d.TF.Error = 0x04 // ABRT
		}
		c.raiseIRQ()
	})
}

func (c *Channel) abort(opcode uint8) {
	d := c.Selected()
	if d == nil {
		return
	}
	d.TF.Status = StatusErr | StatusDRDY
	d.TF.Error = 0x04 // ABRT
	c.raiseIRQ()
}

// ReadyToTransfer sets the ATAPI interrupt-reason bits and byte count ahead
// of a data phase, per the {c_d, i_o} bus-phase negotiation: the host polls
// status/interrupt-reason to learn whether the next phase is command/data
// and which direction the bytes flow.
func (c *Channel) ReadyToTransfer(dev int, cmdPhase, toHost bool, byteCount uint16) {
	d := c.Drives[dev]
	d.TF.InterruptReasonCD = cmdPhase
	d.TF.InterruptReasonIO = toHost
	d.TF.SetByteCount(byteCount)
	d.TF.Status = (d.TF.Status | StatusDRQ) &^ StatusBSY
	d.TF.BufferIdx = 0
	c.raiseIRQ()
}

func (c *Channel) String() string {
	return fmt.Sprintf("channel(select=%d busy=%v)", c.Select, c.Busy)
}
