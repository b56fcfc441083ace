package ata

import "github.com/ibmulator-go/ps1core/logx"

var log = logx.For("ATA")

// Controller owns the two ATA channels (primary/secondary), each wired to
// its own interrupt callback and command-completion timer source.
type Controller struct {
	Channels [2]*Channel
}

// NewController builds both channels. arm[i] and onIRQ[i] are the
// completion-timer hook and IRQ callback for channel i, letting the caller bind each
// channel's completion timer to its own scheduler slot and interrupt line.
func NewController(arm [2]func(delayUs int64, fire func()), onIRQ [2]func()) *Controller {
	c := &Controller{}
	for i := range c.Channels {
		c.Channels[i] = NewChannel(arm[i], onIRQ[i])
	}
	return c
}

// AttachDisk installs a fixed disk as master(0)/slave(1) on the given
// channel.
func (c *Controller) AttachDisk(channel, dev int, d *Drive) {
	c.Channels[channel].Drives[dev] = d
	log.Info("disk attached", "channel", channel, "device", dev)
}

// AttachCDROM installs an ATAPI CD-ROM drive as master(0)/slave(1) on the
// given channel.
func (c *Controller) AttachCDROM(channel, dev int, d *Drive) {
	c.Channels[channel].Drives[dev] = d
	log.Info("cdrom attached", "channel", channel, "device", dev)
}

// NotifyMediaChanged marks the drive's pending UNIT ATTENTION condition,
// called when the host swaps a disc image at runtime.
func (c *Controller) NotifyMediaChanged(channel, dev int) {
	d := c.Channels[channel].Drives[dev]
	if d != nil {
		d.raiseUnitAttention()
	}
}

// InstalledDevices counts present drives across both channels.
func (c *Controller) InstalledDevices() int {
	n := 0
	for _, ch := range c.Channels {
		for _, d := range ch.Drives {
			if d != nil && d.Present() {
				n++
			}
		}
	}
	return n
}
