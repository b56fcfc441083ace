package storage

import "sync"

// CDAccessTiming holds the seek_third/seek_max pair (ms) for a given
// X-factor band, matching the published IBMulator curve.
type CDAccessTiming struct {
	SeekThirdMs float64
	SeekMaxMs   float64
}

// CDAccessTimingForXFactor returns the access-latency band a drive falls
// into at the given rotational speed multiplier.
func CDAccessTimingForXFactor(xFactor int) CDAccessTiming {
	switch {
	case xFactor >= 17:
		return CDAccessTiming{SeekThirdMs: 85, SeekMaxMs: 154}
	case xFactor >= 4:
		return CDAccessTiming{SeekThirdMs: 115, SeekMaxMs: 240}
	default:
		return CDAccessTiming{SeekThirdMs: 200, SeekMaxMs: 300}
	}
}

// CDTransferRateBytesPerUs is the CAV sustained transfer rate at the given
// X-factor: X * 150 KiB/s.
func CDTransferRateBytesPerUs(xFactor int) float64 {
	bytesPerSec := float64(xFactor) * 150 * 1024
	return bytesPerSec / 1_000_000
}

const CDDataSectorBytes = 2048

// DiscState enumerates the CD-ROM drive's mechanical state machine.
type DiscState int

const (
	StateNoDisc DiscState = iota
	StateDoorOpen
	StateDoorClosing
	StateSpinningUp
	StateReady
	StateIdle
	StateEjecting
)

func (s DiscState) String() string {
	switch s {
	case StateNoDisc:
		return "no-disc"
	case StateDoorOpen:
		return "door-open"
	case StateDoorClosing:
		return "door-closing"
	case StateSpinningUp:
		return "spinning-up"
	case StateReady:
		return "ready"
	case StateIdle:
		return "idle"
	case StateEjecting:
		return "ejecting"
	default:
		return "unknown"
	}
}

// ArmTimerFunc schedules a callback to fire after delayUs (it returns no
// cancel handle); the CD-ROM drive uses this to hand timed transitions to
// the caller's event scheduler without storage importing it directly.
type ArmTimerFunc func(delayUs int64, fire func())

const (
	doorCloseUs   = 500_000
	spinUpBaseUs  = 1_500_000
	toIdleUs      = 30_000_000 // 30s of inactivity before idling down
	spinDownUs    = 500_000
)

// CDDrive tracks disc mechanical state and the CAV timing derived from the
// current X-factor.
type CDDrive struct {
	mu          sync.Mutex
	state       DiscState
	xFactor     int
	doorLocked  bool
	arm         ArmTimerFunc
	onReady     func()
}

func NewCDDrive(xFactor int, arm ArmTimerFunc) *CDDrive {
	return &CDDrive{state: StateNoDisc, xFactor: xFactor, arm: arm}
}

func (d *CDDrive) State() DiscState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *CDDrive) SetDoorLock(locked bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.doorLocked = locked
}

// Insert begins the insert sequence: NoDisc -> DoorClosing -> SpinningUp ->
// Ready, armed on the scheduler.
func (d *CDDrive) Insert(onReady func()) {
	d.mu.Lock()
	d.state = StateDoorClosing
	d.onReady = onReady
	d.mu.Unlock()

	d.arm(doorCloseUs, func() {
		d.mu.Lock()
		d.state = StateSpinningUp
		d.mu.Unlock()
		spinUpUs := spinUpBaseUs
		d.arm(int64(spinUpUs), func() {
			d.mu.Lock()
			d.state = StateReady
			cb := d.onReady
			d.mu.Unlock()
			if cb != nil {
				cb()
			}
		})
	})
}

// Access marks the drive as busy servicing a command, pulling it out of
// Idle back into Ready.
func (d *CDDrive) Access() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateIdle {
		d.state = StateReady
	}
}

// ArmIdleTimeout schedules the Ready->Idle transition after a period of no
// access; callers re-arm this after every Access.
func (d *CDDrive) ArmIdleTimeout() {
	d.arm(toIdleUs, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.state == StateReady {
			d.state = StateIdle
		}
	})
}

// Eject begins the eject sequence unless the soft door lock inhibits it.
// Returns false if the drive is locked.
func (d *CDDrive) Eject() bool {
	d.mu.Lock()
	if d.doorLocked {
		d.mu.Unlock()
		return false
	}
	d.state = StateEjecting
	d.mu.Unlock()

	d.arm(spinDownUs, func() {
		d.mu.Lock()
		d.state = StateDoorOpen
		d.mu.Unlock()
	})
	return true
}

// CloseDoor force-closes the door, re-running the insert sequence; used by
// close_door(force=true).
func (d *CDDrive) CloseDoor(onReady func()) {
	d.Insert(onReady)
}

func (d *CDDrive) SetXFactor(x int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.xFactor = x
}

func (d *CDDrive) XFactor() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.xFactor
}

// AccessTiming returns this drive's current seek_third/seek_max band.
func (d *CDDrive) AccessTiming() CDAccessTiming {
	return CDAccessTimingForXFactor(d.XFactor())
}
