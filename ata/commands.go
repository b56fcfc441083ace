package ata

// ATA command opcodes (subset actually dispatched).
const (
	CmdCalibrateDrive            = 0x10
	CmdReadSectors               = 0x20
	CmdReadSectorsNoRetry        = 0x21
	CmdReadVerifySectors         = 0x40
	CmdWriteSectors              = 0x30
	CmdWriteSectorsNoRetry       = 0x31
	CmdExecuteDeviceDiagnostic   = 0x90
	CmdInitializeDriveParameters = 0x91
	CmdSeek                      = 0x70
	CmdIdentifyDevice            = 0xEC
	CmdSetFeatures               = 0xEF
	CmdSetMultipleMode           = 0xC6
	CmdIdentifyPacketDevice      = 0xA1
	CmdDeviceReset               = 0x08
	CmdPacket                    = 0xA0
	CmdCheckPowerMode            = 0xE5
	CmdIdlePower                 = 0xE1
	CmdStandbyPower              = 0xE2
	CmdReadNativeMaxAddress      = 0xF8
)

// ATAPI packet opcodes (SCSI CDB byte 0), subset actually dispatched.
const (
	PktTestUnitReady              = 0x00
	PktRequestSense                = 0x03
	PktInquiry                     = 0x12
	PktModeSelect                  = 0x15
	PktModeSense                   = 0x1A
	PktStartStopUnit               = 0x1B
	PktPreventAllowMediumRemoval   = 0x1E
	PktReadCapacity                = 0x25
	PktRead10                      = 0x28
	PktSeek10                      = 0x2B
	PktPauseResume                 = 0x4B
	PktReadSubChannel               = 0x42
	PktReadTOC                     = 0x43
	PktPlayAudioMSF                = 0x47
	PktGetEventStatusNotification  = 0x4A
	PktReadDiscInformation          = 0x51
)

// CmdHandler executes an ATA command for the selected drive on a channel,
// returning the microsecond delay before the command timer fires
// completion (interrupt + DRQ/status update).
type CmdHandler func(ch *Channel, dev int) (delayUs int64, err error)

// CmdEntry pairs a diagnostic name with its handler, mirroring the
// {name, handler} dispatch table shape used for both opcode sets.
type CmdEntry struct {
	Name    string
	Handler CmdHandler
}

// PacketHandler executes an ATAPI CDB for the selected drive, returning the
// completion delay; cdb is the full command descriptor block as placed in
// the PIO buffer by the PACKET command.
type PacketHandler func(ch *Channel, dev int, cdb []byte) (delayUs int64, err error)

type PacketEntry struct {
	Name    string
	Handler PacketHandler
}

var ataCommands = map[uint8]CmdEntry{
	CmdCalibrateDrive:            {"CALIBRATE DRIVE", cmdCalibrateDrive},
	CmdReadSectors:               {"READ SECTORS", cmdReadSectors},
	CmdReadSectorsNoRetry:        {"READ SECTORS (NO RETRY)", cmdReadSectors},
	CmdReadVerifySectors:         {"READ VERIFY SECTORS", cmdReadVerifySectors},
	CmdWriteSectors:              {"WRITE SECTORS", cmdWriteSectors},
	CmdWriteSectorsNoRetry:       {"WRITE SECTORS (NO RETRY)", cmdWriteSectors},
	CmdExecuteDeviceDiagnostic:   {"EXECUTE DEVICE DIAGNOSTIC", cmdExecuteDeviceDiagnostic},
	CmdInitializeDriveParameters: {"INITIALIZE DRIVE PARAMETERS", cmdInitializeDriveParameters},
	CmdSeek:                      {"SEEK", cmdSeek},
	CmdIdentifyDevice:            {"IDENTIFY DEVICE", cmdIdentifyDevice},
	CmdSetFeatures:               {"SET FEATURES", cmdSetFeatures},
	CmdSetMultipleMode:           {"SET MULTIPLE MODE", cmdSetMultipleMode},
	CmdIdentifyPacketDevice:      {"IDENTIFY PACKET DEVICE", cmdIdentifyPacketDevice},
	CmdDeviceReset:               {"DEVICE RESET", cmdDeviceReset},
	CmdPacket:                    {"PACKET", cmdPacket},
	CmdCheckPowerMode:            {"CHECK POWER MODE", cmdCheckPowerMode},
	CmdIdlePower:                 {"IDLE", cmdPowerStub},
	CmdStandbyPower:              {"STANDBY", cmdPowerStub},
	CmdReadNativeMaxAddress:      {"READ NATIVE MAX ADDRESS", cmdReadNativeMaxAddress},
}

var atapiCommands = map[uint8]PacketEntry{
	PktTestUnitReady:             {"TEST UNIT READY", pktTestUnitReady},
	PktRequestSense:              {"REQUEST SENSE", pktRequestSense},
	PktInquiry:                   {"INQUIRY", pktInquiry},
	PktModeSelect:                {"MODE SELECT", pktModeSelect},
	PktModeSense:                 {"MODE SENSE", pktModeSense},
	PktStartStopUnit:             {"START STOP UNIT", pktStartStopUnit},
	PktPreventAllowMediumRemoval: {"PREVENT/ALLOW MEDIUM REMOVAL", pktPreventAllowMediumRemoval},
	PktReadCapacity:              {"READ CD-ROM CAPACITY", pktReadCapacity},
	PktRead10:                    {"READ", pktRead10},
	PktSeek10:                    {"SEEK", pktSeek10},
	PktPauseResume:               {"PAUSE/RESUME", pktPauseResume},
	PktReadSubChannel:            {"READ SUB-CHANNEL", pktReadSubChannel},
	PktReadTOC:                   {"READ TOC", pktReadTOC},
	PktPlayAudioMSF:              {"PLAY AUDIO MSF", pktPlayAudioMSF},
	PktGetEventStatusNotification: {"GET EVENT STATUS NOTIFICATION", pktGetEventStatusNotification},
	PktReadDiscInformation:       {"READ DISC INFORMATION", pktReadDiscInformation},
}

func lookupATACommand(opcode uint8) (CmdEntry, bool) {
	e, ok := ataCommands[opcode]
	return e, ok
}

func lookupATAPICommand(opcode uint8) (PacketEntry, bool) {
	e, ok := atapiCommands[opcode]
	return e, ok
}
