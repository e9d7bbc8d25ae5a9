package upbeat

// Error is a coded error value that needs no allocation: the subsystem in
// bits 48-55 and the error number in the low 16 bits.  The zero value is
// NoError.
type Error uint64

const subsystemMask = 0x00ff_0000_0000_0000
const errorNumberMask = 0x0000_0000_0000_ffff

const NoError = Error(0)

// Device Errors
const DeviceSubsystem = 1
const DeviceGPIOTaken = 1
const DeviceUARTTaken = 2
const DevicePinOutOfRange = 3
const DeviceBadBaudRate = 4
const DeviceBadPull = 5

const ErrGPIOTaken = Error(DeviceSubsystem<<48 | DeviceGPIOTaken)
const ErrUARTTaken = Error(DeviceSubsystem<<48 | DeviceUARTTaken)
const ErrPinOutOfRange = Error(DeviceSubsystem<<48 | DevicePinOutOfRange)
const ErrBadBaudRate = Error(DeviceSubsystem<<48 | DeviceBadBaudRate)
const ErrBadPull = Error(DeviceSubsystem<<48 | DeviceBadPull)

// Boot Errors
const BootSubsystem = 2
const BootUnknownLevel = 1
const BootBadLayout = 2

const ErrUnknownLevel = Error(BootSubsystem<<48 | BootUnknownLevel)
const ErrBadLayout = Error(BootSubsystem<<48 | BootBadLayout)

var errorText = [...]struct {
	code Error
	text string
}{
	{ErrGPIOTaken, "gpio device already taken"},
	{ErrUARTTaken, "uart device already taken"},
	{ErrPinOutOfRange, "gpio pin out of range"},
	{ErrBadBaudRate, "baud rate cannot be generated from the uart clock"},
	{ErrBadPull, "not a pull-up/down setting"},
	{ErrUnknownLevel, "unknown exception level"},
	{ErrBadLayout, "bad boot memory layout"},
}

func (e Error) Error() string {
	for _, t := range errorText {
		if t.code == e {
			return t.text
		}
	}
	if e == NoError {
		return "no error"
	}
	return "unknown error code"
}

func (e Error) Subsystem() uint8 {
	return uint8((uint64(e) & subsystemMask) >> 48)
}

func (e Error) Number() uint16 {
	return uint16(uint64(e) & errorNumberMask)
}
