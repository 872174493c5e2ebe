// Package protocol implements the SBUS wire format and the byte FIFOs used by the serial console
package protocol

// Version represents the rcfirm firmware version
const Version = "0.1.0"

// SBUS frame layout
const (
	FrameSize    = 25   // Sync + 22 channel bytes + flags + terminator
	SyncByte     = 0x0F // Byte 0 of every frame
	EndByte      = 0x00 // Byte 24 of every valid frame
	NumChannels  = 16   // Proportional channels per frame
	ChannelBits  = 11   // Bits per proportional channel
	ChannelMax   = 1<<ChannelBits - 1
	channelBytes = 22 // Packed channel payload (16 * 11 bits)

	flagsPos = 1 + channelBytes // Byte position of the flags byte
	endPos   = flagsPos + 1     // Byte position of the terminator
)

// Flag bits carried in byte 23
const (
	FlagChannel17 = 1 << 0
	FlagChannel18 = 1 << 1
	FlagFrameLost = 1 << 2
	FlagFailsafe  = 1 << 3
)

// SBUS line settings (100000 baud, 8 data bits, even parity, 2 stop bits, inverted)
const (
	SbusBaud     = 100000
	SbusDataBits = 8
	SbusStopBits = 2
)
