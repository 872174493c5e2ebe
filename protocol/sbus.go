package protocol

// Frame is one decoded SBUS frame
type Frame struct {
	Channels  [NumChannels]uint16 // 11-bit proportional channels
	Channel17 bool                // Digital channel 17
	Channel18 bool                // Digital channel 18
	FrameLost bool                // Receiver reports a lost frame
	Failsafe  bool                // Receiver is in failsafe
}

// Flags returns the flags byte as carried on the wire
func (f *Frame) Flags() byte {
	var b byte
	if f.Channel17 {
		b |= FlagChannel17
	}
	if f.Channel18 {
		b |= FlagChannel18
	}
	if f.FrameLost {
		b |= FlagFrameLost
	}
	if f.Failsafe {
		b |= FlagFailsafe
	}
	return b
}

func (f *Frame) setFlags(b byte) {
	f.Channel17 = b&FlagChannel17 != 0
	f.Channel18 = b&FlagChannel18 != 0
	f.FrameLost = b&FlagFrameLost != 0
	f.Failsafe = b&FlagFailsafe != 0
}

// DecoderState names the decoder position ranges
type DecoderState uint8

const (
	AwaitingSync DecoderState = iota
	AccumulatingChannels
	AccumulatingFlags
	AwaitingTerminator
)

func (s DecoderState) String() string {
	switch s {
	case AwaitingSync:
		return "awaiting_sync"
	case AccumulatingChannels:
		return "channels"
	case AccumulatingFlags:
		return "flags"
	case AwaitingTerminator:
		return "terminator"
	}
	return "unknown"
}

// DecoderStats counts decoder outcomes since the decoder was created
type DecoderStats struct {
	Frames      uint32 // Frames completed with a valid terminator
	BadEnd      uint32 // Frames dropped on a non-zero terminator
	IdleResets  uint32 // Partial frames discarded by ProcessIdle
	SyncSkipped uint32 // Bytes ignored while waiting for the sync byte
}

// Decoder reassembles SBUS frames one byte at a time.
// It never allocates and is safe to drive from an interrupt handler.
type Decoder struct {
	pos     uint8 // 0..24, next byte position within the frame
	partial Frame // Frame being accumulated
	last    Frame // Last frame completed with a valid terminator
	stats   DecoderStats
}

// NewDecoder creates a decoder waiting for a sync byte
func NewDecoder() *Decoder {
	return &Decoder{}
}

// ProcessChar consumes one received byte. It returns true exactly when the
// byte completes a frame whose terminator is 0x00; Frame then returns it.
// Position returns to 0 on every 25th byte whether or not the frame was valid.
func (d *Decoder) ProcessChar(c byte) bool {
	switch {
	case d.pos == 0:
		if c != SyncByte {
			d.stats.SyncSkipped++
			return false
		}
		d.partial = Frame{}
		d.pos = 1
		return false

	case d.pos <= channelBytes:
		bitIndex := uint32(d.pos-1) * 8
		ci := bitIndex / ChannelBits
		x := uint32(c) << (bitIndex % ChannelBits)
		d.partial.Channels[ci] = uint16((uint32(d.partial.Channels[ci]) | x) & ChannelMax)
		// A byte spans at most two channels; the overflow lands in the next one's low bits
		if y := x >> ChannelBits; y != 0 {
			d.partial.Channels[ci+1] = uint16((uint32(d.partial.Channels[ci+1]) | y) & ChannelMax)
		}
		d.pos++
		return false

	case d.pos == flagsPos:
		d.partial.setFlags(c)
		d.pos++
		return false
	}

	// Terminator
	d.pos = 0
	if c != EndByte {
		d.stats.BadEnd++
		return false
	}
	d.last = d.partial
	d.stats.Frames++
	return true
}

// ProcessIdle discards any partial frame and waits for the next sync byte.
// Call it when the receiver reports an idle line between frames.
func (d *Decoder) ProcessIdle() {
	if d.pos != 0 {
		d.stats.IdleResets++
	}
	d.pos = 0
	d.partial = Frame{}
}

// Frame returns the last completed frame
func (d *Decoder) Frame() Frame {
	return d.last
}

// Position returns the index of the next expected byte (0 means awaiting sync)
func (d *Decoder) Position() int {
	return int(d.pos)
}

// State returns the named state for the current position
func (d *Decoder) State() DecoderState {
	switch {
	case d.pos == 0:
		return AwaitingSync
	case d.pos <= channelBytes:
		return AccumulatingChannels
	case d.pos == flagsPos:
		return AccumulatingFlags
	}
	return AwaitingTerminator
}

// Stats returns a copy of the decoder counters
func (d *Decoder) Stats() DecoderStats {
	return d.stats
}

// EncodeFrame packs a frame into its 25-byte wire form.
// Channel values are masked to 11 bits.
func EncodeFrame(f Frame) [FrameSize]byte {
	var buf [FrameSize]byte
	buf[0] = SyncByte

	var bits uint32
	nbits := uint32(0)
	pos := 1
	for _, ch := range f.Channels {
		bits |= uint32(ch&ChannelMax) << nbits
		nbits += ChannelBits
		for nbits >= 8 {
			buf[pos] = byte(bits)
			pos++
			bits >>= 8
			nbits -= 8
		}
	}

	buf[flagsPos] = f.Flags()
	buf[endPos] = EndByte
	return buf
}
