package core

import "rcfirm/protocol"

// Prompt is printed in front of the console line
const Prompt = "> "

// FormatChannels renders the first n channels and any raised flags as one
// console line, e.g. "ch1=992 ch2=172 failsafe\r\n"
func FormatChannels(out *protocol.ScratchOutput, f protocol.Frame, n int) {
	if n <= 0 || n > protocol.NumChannels {
		n = protocol.NumChannels
	}
	for i := 0; i < n; i++ {
		if i > 0 {
			out.OutputByte(' ')
		}
		out.OutputString("ch")
		out.OutputString(itoa(i + 1))
		out.OutputByte('=')
		out.OutputString(utoa(uint32(f.Channels[i])))
	}
	if f.Channel17 {
		out.OutputString(" ch17")
	}
	if f.Channel18 {
		out.OutputString(" ch18")
	}
	if f.FrameLost {
		out.OutputString(" lost")
	}
	if f.Failsafe {
		out.OutputString(" failsafe")
	}
	out.OutputString("\r\n")
}

// FormatStats renders decoder counters as one debug line
func FormatStats(s protocol.DecoderStats) string {
	return "[SBUS] frames=" + utoa(s.Frames) +
		" bad_end=" + utoa(s.BadEnd) +
		" idle_resets=" + utoa(s.IdleResets) +
		" sync_skipped=" + utoa(s.SyncSkipped)
}

// RenderLine redraws the edited line in place using only carriage returns:
// the prompt and line, blanks over whatever a longer previous line left
// behind, then the prompt and the text up to the cursor so the terminal's
// cursor lands on the insertion point.
func RenderLine(out *protocol.ScratchOutput, line string, cursor, prevLen int) {
	if cursor < 0 || cursor > len(line) {
		cursor = len(line)
	}
	out.OutputByte('\r')
	out.OutputString(Prompt)
	out.OutputString(line)
	for i := len(line); i < prevLen; i++ {
		out.OutputByte(' ')
	}
	out.OutputByte('\r')
	out.OutputString(Prompt)
	out.OutputString(line[:cursor])
}

// Reporter prints the latest frame at most once per period. It is woken by
// the dispatcher's frame notifications, so a silent receiver prints nothing.
type Reporter struct {
	disp     *Dispatcher
	period   uint32
	channels int
	last     uint32
	started  bool
}

// NewReporter reports the first channels of each frame from d, no more
// often than every periodMS
func NewReporter(d *Dispatcher, periodMS uint32, channels int) *Reporter {
	return &Reporter{
		disp:     d,
		period:   TimerFromMS(periodMS),
		channels: channels,
	}
}

// Poll consumes a pending frame notification without blocking. When a
// report is due it appends one to out and returns true.
func (r *Reporter) Poll(out *protocol.ScratchOutput) bool {
	select {
	case <-r.disp.FrameReady():
	default:
		return false
	}

	now := GetTime()
	if r.started && now-r.last < r.period {
		return false
	}
	r.last, r.started = now, true

	f, _ := r.disp.LatestFrame()
	FormatChannels(out, f, r.channels)
	return true
}
