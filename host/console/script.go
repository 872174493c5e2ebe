package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/shlex"
)

// Step is one action of a keystroke script
type Step struct {
	Line  int           // Source line, for error messages
	Data  []byte        // Bytes to send, nil for a pause
	Pause time.Duration // Delay before the next step
}

// ParseScript reads a keystroke script. Each line is shell-quoted:
//
//	type "set rate 50"   # send text
//	key left left bs     # send editing keys
//	sleep 200ms          # pause
//
// Text and keys may not exceed the 7-bit range the line editor accepts.
func ParseScript(r io.Reader) ([]Step, error) {
	var steps []Step
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		words, err := shlex.Split(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(words) == 0 {
			continue
		}

		step := Step{Line: lineNo}
		switch cmd, args := words[0], words[1:]; cmd {
		case "type":
			text := strings.Join(args, " ")
			for i := 0; i < len(text); i++ {
				if text[i] >= 0x80 {
					return nil, fmt.Errorf("line %d: non-ASCII text", lineNo)
				}
			}
			step.Data = []byte(text)
		case "key":
			if step.Data, err = Keys(args); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		case "sleep":
			if len(args) != 1 {
				return nil, fmt.Errorf("line %d: sleep takes one duration", lineNo)
			}
			if step.Pause, err = time.ParseDuration(args[0]); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		default:
			return nil, fmt.Errorf("line %d: unknown command %q", lineNo, cmd)
		}
		steps = append(steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}

// Play writes each step to w, pacing bytes by charDelay so the device's
// outbound queue and line editor keep up. It stops early when ctx is done.
func Play(ctx context.Context, w io.Writer, steps []Step, charDelay time.Duration) error {
	for _, step := range steps {
		for _, c := range step.Data {
			if _, err := w.Write([]byte{c}); err != nil {
				return fmt.Errorf("line %d: %w", step.Line, err)
			}
			if err := wait(ctx, charDelay); err != nil {
				return err
			}
		}
		if err := wait(ctx, step.Pause); err != nil {
			return err
		}
	}
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
