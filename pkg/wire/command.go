// Package wire parses filter commands sent to the firmware over UART.
//
// A command is one line: "m" selects the median filter, "a<n>" selects the
// average of n samples (1..255). Whitespace is ignored and both '\n' and
// '\r' end a line. The package does not allocate so it can run on the
// microcontroller.
package wire

// Command is a parsed filter command.
type Command struct {
	Median  bool
	Samples uint8 // Average sample count, zero for Median
}

// Parser assembles commands from a byte stream.
type Parser struct {
	kind    byte // 'm', 'a' or 0 before the first character
	digits  int
	samples uint16
	invalid bool
}

// Feed consumes one byte. It returns the command and true when c completes
// a valid line. Invalid lines are dropped at their line end.
func (p *Parser) Feed(c byte) (Command, bool) {
	switch c {
	case '\n', '\r':
		cmd, ok := p.finish()
		p.Reset()
		return cmd, ok
	case ' ', '\t':
		return Command{}, false
	}

	if p.invalid {
		return Command{}, false
	}

	switch {
	case p.kind == 0 && (c == 'm' || c == 'a'):
		p.kind = c
	case p.kind == 'a' && c >= '0' && c <= '9' && p.digits < 3:
		p.samples = p.samples*10 + uint16(c-'0')
		p.digits++
	default:
		p.invalid = true
	}
	return Command{}, false
}

func (p *Parser) finish() (Command, bool) {
	if p.invalid {
		return Command{}, false
	}
	switch p.kind {
	case 'm':
		return Command{Median: true}, true
	case 'a':
		if p.digits == 0 || p.samples == 0 || p.samples > 255 {
			return Command{}, false
		}
		return Command{Samples: uint8(p.samples)}, true
	}
	return Command{}, false
}

// Reset discards a partial line.
func (p *Parser) Reset() {
	*p = Parser{}
}
