package gcode

import (
	"io"
	"strconv"
	"strings"
)

// EndOfProgram is the program-end marker.
const EndOfProgram = "M2"

// Program is the compiled output: an ordered list of lines.
type Program struct {
	Lines []string
}

// Add appends a line. Empty lines from emitters that had nothing to say
// are dropped; use Blank for an intentional separator.
func (p *Program) Add(line string) {
	if line == "" {
		return
	}
	p.Lines = append(p.Lines, line)
}

// Blank appends an empty separator line.
func (p *Program) Blank() {
	p.Lines = append(p.Lines, "")
}

// Len returns the number of lines.
func (p *Program) Len() int {
	return len(p.Lines)
}

// String renders the program with one command per line and a trailing newline.
func (p *Program) String() string {
	if len(p.Lines) == 0 {
		return ""
	}
	return strings.Join(p.Lines, "\n") + "\n"
}

// WriteTo writes the rendered program to w.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, p.String())
	return int64(n), err
}

// Preamble returns the one-time modal setup block, in its fixed order.
func Preamble(rpm int, pathTolerance float64) []string {
	return []string{
		"G90\t(Absolute mode)",
		"G91.1\t(Relative arc offsets)",
		"G94\t(Units/minute mode)",
		"G97 S" + strconv.Itoa(rpm) + "\t(Set spindle speed)",
		"G21\t(units are mm)",
		"G40\t(no cutter comp)",
		"G64 P" + strconv.FormatFloat(pathTolerance, 'f', -1, 64) + "\t(set path tolerance)",
		"G17\t(Use XY plane for arcs)",
	}
}
