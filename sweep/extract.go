package sweep

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Default marker substrings emitted by sim-cache style simulators.
const (
	DefaultInstructionMarker = "il1.miss_rate"
	DefaultDataMarker        = "dl1.miss_rate"
)

// LineKind tags the outcome of classifying one line of simulator output.
type LineKind int

const (
	Unrecognized LineKind = iota
	InstructionMissLine
	DataMissLine
)

func (k LineKind) String() string {
	switch k {
	case InstructionMissLine:
		return "InstructionMissLine"
	case DataMissLine:
		return "DataMissLine"
	default:
		return "Unrecognized"
	}
}

// LineOutcome is the tagged result of ClassifyLine. Value is only meaningful
// when Kind is not Unrecognized.
type LineOutcome struct {
	Kind  LineKind
	Value float64
}

// Markers holds the substrings identifying the two miss-rate lines.
type Markers struct {
	Instruction string `yaml:"instruction"`
	Data        string `yaml:"data"`
}

// DefaultMarkers returns the il1/dl1 markers.
func DefaultMarkers() Markers {
	return Markers{Instruction: DefaultInstructionMarker, Data: DefaultDataMarker}
}

// Classify inspects one line. A line containing a marker with at least two
// whitespace-separated tokens is a key/value line whose value is the second
// token. A marker line with fewer tokens is Unrecognized; a marker line whose
// value does not parse as a float returns an error.
// The instruction marker is checked first; use ClassifyAll for lines that may
// carry both markers.
func (m Markers) Classify(line string) (LineOutcome, error) {
	for _, c := range m.candidates() {
		out, matched, err := classifyAs(line, c.marker, c.kind)
		if matched || err != nil {
			return out, err
		}
	}
	return LineOutcome{Kind: Unrecognized}, nil
}

// ClassifyAll applies the instruction and data rules independently and
// returns one outcome per rule that matched, instruction first. A line
// containing both markers yields two outcomes sharing the same value.
func (m Markers) ClassifyAll(line string) ([]LineOutcome, error) {
	var outs []LineOutcome
	for _, c := range m.candidates() {
		out, matched, err := classifyAs(line, c.marker, c.kind)
		if err != nil {
			return nil, err
		}
		if matched {
			outs = append(outs, out)
		}
	}
	return outs, nil
}

type markerRule struct {
	marker string
	kind   LineKind
}

func (m Markers) candidates() [2]markerRule {
	return [2]markerRule{
		{m.Instruction, InstructionMissLine},
		{m.Data, DataMissLine},
	}
}

func classifyAs(line, marker string, kind LineKind) (LineOutcome, bool, error) {
	if marker == "" || !strings.Contains(line, marker) {
		return LineOutcome{Kind: Unrecognized}, false, nil
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return LineOutcome{Kind: Unrecognized}, false, nil
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return LineOutcome{Kind: Unrecognized}, false, fmt.Errorf("%s value %q: %w", kind, fields[1], err)
	}
	return LineOutcome{Kind: kind, Value: v}, true, nil
}

// ClassifyLine classifies a line using the default markers.
func ClassifyLine(line string) (LineOutcome, error) {
	return DefaultMarkers().Classify(line)
}

// ExtractRecord scans one run's output. Each marker rule is applied to every
// line independently and the last occurrence of each marker wins. Lines have
// no length limit. ok is false when either miss rate never appeared; err is
// non-nil on read failures, invalid UTF-8 and malformed marker lines.
func (m Markers) ExtractRecord(id RunID, r io.Reader) (rec MetricRecord, ok bool, err error) {
	var (
		il1, dl1       float64
		haveIL1, haveD bool
	)

	br := bufio.NewReader(r)
	lineNo := 0
	for {
		line, rerr := br.ReadString('\n')
		if len(line) > 0 {
			lineNo++
			if !utf8.ValidString(line) {
				return MetricRecord{}, false, fmt.Errorf("line %d: invalid UTF-8", lineNo)
			}
			outs, err := m.ClassifyAll(line)
			if err != nil {
				return MetricRecord{}, false, fmt.Errorf("line %d: %w", lineNo, err)
			}
			for _, out := range outs {
				switch out.Kind {
				case InstructionMissLine:
					il1, haveIL1 = out.Value, true
				case DataMissLine:
					dl1, haveD = out.Value, true
				}
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return MetricRecord{}, false, fmt.Errorf("reading output: %w", rerr)
		}
	}

	if !haveIL1 || !haveD {
		return MetricRecord{}, false, nil
	}
	return MetricRecord{
		Benchmark: id.Benchmark,
		NSets:     id.NSets,
		Assoc:     id.Assoc,
		IL1Miss:   il1,
		DL1Miss:   dl1,
	}, true, nil
}

// ExtractRecord scans r with the default markers.
func ExtractRecord(id RunID, r io.Reader) (MetricRecord, bool, error) {
	return DefaultMarkers().ExtractRecord(id, r)
}

// ClassifyAll applies both default marker rules to line.
func ClassifyAll(line string) ([]LineOutcome, error) {
	return DefaultMarkers().ClassifyAll(line)
}
