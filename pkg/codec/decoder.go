package codec

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hed1ad/gospmf/pkg/spmf"
)

// itemsetSplit separates itemsets on a result line.
const itemsetSplit = " " + spmf.ItemsetEnd + " "

// DecodeOption configures result parsing.
type DecodeOption func(*decoder)

type decoder struct {
	carryForward bool
}

// WithCarryForward makes a line without a support marker reuse the support
// of the previous record. A first line without marker is still an error.
func WithCarryForward() DecodeOption {
	return func(d *decoder) {
		d.carryForward = true
	}
}

// DecodeFile parses the result file at path.
func DecodeFile(path string, opts ...DecodeOption) ([]spmf.Pattern, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open result file: %w", err)
	}
	defer file.Close()

	return Decode(file, opts...)
}

// Decode parses result lines from r in order. Blank lines are skipped. The
// first malformed line aborts decoding with a *spmf.LineError.
func Decode(r io.Reader, opts ...DecodeOption) ([]spmf.Pattern, error) {
	d := &decoder{}
	for _, opt := range opts {
		opt(d)
	}

	var (
		patterns []spmf.Pattern
		support  = -1
		lineNo   int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		p, ok, err := parseLine(line)
		if err != nil {
			return nil, &spmf.LineError{Line: lineNo, Text: line, Err: err}
		}
		if !ok {
			if !d.carryForward || support < 0 {
				return nil, &spmf.LineError{
					Line: lineNo,
					Text: line,
					Err:  fmt.Errorf("%w: missing %q", spmf.ErrMalformedOutput, strings.TrimSpace(spmf.SupportMarker)),
				}
			}
			p.Support = support
		}
		support = p.Support
		patterns = append(patterns, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read result file: %w", err)
	}

	return patterns, nil
}

// parseLine splits a trimmed line into itemsets and the trailing markers.
// ok is false when the last fragment carries no support marker, in which
// case every fragment is returned as part of the pattern.
func parseLine(line string) (p spmf.Pattern, ok bool, err error) {
	fragments := strings.Split(line, itemsetSplit)
	last := fragments[len(fragments)-1]

	idx := markerIndex(last)
	if idx < 0 {
		return spmf.Pattern{Itemsets: trimAll(fragments[:len(fragments)-1])}, false, nil
	}

	sets := trimAll(fragments[:len(fragments)-1])
	// Itemset miners print "1 2 3 #SUP: 4" with no terminators at all.
	if head := strings.TrimSpace(last[:idx]); head != "" && head != spmf.SequenceEnd && head != spmf.ItemsetEnd {
		head = strings.TrimSuffix(head, " "+spmf.SequenceEnd)
		sets = append(sets, strings.TrimSpace(head))
	}

	support, extras, err := parseMarkers(last[idx:])
	if err != nil {
		return spmf.Pattern{}, false, err
	}

	return spmf.Pattern{Support: support, Itemsets: sets, Extras: extras}, true, nil
}

func markerIndex(fragment string) int {
	if strings.HasPrefix(fragment, spmf.SupportMarker) {
		return 0
	}
	if i := strings.Index(fragment, " "+spmf.SupportMarker); i >= 0 {
		return i + 1
	}
	return -1
}

// parseMarkers reads "#SUP: n" and any following "#KEY: value" markers.
func parseMarkers(s string) (int, map[string]string, error) {
	fields := splitMarkers(s)

	raw := fields[0][len(spmf.SupportMarker):]
	support, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || support < 0 {
		return 0, nil, fmt.Errorf("%w: bad support %q", spmf.ErrMalformedOutput, raw)
	}

	var extras map[string]string
	for _, f := range fields[1:] {
		key, value, found := strings.Cut(f, ":")
		if !found {
			continue
		}
		if extras == nil {
			extras = make(map[string]string)
		}
		extras[strings.TrimPrefix(key, "#")] = strings.TrimSpace(value)
	}

	return support, extras, nil
}

// splitMarkers cuts s before every " #" so each element is one marker.
func splitMarkers(s string) []string {
	var out []string
	for {
		i := strings.Index(s, " #")
		if i < 0 {
			return append(out, strings.TrimSpace(s))
		}
		out = append(out, strings.TrimSpace(s[:i]))
		s = s[i+1:]
	}
}

func trimAll(fragments []string) []string {
	out := make([]string, len(fragments))
	for i, f := range fragments {
		out[i] = strings.TrimSpace(f)
	}
	return out
}
