package procutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoPID is returned by Record.PID when the first token is not a usable
// process identifier.
var ErrNoPID = errors.New("no process id")

// Record is one line of process listing output split on whitespace.
// Token 0 is the process identifier; the remaining tokens are whatever
// columns the listing produced.
type Record []string

// Empty reports whether the record has no tokens.
func (r Record) Empty() bool {
	return len(r) == 0
}

// Text returns the tokens joined by single spaces.
func (r Record) Text() string {
	return strings.Join(r, " ")
}

// Command returns the record without its PID column.
func (r Record) Command() string {
	if len(r) < 2 {
		return ""
	}
	return strings.Join(r[1:], " ")
}

// Has reports whether any token equals tok exactly.
func (r Record) Has(tok string) bool {
	for _, t := range r {
		if t == tok {
			return true
		}
	}
	return false
}

// Matches reports whether the record text contains pattern.
func (r Record) Matches(pattern string) bool {
	return strings.Contains(r.Text(), pattern)
}

// PID parses token 0, which must be plain decimal digits. Zero is rejected
// since kill(2) treats it as a process group address; signs are never
// accepted.
func (r Record) PID() (int, error) {
	if r.Empty() {
		return 0, ErrNoPID
	}
	if !isDigits(r[0]) {
		return 0, fmt.Errorf("%w: %q", ErrNoPID, r[0])
	}
	pid, err := strconv.Atoi(r[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNoPID, r[0])
	}
	if pid <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrNoPID, pid)
	}
	return pid, nil
}

// ParseListing splits listing text into records, one per line.
// Blank lines yield empty records rather than being dropped so callers can
// account for them.
func ParseListing(text string) []Record {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	records := make([]Record, 0, len(lines))
	for _, line := range lines {
		records = append(records, Record(strings.Fields(line)))
	}
	return records
}

// Filter returns the records whose text contains pattern, preserving order.
func Filter(records []Record, pattern string) []Record {
	var out []Record
	for _, rec := range records {
		if rec.Matches(pattern) {
			out = append(out, rec)
		}
	}
	return out
}
