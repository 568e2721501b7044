package reap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// Report output formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned by Encode for an unsupported format.
var ErrUnknownFormat = errors.New("unknown output format")

// Report summarises one run.
type Report struct {
	RunID    string    `yaml:"run_id" json:"run_id"`
	Pattern  string    `yaml:"pattern" json:"pattern"`
	Signal   string    `yaml:"signal" json:"signal"`
	Source   string    `yaml:"source" json:"source"`
	DryRun   bool      `yaml:"dry_run" json:"dry_run"`
	Matched  int       `yaml:"matched" json:"matched"`
	Skipped  []Skip    `yaml:"skipped" json:"skipped"`
	Attempts []Attempt `yaml:"attempts" json:"attempts"`
}

// Count returns the number of attempts with outcome o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, a := range r.Attempts {
		if a.Outcome == o {
			n++
		}
	}
	return n
}

// Failed returns the number of attempts that did not succeed.
func (r *Report) Failed() int {
	n := 0
	for _, a := range r.Attempts {
		if !a.Outcome.OK() {
			n++
		}
	}
	return n
}

// PIDs returns the targeted PIDs in attempt order.
func (r *Report) PIDs() []int {
	pids := make([]int, 0, len(r.Attempts))
	for _, a := range r.Attempts {
		pids = append(pids, a.PID)
	}
	return pids
}

// Encode writes the report in a machine-readable format.
func (r *Report) Encode(w io.Writer, format string) error {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
