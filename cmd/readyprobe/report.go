package main

import (
	"fmt"
	"io"

	"github.com/drblury/readyweaver/jsonutil"
	"github.com/drblury/readyweaver/readiness"
)

// report is the outcome printed by wait and run.
type report struct {
	RunID    string `json:"runId"`
	Target   string `json:"target"`
	State    string `json:"state"`
	Attempts int    `json:"attempts"`
	Elapsed  string `json:"elapsed"`
	Body     string `json:"body,omitempty"`
	Error    string `json:"error,omitempty"`
}

func newReport(target string, result readiness.Result, err error) report {
	r := report{
		RunID:    result.RunID,
		Target:   target,
		State:    string(result.State),
		Attempts: result.Attempts,
		Elapsed:  result.Elapsed.String(),
		Body:     result.Body,
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

func (r report) write(w io.Writer, asJSON bool) error {
	if asJSON {
		return jsonutil.EncodeIndent(w, r)
	}
	if r.Error != "" {
		_, err := fmt.Fprintf(w, "%s not ready after %d attempt(s) in %s\n", r.Target, r.Attempts, r.Elapsed)
		return err
	}
	_, err := fmt.Fprintf(w, "%s ready after %d attempt(s) in %s\n", r.Target, r.Attempts, r.Elapsed)
	return err
}
