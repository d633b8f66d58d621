// Package session runs the line-based propose/accept/reject loop.
package session

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tverner/pickr/internal/model"
	"github.com/tverner/pickr/internal/picker"
	"github.com/tverner/pickr/internal/settings"
)

// Loop drives one interactive run: exclusion prompt, then repeated proposal
// cycles, persisting after every decision.
type Loop struct {
	settings    *model.Settings
	path        string
	picker      *picker.Picker
	scanner     *bufio.Scanner
	out         io.Writer
	errOut      io.Writer
	showWeights bool
	tally       model.SessionTally

	save func(path string, s *model.Settings) error
}

// New constructs a Loop reading decisions from in and writing the protocol
// to out. Diagnostics go to errOut.
func New(s *model.Settings, path string, pk *picker.Picker, in io.Reader, out, errOut io.Writer, showWeights bool) *Loop {
	return &Loop{
		settings:    s,
		path:        path,
		picker:      pk,
		scanner:     bufio.NewScanner(in),
		out:         out,
		errOut:      errOut,
		showWeights: showWeights,
		save:        settings.Save,
	}
}

// Tally reports the decisions recorded so far.
func (l *Loop) Tally() model.SessionTally {
	return l.tally
}

// Run executes the loop until the user quits (nil) or no active person is
// left to propose (picker.ErrNoCandidates).
func (l *Loop) Run() error {
	quit, err := l.promptExclusions()
	if err != nil {
		return err
	}
	if quit {
		return nil
	}

	for {
		proposed, err := l.picker.Propose(l.settings)
		if err != nil {
			return err
		}
		if l.showWeights {
			fmt.Fprintln(l.out)
			for _, line := range picker.FormatWeights(l.settings) {
				fmt.Fprintln(l.out, line)
			}
		}
		fmt.Fprintf(l.out, "\nPick %s (y/n)? ", proposed.Name)
		line, ok := l.readLine()
		if !ok {
			fmt.Fprintln(l.out)
			return nil
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer == "q" {
			return nil
		}

		decision := picker.Rejected
		if answer == "y" {
			decision = picker.Accepted
		}
		picker.Apply(l.settings, proposed, decision)
		l.tally.Proposals++
		if decision == picker.Accepted {
			l.tally.Accepts++
		} else {
			l.tally.Rejects++
		}

		if err := l.save(l.path, l.settings); err != nil {
			fmt.Fprintf(l.errOut, "failed to save settings: %v\n", err)
			fmt.Fprintln(l.errOut, "warning: the settings file may be stale; the latest decision is kept in memory")
		}
	}
}

// promptExclusions shows the numbered person list and marks the chosen
// persons inactive for the rest of the run. An invalid line applies nothing
// and re-prompts. Returns quit=true when input ends before a valid line.
func (l *Loop) promptExclusions() (quit bool, err error) {
	if len(l.settings.Persons) == 0 {
		return false, nil
	}
	for {
		fmt.Fprintln(l.out)
		for i, p := range l.settings.Persons {
			fmt.Fprintf(l.out, "%d: %s\n", i+1, p.Name)
		}
		fmt.Fprint(l.out, "Exclude (comma-separated numbers or empty): ")

		line, ok := l.readLine()
		if !ok {
			fmt.Fprintln(l.out)
			return true, nil
		}
		indices, perr := parseExclusions(line, len(l.settings.Persons))
		if perr != nil {
			fmt.Fprintf(l.errOut, "%v\n", perr)
			continue
		}
		for _, idx := range indices {
			l.settings.Persons[idx].Active = false
		}
		return false, nil
	}
}

// parseExclusions parses a comma-separated list of 1-based indices. The line
// is all-or-nothing: one bad token rejects the whole line.
func parseExclusions(line string, count int) ([]int, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, nil
	}
	parts := strings.Split(trimmed, ",")
	indices := make([]int, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		n, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", token)
		}
		if n < 1 || n > count {
			return nil, fmt.Errorf("number %d is out of range (1-%d)", n, count)
		}
		indices = append(indices, n-1)
	}
	return indices, nil
}

func (l *Loop) readLine() (string, bool) {
	if !l.scanner.Scan() {
		return "", false
	}
	return l.scanner.Text(), true
}
