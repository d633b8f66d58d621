package session

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tverner/pickr/internal/model"
	"github.com/tverner/pickr/internal/picker"
)

func testSettings() *model.Settings {
	return &model.Settings{
		UnproposedFactor: 0.5,
		RejectedFactor:   0.2,
		Persons: []*model.Person{
			{Name: "Alice", Active: true},
			{Name: "Bob", TimesUnproposed: 2, TimesRejected: 3, Active: true},
			{Name: "Carol", Active: true},
		},
	}
}

func newTestLoop(s *model.Settings, input string) (*Loop, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	l := New(s, "settings.json", picker.NewSeeded(1), strings.NewReader(input), &out, &errOut, false)
	l.save = func(string, *model.Settings) error { return nil }
	return l, &out, &errOut
}

func TestRunRejectThenAccept(t *testing.T) {
	// Excluding Alice and Carol leaves Bob as the only candidate, so every
	// proposal is deterministic.
	s := testSettings()
	l, out, _ := newTestLoop(s, "1,3\nn\ny\nq\n")

	if err := l.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "1: Alice") || !strings.Contains(out.String(), "3: Carol") {
		t.Fatalf("expected numbered person list, got %q", out.String())
	}
	if !strings.Contains(out.String(), "Pick Bob (y/n)? ") {
		t.Fatalf("expected proposal prompt, got %q", out.String())
	}

	bob := s.Persons[1]
	// Reject bumped rejections to 4; the accept then reset both counters.
	if bob.TimesUnproposed != 0 || bob.TimesRejected != 0 {
		t.Fatalf("expected Bob reset after accept, got %+v", bob)
	}
	if s.Persons[0].TimesUnproposed != 0 || s.Persons[2].TimesUnproposed != 0 {
		t.Fatalf("expected excluded persons untouched, got %+v %+v", s.Persons[0], s.Persons[2])
	}
	tally := l.Tally()
	if tally.Proposals != 2 || tally.Accepts != 1 || tally.Rejects != 1 {
		t.Fatalf("unexpected tally: %+v", tally)
	}
}

func TestRunRejectIncrementsOnlyProposed(t *testing.T) {
	s := testSettings()
	l, _, _ := newTestLoop(s, "1,3\nn\nq\n")

	if err := l.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bob := s.Persons[1]
	if bob.TimesRejected != 4 {
		t.Fatalf("expected rejections 4, got %d", bob.TimesRejected)
	}
	if bob.TimesUnproposed != 2 {
		t.Fatalf("expected proposed person's unproposed counter unchanged, got %d", bob.TimesUnproposed)
	}
}

func TestRunExcludedCountersNeverChange(t *testing.T) {
	s := testSettings()
	l, _, _ := newTestLoop(s, "2\nn\nn\nn\nq\n")

	if err := l.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bob := s.Persons[1]
	if bob.Active {
		t.Fatalf("expected Bob excluded for the run")
	}
	if bob.TimesUnproposed != 2 || bob.TimesRejected != 3 {
		t.Fatalf("expected Bob's counters unchanged, got %+v", bob)
	}
	// Each cycle adds exactly one count to every active person: the proposed
	// one gains a rejection, the other an unproposed tick.
	total := s.Persons[0].TimesUnproposed + s.Persons[0].TimesRejected +
		s.Persons[2].TimesUnproposed + s.Persons[2].TimesRejected
	if total != 6 {
		t.Fatalf("expected 6 counter increments after 3 cycles, got %d", total)
	}
}

func TestRunRepromptsOnBadExclusionInput(t *testing.T) {
	s := testSettings()
	l, out, errOut := newTestLoop(s, "5\nfoo\n1, 2\nq\n")

	if err := l.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(errOut.String(), "out of range") {
		t.Fatalf("expected out-of-range message, got %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), `invalid number "foo"`) {
		t.Fatalf("expected invalid-number message, got %q", errOut.String())
	}
	if got := strings.Count(out.String(), "Exclude (comma-separated"); got != 3 {
		t.Fatalf("expected 3 exclusion prompts, got %d", got)
	}
	if s.Persons[0].Active || s.Persons[1].Active {
		t.Fatalf("expected Alice and Bob excluded after valid line")
	}
	if !s.Persons[2].Active {
		t.Fatalf("expected Carol still active")
	}
}

func TestRunBadLineAppliesNothing(t *testing.T) {
	s := testSettings()
	l, _, _ := newTestLoop(s, "1,9\nq\n")

	if err := l.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Persons[0].Active {
		t.Fatalf("expected no exclusion applied from a partially valid line")
	}
}

func TestRunNoCandidates(t *testing.T) {
	s := testSettings()
	l, _, _ := newTestLoop(s, "1,2,3\n")

	err := l.Run()
	if !errors.Is(err, picker.ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestRunEmptyPersonList(t *testing.T) {
	s := &model.Settings{UnproposedFactor: 0.5, RejectedFactor: 0.2}
	l, out, _ := newTestLoop(s, "")

	err := l.Run()
	if !errors.Is(err, picker.ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
	if strings.Contains(out.String(), "Exclude") {
		t.Fatalf("expected no exclusion prompt for an empty list, got %q", out.String())
	}
}

func TestRunQuitsCleanlyOnEOF(t *testing.T) {
	s := testSettings()
	l, _, _ := newTestLoop(s, "")

	if err := l.Run(); err != nil {
		t.Fatalf("expected clean exit on EOF, got %v", err)
	}
	if l.Tally().Proposals != 0 {
		t.Fatalf("expected no decisions recorded, got %+v", l.Tally())
	}
}

func TestRunSavesAfterEveryDecision(t *testing.T) {
	s := testSettings()
	l, _, _ := newTestLoop(s, "\nn\nn\nq\n")
	saves := 0
	l.save = func(path string, saved *model.Settings) error {
		saves++
		if path != "settings.json" {
			t.Fatalf("unexpected save path %q", path)
		}
		if len(saved.Persons) != 3 {
			t.Fatalf("expected all persons saved, got %d", len(saved.Persons))
		}
		return nil
	}

	if err := l.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saves != 2 {
		t.Fatalf("expected 2 saves, got %d", saves)
	}
}

func TestRunContinuesAfterSaveFailure(t *testing.T) {
	s := testSettings()
	l, _, errOut := newTestLoop(s, "\nn\nq\n")
	l.save = func(string, *model.Settings) error {
		return fmt.Errorf("disk full")
	}

	if err := l.Run(); err != nil {
		t.Fatalf("expected loop to continue after save failure, got %v", err)
	}
	if !strings.Contains(errOut.String(), "disk full") {
		t.Fatalf("expected save error surfaced, got %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), "stale") {
		t.Fatalf("expected stale-file warning, got %q", errOut.String())
	}
	if l.Tally().Rejects != 1 {
		t.Fatalf("expected decision kept in memory, got %+v", l.Tally())
	}
}

func TestRunShowWeights(t *testing.T) {
	s := testSettings()
	var out, errOut bytes.Buffer
	l := New(s, "settings.json", picker.NewSeeded(1), strings.NewReader("\nq\n"), &out, &errOut, true)
	l.save = func(string, *model.Settings) error { return nil }

	if err := l.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Chance") {
		t.Fatalf("expected weights table before the proposal, got %q", out.String())
	}
}

func TestParseExclusions(t *testing.T) {
	indices, err := parseExclusions(" 1 , 3 ", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(indices) != 2 || indices[0] != 0 || indices[1] != 2 {
		t.Fatalf("unexpected indices: %v", indices)
	}

	if _, err := parseExclusions("0", 3); err == nil {
		t.Fatalf("expected error for index 0")
	}
	if _, err := parseExclusions("4", 3); err == nil {
		t.Fatalf("expected error for out-of-range index")
	}
	if indices, err := parseExclusions("   ", 3); err != nil || indices != nil {
		t.Fatalf("expected blank line to mean no exclusions, got %v %v", indices, err)
	}
}
