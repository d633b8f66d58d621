package picker

import (
	"strings"
	"testing"

	"github.com/tverner/pickr/internal/model"
)

func TestFormatWeightsColumns(t *testing.T) {
	s := &model.Settings{
		UnproposedFactor: 0.5,
		RejectedFactor:   0.2,
		Persons: []*model.Person{
			{Name: "Alice", Active: true},
			{Name: "Bob", TimesUnproposed: 2, Active: true},
		},
	}

	lines := FormatWeights(s)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Name") {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	// Alice: weight 1.0 of total 3.0; Bob: weight 2.0.
	if !strings.Contains(lines[1], "1.00") || !strings.Contains(lines[1], "33.3%") {
		t.Fatalf("unexpected Alice row: %q", lines[1])
	}
	if !strings.Contains(lines[2], "2.00") || !strings.Contains(lines[2], "66.7%") {
		t.Fatalf("unexpected Bob row: %q", lines[2])
	}
}

func TestFormatWeightsMarksExcluded(t *testing.T) {
	s := &model.Settings{
		UnproposedFactor: 0.5,
		RejectedFactor:   0.2,
		Persons: []*model.Person{
			{Name: "Alice", Active: true},
			{Name: "Bob", Active: false},
		},
	}

	lines := FormatWeights(s)
	if !strings.Contains(lines[2], "excluded") {
		t.Fatalf("expected excluded marker for Bob, got %q", lines[2])
	}
	if !strings.Contains(lines[1], "100.0%") {
		t.Fatalf("expected Alice to hold the full chance, got %q", lines[1])
	}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Name", "Weight"}
	rows := [][]string{
		{"a", "1.00"},
		{"longname", "12.40"},
	}
	rightAlign := map[int]bool{1: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Name     Weight" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a          1.00" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "longname  12.40" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}
