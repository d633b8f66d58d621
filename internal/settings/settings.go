// Package settings loads and persists the picker settings file.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/tverner/pickr/internal/model"
)

// Default factor values applied when the settings file omits them.
const (
	DefaultUnproposedFactor = 0.5
	DefaultRejectedFactor   = 0.2
)

// ParseError describes a malformed settings document. Location points at the
// offending field, e.g. "persons[2]".
type ParseError struct {
	Location string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid settings: %s: %s", e.Location, e.Reason)
}

// Default returns settings with default factors and no persons.
func Default() *model.Settings {
	return &model.Settings{
		UnproposedFactor: DefaultUnproposedFactor,
		RejectedFactor:   DefaultRejectedFactor,
		Persons:          []*model.Person{},
	}
}

// Load reads settings from path. A missing file yields defaults so the
// program is usable on first run without a pre-existing file.
func Load(path string) (*model.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	return Parse(data)
}

// Parse validates and decodes a settings document, applying defaults for
// absent optional fields. All loaded persons start out active; negative
// counters and factors are clamped to zero.
func Parse(data []byte) (*model.Settings, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Location: "settings", Reason: "not valid JSON"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &ParseError{Location: "settings", Reason: "not a JSON object"}
	}

	s := Default()
	var err error
	if s.UnproposedFactor, err = parseFactor(root, "unproposedFactor", DefaultUnproposedFactor); err != nil {
		return nil, err
	}
	if s.RejectedFactor, err = parseFactor(root, "rejectedFactor", DefaultRejectedFactor); err != nil {
		return nil, err
	}

	persons := root.Get("persons")
	if !persons.Exists() {
		return s, nil
	}
	if !persons.IsArray() {
		return nil, &ParseError{Location: "persons", Reason: "not an array"}
	}
	for i, entry := range persons.Array() {
		person, err := parsePerson(entry, i)
		if err != nil {
			return nil, err
		}
		s.Persons = append(s.Persons, person)
	}
	return s, nil
}

func parseFactor(root gjson.Result, field string, fallback float64) (float64, error) {
	value := root.Get(field)
	if !value.Exists() {
		return fallback, nil
	}
	if value.Type != gjson.Number {
		return 0, &ParseError{Location: field, Reason: "not a number"}
	}
	f := value.Float()
	if f < 0 {
		f = 0
	}
	return f, nil
}

func parsePerson(entry gjson.Result, index int) (*model.Person, error) {
	location := fmt.Sprintf("persons[%d]", index)
	if !entry.IsObject() {
		return nil, &ParseError{Location: location, Reason: "not a JSON object"}
	}
	name := entry.Get("name")
	if !name.Exists() {
		return nil, &ParseError{Location: location, Reason: "missing name"}
	}
	if name.Type != gjson.String {
		return nil, &ParseError{Location: location + ".name", Reason: "not a string"}
	}
	unproposed, err := parseCounter(entry, location, "timesUnproposed")
	if err != nil {
		return nil, err
	}
	rejected, err := parseCounter(entry, location, "timesRejected")
	if err != nil {
		return nil, err
	}
	return &model.Person{
		Name:            name.String(),
		TimesUnproposed: unproposed,
		TimesRejected:   rejected,
		Active:          true,
	}, nil
}

func parseCounter(entry gjson.Result, location, field string) (int, error) {
	value := entry.Get(field)
	if !value.Exists() {
		return 0, nil
	}
	if value.Type != gjson.Number {
		return 0, &ParseError{Location: location + "." + field, Reason: "not a number"}
	}
	n := int(value.Int())
	if n < 0 {
		n = 0
	}
	return n, nil
}

// Save writes the full settings document to path atomically: the document is
// written to a temp file in the same directory and renamed over the target,
// so an interrupted save never leaves a truncated file behind.
func Save(path string, s *model.Settings) error {
	doc := *s
	if doc.Persons == nil {
		doc.Persons = []*model.Person{}
	}
	data, err := json.MarshalIndent(&doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	data = append(data, '\n')

	tmpFile, err := os.CreateTemp(filepath.Dir(path), "settings-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp settings: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		// No-op after a successful rename.
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close settings: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}
