package models

import (
	"database/sql/driver"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidGrade is returned when a grade cannot be parsed.
var ErrInvalidGrade = errors.New("models: invalid grade")

// Grade is the outcome of a single study or test attempt.
type Grade int

const (
	GradeFail   Grade = iota + 1 // Did not recall the item.
	GradeAlmost                  // Partial recall.
	GradePass                    // Full recall.
)

var (
	gradeNames  = [...]string{GradeFail: "fail", GradeAlmost: "almost", GradePass: "pass"}
	gradeByName = map[string]Grade{
		"fail":   GradeFail,
		"almost": GradeAlmost,
		"pass":   GradePass,
	}
)

var (
	_ fmt.Stringer             = Grade(0)
	_ json.Marshaler           = Grade(0)
	_ json.Unmarshaler         = (*Grade)(nil)
	_ encoding.TextMarshaler   = Grade(0)
	_ encoding.TextUnmarshaler = (*Grade)(nil)
	_ driver.Valuer            = Grade(0)
)

// ParseGrade parses "pass", "almost" or "fail" (case-insensitive).
func ParseGrade(s string) (Grade, error) {
	g, ok := gradeByName[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGrade, s)
	}
	return g, nil
}

// IsValid reports whether g is one of the three defined grades.
func (g Grade) IsValid() bool {
	return g >= GradeFail && g <= GradePass
}

func (g Grade) String() string {
	if g.IsValid() {
		return gradeNames[g]
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}

// MarshalText implements encoding.TextMarshaler.
func (g Grade) MarshalText() ([]byte, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGrade, int(g))
	}
	return []byte(gradeNames[g]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Grade) UnmarshalText(text []byte) error {
	v, err := ParseGrade(string(text))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// MarshalJSON serializes the grade as a JSON string.
func (g Grade) MarshalJSON() ([]byte, error) {
	text, err := g.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON expects a JSON string.
func (g *Grade) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidGrade, data)
	}
	return g.UnmarshalText([]byte(s))
}

// Value stores the grade by name.
func (g Grade) Value() (driver.Value, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGrade, int(g))
	}
	return gradeNames[g], nil
}

// Scan reads a grade stored by name.
func (g *Grade) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return g.UnmarshalText([]byte(v))
	case []byte:
		return g.UnmarshalText(v)
	default:
		return fmt.Errorf("%w: unsupported column type %T", ErrInvalidGrade, src)
	}
}
