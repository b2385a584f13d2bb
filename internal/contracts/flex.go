package contracts

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// OptFloat is an optional numeric value. Market data arrives with fields that
// may be absent, null, empty strings, or numbers serialized as strings; a
// missing or unparsable value is simply not valid and contributes nothing to
// scoring. Scorers never see raw interface{} values.
type OptFloat struct {
	Value float64
	Valid bool
}

// Float returns a valid OptFloat
func Float(v float64) OptFloat {
	return OptFloat{Value: v, Valid: true}
}

// None returns an invalid (absent) OptFloat
func None() OptFloat {
	return OptFloat{}
}

// ParseOptFloat parses a scraped figure into an OptFloat. Thousands
// separators are tolerated; anything unparsable is simply absent.
func ParseOptFloat(s string) OptFloat {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return None()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return None()
	}
	return Float(v)
}

// Or returns the value if valid, otherwise the fallback
func (o OptFloat) Or(fallback float64) float64 {
	if o.Valid {
		return o.Value
	}
	return fallback
}

// UnmarshalJSON accepts a number, a numeric string, an empty string, or null.
// Anything unparsable becomes an absent value, never an error.
func (o *OptFloat) UnmarshalJSON(data []byte) error {
	o.Value = 0
	o.Valid = false

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	// Quoted value: strip quotes and try to parse
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		// Tolerate separators in scraped figures like "1,23,456.78"
		s = strings.ReplaceAll(s, ",", "")
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		o.Value = v
		o.Valid = true
		return nil
	}

	var v float64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil
	}
	o.Value = v
	o.Valid = true
	return nil
}

// MarshalJSON writes the value, or null when absent
func (o OptFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// FlexField is a string-or-number union for profile fields that arrive in
// either form ("moderate" vs 7, "5 years" vs 5). Kind is resolved exactly
// once during JSON decoding; the Normalizer decides what the value means.
type FlexField struct {
	Text   string
	Number float64
	IsText bool
	Set    bool
}

// FlexText returns a FlexField holding a string
func FlexText(s string) FlexField {
	return FlexField{Text: s, IsText: true, Set: true}
}

// FlexNumber returns a FlexField holding a number
func FlexNumber(v float64) FlexField {
	return FlexField{Number: v, Set: true}
}

// UnmarshalJSON accepts a JSON string or number; null leaves the field unset.
func (f *FlexField) UnmarshalJSON(data []byte) error {
	*f = FlexField{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		f.Text = s
		f.IsText = true
		f.Set = true
		return nil
	}

	var v float64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil
	}
	f.Number = v
	f.Set = true
	return nil
}

// MarshalJSON writes the field back in its original form
func (f FlexField) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	if f.IsText {
		return json.Marshal(f.Text)
	}
	return json.Marshal(f.Number)
}
