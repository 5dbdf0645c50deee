package models

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/guregu/null/v6"
)

// MetricValue holds either a number or a flag. Both invalid means null.
type MetricValue struct {
	Number null.Float
	Flag   null.Bool
}

// NumberValue wraps a float metric.
func NumberValue(f float64) MetricValue {
	return MetricValue{Number: null.FloatFrom(f)}
}

// FlagValue wraps a boolean metric.
func FlagValue(b bool) MetricValue {
	return MetricValue{Flag: null.BoolFrom(b)}
}

// ValueOf converts a raw provider value. Non-numeric, non-boolean values are null.
func ValueOf(v any) MetricValue {
	if b, ok := v.(bool); ok {
		return FlagValue(b)
	}
	if b, ok := v.(null.Bool); ok {
		return MetricValue{Flag: b}
	}
	if f, ok := ToFloat(v); ok {
		return NumberValue(f)
	}
	return MetricValue{}
}

// IsNull reports whether the metric carries no value.
func (v MetricValue) IsNull() bool {
	return !v.Number.Valid && !v.Flag.Valid
}

// IsFlag reports whether the metric is boolean.
func (v MetricValue) IsFlag() bool {
	return v.Flag.Valid
}

func (v MetricValue) MarshalJSON() ([]byte, error) {
	switch {
	case v.Flag.Valid:
		return json.Marshal(v.Flag.Bool)
	case v.Number.Valid:
		return json.Marshal(v.Number.Float64)
	default:
		return []byte("null"), nil
	}
}

func (v *MetricValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = ValueOf(raw)
	return nil
}

// Metric is one labelled entry of a MetricSet.
type Metric struct {
	Label string
	Value MetricValue
}

// MetricSet is an ordered label to value mapping.
type MetricSet []Metric

// Get returns the value for label.
func (m MetricSet) Get(label string) (MetricValue, bool) {
	for _, e := range m {
		if e.Label == label {
			return e.Value, true
		}
	}
	return MetricValue{}, false
}

// Labels returns the labels in order.
func (m MetricSet) Labels() []string {
	out := make([]string, len(m))
	for i, e := range m {
		out[i] = e.Label
	}
	return out
}

// AllNull reports whether every value is null. An empty set is all null.
func (m MetricSet) AllNull() bool {
	for _, e := range m {
		if !e.Value.IsNull() {
			return false
		}
	}
	return true
}

// MarshalJSON renders the set as a JSON object preserving label order.
func (m MetricSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores a set in document order.
func (m *MetricSet) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("metrics: expected JSON object")
	}
	out := MetricSet{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, _ := tok.(string)
		var v MetricValue
		if err := dec.Decode(&v); err != nil {
			return err
		}
		out = append(out, Metric{Label: label, Value: v})
	}
	*m = out
	return nil
}

// DataReport lists soft data gaps found while checking a ticker.
type DataReport struct {
	MissingFields  []string `json:"missing_fields,omitempty"`
	MissingMetrics []string `json:"missing_metrics,omitempty"`
}

// Empty reports whether there is nothing to warn about.
func (r DataReport) Empty() bool {
	return len(r.MissingFields) == 0 && len(r.MissingMetrics) == 0
}
