package provider

import (
	"github.com/guttosm/valuepulse/internal/domain/models"
)

// Payload is one of the shapes a provider returns for a section query:
// Table, Keyed or Record.
type Payload interface {
	payload()
}

// Table is a tabular payload indexed by symbol.
type Table struct {
	Rows map[string]map[string]any
}

// Keyed maps a symbol to either a field mapping or a provider message.
type Keyed map[string]any

// Record is a single labelled row.
type Record struct {
	Label  string
	Fields map[string]any
}

func (Table) payload()  {}
func (Keyed) payload()  {}
func (Record) payload() {}

// FromAny classifies an untyped value as a Payload. Unknown shapes yield nil.
func FromAny(v any) Payload {
	switch p := v.(type) {
	case Payload:
		return p
	case map[string]any:
		return Keyed(p)
	case map[string]map[string]any:
		k := make(Keyed, len(p))
		for sym, fields := range p {
			k[sym] = fields
		}
		return k
	case map[string]models.Section:
		k := make(Keyed, len(p))
		for sym, fields := range p {
			k[sym] = fields
		}
		return k
	default:
		return nil
	}
}

// Normalize reduces a payload to the flat section for ticker.
//
// A Table yields the row indexed by ticker, a Record yields its fields when
// labelled ticker, a Keyed yields the mapping stored under ticker. Anything
// else, including provider messages stored in place of a mapping, yields an
// empty section.
func Normalize(p Payload, ticker string) models.Section {
	switch v := p.(type) {
	case Table:
		if row, ok := v.Rows[ticker]; ok {
			return models.Section(row).Clone()
		}
	case *Table:
		if v != nil {
			return Normalize(*v, ticker)
		}
	case Record:
		if v.Label == ticker {
			return models.Section(v.Fields).Clone()
		}
	case *Record:
		if v != nil {
			return Normalize(*v, ticker)
		}
	case Keyed:
		return asSection(v[ticker])
	}
	return models.Section{}
}

func asSection(v any) models.Section {
	switch m := v.(type) {
	case models.Section:
		return m.Clone()
	case map[string]any:
		return models.Section(m).Clone()
	default:
		return models.Section{}
	}
}

// SymbolError returns the failure a batched provider recorded for ticker in
// place of its data, if any.
func SymbolError(p Payload, ticker string) error {
	if k, ok := p.(Keyed); ok {
		if err, ok := k[ticker].(error); ok {
			return err
		}
	}
	return nil
}
