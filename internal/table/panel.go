// Package table holds the data-table primitives shared by the admin lists:
// filter panel configuration, sort state and in-memory row sorting and
// filtering.
package table

import (
	"encoding/json"
	"errors"
	"fmt"
)

// PanelKind discriminates the FilterPanel variants on the wire.
type PanelKind string

const (
	// PanelFields is a panel made of typed filter fields.
	PanelFields PanelKind = "fields"
	// PanelSearch is a single search box with a status selector.
	PanelSearch PanelKind = "search"
)

// ErrUnknownPanelKind is returned when decoding a panel whose kind is missing or unsupported.
var ErrUnknownPanelKind = errors.New("table: unknown filter panel kind")

// FilterPanel is the configuration of a list's filter bar. It is implemented
// by FieldPanel and SearchPanel only.
type FilterPanel interface {
	Kind() PanelKind
	filterPanel()
}

// FieldType is the input control of a filter field.
type FieldType string

const (
	FieldText      FieldType = "text"
	FieldSelect    FieldType = "select"
	FieldDateRange FieldType = "date_range"
)

// Option is a selectable value.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Field is one input of a FieldPanel.
type Field struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []Option  `json:"options,omitempty"`
}

// FieldPanel renders one control per field.
type FieldPanel struct {
	Fields []Field
}

// Kind implements FilterPanel.
func (FieldPanel) Kind() PanelKind { return PanelFields }

func (FieldPanel) filterPanel() {}

// Field returns the field called name.
func (p FieldPanel) Field(name string) (Field, bool) {
	for _, field := range p.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// SearchPanel renders a search box and a status selector.
type SearchPanel struct {
	Placeholder string
	Statuses    []Option
}

// Kind implements FilterPanel.
func (SearchPanel) Kind() PanelKind { return PanelSearch }

func (SearchPanel) filterPanel() {}

type fieldPanelJSON struct {
	Kind   PanelKind `json:"kind"`
	Fields []Field   `json:"fields"`
}

type searchPanelJSON struct {
	Kind        PanelKind `json:"kind"`
	Placeholder string    `json:"placeholder"`
	Statuses    []Option  `json:"statuses"`
}

// MarshalJSON encodes the panel with its kind.
func (p FieldPanel) MarshalJSON() ([]byte, error) {
	fields := p.Fields
	if fields == nil {
		fields = []Field{}
	}
	return json.Marshal(fieldPanelJSON{Kind: PanelFields, Fields: fields})
}

// MarshalJSON encodes the panel with its kind.
func (p SearchPanel) MarshalJSON() ([]byte, error) {
	statuses := p.Statuses
	if statuses == nil {
		statuses = []Option{}
	}
	return json.Marshal(searchPanelJSON{Kind: PanelSearch, Placeholder: p.Placeholder, Statuses: statuses})
}

// MarshalPanel encodes any FilterPanel variant.
func MarshalPanel(panel FilterPanel) ([]byte, error) {
	if panel == nil {
		return nil, errors.New("table: nil filter panel")
	}
	return json.Marshal(panel)
}

// DecodePanel decodes a panel by its kind discriminator.
func DecodePanel(data []byte) (FilterPanel, error) {
	var head struct {
		Kind PanelKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("table: decode filter panel: %w", err)
	}

	switch head.Kind {
	case PanelFields:
		var raw fieldPanelJSON
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("table: decode field panel: %w", err)
		}
		return FieldPanel{Fields: raw.Fields}, nil
	case PanelSearch:
		var raw searchPanelJSON
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("table: decode search panel: %w", err)
		}
		return SearchPanel{Placeholder: raw.Placeholder, Statuses: raw.Statuses}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownPanelKind, head.Kind)
	}
}

// Panel wraps a FilterPanel so it can be embedded in JSON payloads and decoded back.
type Panel struct {
	FilterPanel
}

// MarshalJSON implements json.Marshaler.
func (p Panel) MarshalJSON() ([]byte, error) {
	if p.FilterPanel == nil {
		return []byte("null"), nil
	}
	return MarshalPanel(p.FilterPanel)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Panel) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		p.FilterPanel = nil
		return nil
	}
	panel, err := DecodePanel(data)
	if err != nil {
		return err
	}
	p.FilterPanel = panel
	return nil
}
