package domain

import "strings"

// FilterSpec narrows a record set. Empty fields do not constrain.
type FilterSpec struct {
	Category string `json:"category,omitempty"`
	Tag      string `json:"tag,omitempty"`
	Author   string `json:"author,omitempty"`
	Search   string `json:"search,omitempty"`
	Featured *bool  `json:"featured,omitempty"`
}

// IsEmpty reports whether f constrains nothing.
func (f FilterSpec) IsEmpty() bool {
	return strings.TrimSpace(f.Category) == "" &&
		strings.TrimSpace(f.Tag) == "" &&
		strings.TrimSpace(f.Author) == "" &&
		strings.TrimSpace(f.Search) == "" &&
		f.Featured == nil
}
