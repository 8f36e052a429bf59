package collection

import (
	"github.com/tejusbharadwaj/tseries/internal/models"
	"github.com/tejusbharadwaj/tseries/internal/reducer"
)

// Select keeps only the listed field paths in every event.
func (c *Collection) Select(fieldPaths []string) *Collection {
	out := make([]*models.Event, len(c.events))
	for i, e := range c.events {
		out[i] = e.Select(fieldPaths)
	}
	return &Collection{events: out}
}

// CollapseOptions configures Collapse.
type CollapseOptions struct {
	// FieldSpecList are the fields reduced together.
	FieldSpecList []string
	// FieldName receives the reduced value.
	FieldName string
	Reducer   reducer.Func
	// Append keeps the existing fields next to FieldName.
	Append bool
}

// Collapse reduces several fields of each event to a single field.
func (c *Collection) Collapse(opts CollapseOptions) (*Collection, error) {
	if len(opts.FieldSpecList) == 0 {
		return nil, models.NewConfigError("fieldSpecList", "at least one field is required")
	}
	if opts.FieldName == "" {
		return nil, models.NewConfigError("fieldName", "an output field name is required")
	}
	if opts.Reducer == nil {
		return nil, models.NewConfigError("reducer", "a reducer function must be supplied")
	}

	out := make([]*models.Event, len(c.events))
	for i, e := range c.events {
		out[i] = e.Collapse(opts.FieldSpecList, opts.FieldName, opts.Reducer, opts.Append)
	}
	return &Collection{events: out}, nil
}

// RenameColumns renames top-level fields; fields not in renames keep their
// names.
func (c *Collection) RenameColumns(renames map[string]string) *Collection {
	out := make([]*models.Event, len(c.events))
	for i, e := range c.events {
		out[i] = e.Rename(renames)
	}
	return &Collection{events: out}
}
