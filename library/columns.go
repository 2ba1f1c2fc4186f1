package library

// Column describes one column of the library listing.
type Column struct {
	Name    string `json:"name"`
	Header  string `json:"header"`
	Width   int    `json:"width"`
	Visible bool   `json:"visible"`
	// Locked columns are always part of the listing and cannot be
	// unchecked in configuration dialogs (the device-status column).
	Locked bool `json:"locked,omitempty"`
}

// ColumnState is a visible column with its display width, in listing order.
type ColumnState struct {
	Name  string `json:"name"`
	Width int    `json:"width"`
}

const (
	guiNamespace   = "gui"
	columnStateKey = "column_state"
)

var defaultColumns = []Column{
	{Name: "title", Header: "Title", Width: 250, Visible: true},
	{Name: "authors", Header: "Author(s)", Width: 200, Visible: true},
	{Name: "series", Header: "Series", Width: 150, Visible: true},
	{Name: "rating", Header: "Rating", Width: 80, Visible: true},
	{Name: "tags", Header: "Tags", Width: 180, Visible: true},
	{Name: "publisher", Header: "Publisher", Width: 150, Visible: false},
	{Name: "pubdate", Header: "Published", Width: 110, Visible: false},
	{Name: "timestamp", Header: "Date Added", Width: 110, Visible: false},
	{Name: "status", Header: "On Device", Width: 60, Visible: true, Locked: true},
}

// DefaultColumns returns the built-in column set in its default state.
func (l *Library) DefaultColumns() []Column {
	cols := make([]Column, len(defaultColumns))
	copy(cols, defaultColumns)
	return cols
}

// Columns returns the current ordered column state, falling back to the
// defaults when none has been persisted yet.
func (l *Library) Columns() ([]Column, error) {
	var cols []Column
	found, err := l.GetNamespaced(guiNamespace, columnStateKey, &cols)
	if err != nil {
		return nil, err
	}
	if !found || len(cols) == 0 {
		return l.DefaultColumns(), nil
	}
	return cols, nil
}

// VisibleColumns returns the visible columns in listing order.
func (l *Library) VisibleColumns() ([]Column, error) {
	cols, err := l.Columns()
	if err != nil {
		return nil, err
	}
	visible := make([]Column, 0, len(cols))
	for _, c := range cols {
		if c.Visible {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// Headers maps column names to their display headers.
func (l *Library) Headers() map[string]string {
	headers := make(map[string]string, len(defaultColumns))
	for _, c := range defaultColumns {
		headers[c.Name] = c.Header
	}
	return headers
}

// ApplyColumnState reorders the listing so that the given columns appear
// visible, in order, with the given widths. Names absent from the column
// set are skipped and their widths discarded. Columns not named become
// hidden, except locked columns which stay visible at the end.
func (l *Library) ApplyColumnState(visible []ColumnState) error {
	known := make(map[string]Column, len(defaultColumns))
	for _, c := range defaultColumns {
		known[c.Name] = c
	}

	ordered := make([]Column, 0, len(defaultColumns))
	used := make(map[string]bool, len(visible))
	for _, state := range visible {
		col, ok := known[state.Name]
		if !ok || used[state.Name] {
			continue
		}
		col.Visible = true
		if state.Width > 0 {
			col.Width = state.Width
		}
		ordered = append(ordered, col)
		used[state.Name] = true
	}

	// Remaining columns keep their default relative order.
	for _, c := range defaultColumns {
		if used[c.Name] {
			continue
		}
		c.Visible = c.Locked
		ordered = append(ordered, c)
	}

	return l.SetNamespaced(guiNamespace, columnStateKey, ordered)
}
