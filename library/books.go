package library

import (
	"fmt"
	"strings"
)

// Book is one row of the library listing.
type Book struct {
	ID          int64
	Title       string
	Authors     string
	Series      string
	SeriesIndex float64
	Rating      int
	Tags        string
	Publisher   string
	PubDate     string
	Path        string
	HasCover    bool
	Timestamp   string
}

// SortSpec is one entry of a multi-column sort order.
type SortSpec struct {
	Name      string `json:"name"`
	Ascending bool   `json:"ascending"`
}

// Sortable SQL expressions per column name. The device-status column is
// display-only and intentionally absent.
var sortColumns = map[string]string{
	"title":     "title COLLATE NOCASE",
	"authors":   "authors COLLATE NOCASE",
	"series":    "series COLLATE NOCASE, series_index",
	"rating":    "rating",
	"tags":      "tags COLLATE NOCASE",
	"publisher": "publisher COLLATE NOCASE",
	"pubdate":   "pubdate",
	"timestamp": "timestamp",
}

// SetSort applies a multi-column sort order to the listing. Entries for
// unknown or unsortable columns are skipped.
func (l *Library) SetSort(specs []SortSpec) {
	valid := make([]SortSpec, 0, len(specs))
	for _, s := range specs {
		if _, ok := sortColumns[s.Name]; ok {
			valid = append(valid, s)
		}
	}

	l.mu.Lock()
	l.sortSpecs = valid
	l.mu.Unlock()
}

// Sortable reports whether the named column can take part in sorting.
func (l *Library) Sortable(name string) bool {
	_, ok := sortColumns[name]
	return ok
}

// Sort returns the currently applied sort order.
func (l *Library) Sort() []SortSpec {
	l.mu.RLock()
	defer l.mu.RUnlock()
	specs := make([]SortSpec, len(l.sortSpecs))
	copy(specs, l.sortSpecs)
	return specs
}

// AddBook inserts a book and returns its ID.
func (l *Library) AddBook(b Book) (int64, error) {
	res, err := l.db.Exec(
		`INSERT INTO books (title, authors, series, series_index, rating, tags, publisher, pubdate, path, has_cover)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Title, b.Authors, b.Series, b.SeriesIndex, b.Rating, b.Tags, b.Publisher, b.PubDate, b.Path, b.HasCover,
	)
	if err != nil {
		return 0, fmt.Errorf("library: add book: %w", err)
	}
	return res.LastInsertId()
}

// Books returns the listing rows with the active search, restriction and
// sort order applied. Matching is a plain substring match over the text
// columns; full query parsing belongs to a dedicated search engine.
func (l *Library) Books() ([]Book, error) {
	l.mu.RLock()
	search := l.activeSearch
	restriction := l.activeRestriction
	specs := l.sortSpecs
	l.mu.RUnlock()

	query := `SELECT id, title, authors, series, series_index, rating, tags, publisher, pubdate, path, has_cover, timestamp FROM books`
	var clauses []string
	var args []interface{}
	for _, expr := range []string{restriction, search} {
		if expr == "" {
			continue
		}
		clauses = append(clauses, "(title LIKE ? OR authors LIKE ? OR series LIKE ? OR tags LIKE ?)")
		pattern := "%" + expr + "%"
		args = append(args, pattern, pattern, pattern, pattern)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += orderByClause(specs)

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("library: list books: %w", err)
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var b Book
		err := rows.Scan(&b.ID, &b.Title, &b.Authors, &b.Series, &b.SeriesIndex,
			&b.Rating, &b.Tags, &b.Publisher, &b.PubDate, &b.Path, &b.HasCover, &b.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("library: scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func orderByClause(specs []SortSpec) string {
	if len(specs) == 0 {
		return " ORDER BY title COLLATE NOCASE"
	}
	parts := make([]string, 0, len(specs))
	for _, s := range specs {
		expr, ok := sortColumns[s.Name]
		if !ok {
			continue
		}
		if !s.Ascending {
			// Reverse every term of compound expressions too.
			terms := strings.Split(expr, ", ")
			for i, t := range terms {
				terms[i] = t + " DESC"
			}
			expr = strings.Join(terms, ", ")
		}
		parts = append(parts, expr)
	}
	if len(parts) == 0 {
		return " ORDER BY title COLLATE NOCASE"
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}
