package library

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// GetNamespaced reads a JSON record from the preferences table into the
// given value. It reports whether a record existed for the key.
func (l *Library) GetNamespaced(namespace, key string, into interface{}) (bool, error) {
	var raw string
	err := l.db.QueryRow(
		"SELECT value FROM preferences WHERE namespace = ? AND key = ?",
		namespace, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("library: read preference %s/%s: %w", namespace, key, err)
	}

	if err := json.Unmarshal([]byte(raw), into); err != nil {
		return false, fmt.Errorf("library: decode preference %s/%s: %w", namespace, key, err)
	}
	return true, nil
}

// SetNamespaced writes a value to the preferences table as JSON,
// replacing any existing record for the key.
func (l *Library) SetNamespaced(namespace, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("library: encode preference %s/%s: %w", namespace, key, err)
	}

	_, err = l.db.Exec(
		`INSERT INTO preferences (namespace, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value`,
		namespace, key, string(raw),
	)
	if err != nil {
		return fmt.Errorf("library: write preference %s/%s: %w", namespace, key, err)
	}
	return nil
}

// RemoveNamespaced deletes a record from the preferences table. Deleting
// a missing record is not an error.
func (l *Library) RemoveNamespaced(namespace, key string) error {
	_, err := l.db.Exec(
		"DELETE FROM preferences WHERE namespace = ? AND key = ?",
		namespace, key,
	)
	if err != nil {
		return fmt.Errorf("library: remove preference %s/%s: %w", namespace, key, err)
	}
	return nil
}

// NamespaceDump returns the raw JSON stored under a namespace, keyed by
// preference key. Used by the preferences viewer dialog.
func (l *Library) NamespaceDump(namespace string) (map[string]string, error) {
	rows, err := l.db.Query(
		"SELECT key, value FROM preferences WHERE namespace = ? ORDER BY key",
		namespace,
	)
	if err != nil {
		return nil, fmt.Errorf("library: dump namespace %s: %w", namespace, err)
	}
	defer rows.Close()

	dump := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("library: dump namespace %s: %w", namespace, err)
		}
		dump[key] = value
	}
	return dump, rows.Err()
}
