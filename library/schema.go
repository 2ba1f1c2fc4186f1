package library

// metadata.db schema. The preferences table is the namespaced key-value
// store plugins persist their per-library records into.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS books (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	title        TEXT NOT NULL,
	authors      TEXT NOT NULL DEFAULT '',
	series       TEXT NOT NULL DEFAULT '',
	series_index REAL NOT NULL DEFAULT 1.0,
	rating       INTEGER NOT NULL DEFAULT 0,
	tags         TEXT NOT NULL DEFAULT '',
	publisher    TEXT NOT NULL DEFAULT '',
	pubdate      TEXT NOT NULL DEFAULT '',
	path         TEXT NOT NULL DEFAULT '',
	has_cover    INTEGER NOT NULL DEFAULT 0,
	timestamp    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
);

CREATE TABLE IF NOT EXISTS preferences (
	namespace TEXT NOT NULL,
	key       TEXT NOT NULL,
	value     TEXT NOT NULL,
	PRIMARY KEY (namespace, key)
);

CREATE INDEX IF NOT EXISTS idx_books_title ON books(title);
CREATE INDEX IF NOT EXISTS idx_books_authors ON books(authors);
`
