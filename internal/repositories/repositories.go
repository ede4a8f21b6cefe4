// package repositories provides persistence layer implementations for the local content store.
package repositories

import "database/sql"

// TotalPages returns the number of pages needed to list count rows at perPage
// rows per page. A collection with zero rows still reports one (empty) page so
// the transfer protocol terminates after a single fetch.
func TotalPages(count, perPage int) int {
	if perPage <= 0 {
		perPage = 10
	}
	if count <= 0 {
		return 1
	}
	pages := count / perPage
	if count%perPage != 0 {
		pages++
	}
	return pages
}

// upsertMeta writes a single metadata row, overwriting any existing value for
// the key. Re-linking a reference must replace the previous link, not stack a
// duplicate next to it.
func upsertMeta(db *sql.DB, table, idColumn string, id int64, key, value string) error {
	query := `
		INSERT INTO ` + table + ` (` + idColumn + `, meta_key, meta_value) VALUES (?, ?, ?)
		ON CONFLICT (` + idColumn + `, meta_key) DO UPDATE SET meta_value = excluded.meta_value
	`
	_, err := db.Exec(query, id, key, value)
	return err
}
