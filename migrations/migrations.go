// Package migrations embeds the SQL schema and applies it in order. The
// files follow the golang-migrate naming convention (NNNN_name.up.sql /
// NNNN_name.down.sql) so they can also be run by external tooling.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed *.sql
var files embed.FS

// Up applies every up migration in lexical order. Statements are idempotent
// (CREATE IF NOT EXISTS), so re-running on an existing schema is safe.
func Up(db *sql.DB) error {
	entries, err := files.ReadDir(".")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	var ups []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			ups = append(ups, entry.Name())
		}
	}
	sort.Strings(ups)

	for _, name := range ups {
		script, err := files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(script)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}
