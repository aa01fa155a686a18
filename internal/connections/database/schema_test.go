package database

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	createTableRe = regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS (\w+) \((.*?)\n\);`)
	insertRe      = regexp.MustCompile(`(?s)INSERT INTO (\w+)\s*\(([^)]+)\)`)
)

func migrationColumns(t *testing.T) map[string]map[string]bool {
	t.Helper()
	files, err := filepath.Glob("../../../migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	tables := map[string]map[string]bool{}
	for _, f := range files {
		ddl, err := os.ReadFile(f)
		require.NoError(t, err)
		for _, m := range createTableRe.FindAllStringSubmatch(string(ddl), -1) {
			cols := map[string]bool{}
			for _, line := range strings.Split(m[2], "\n") {
				fields := strings.Fields(line)
				if len(fields) == 0 {
					continue
				}
				switch strings.ToUpper(fields[0]) {
				case "PRIMARY", "UNIQUE", "CHECK", "FOREIGN", "CONSTRAINT":
					continue
				}
				cols[fields[0]] = true
			}
			tables[m[1]] = cols
		}
	}
	return tables
}

// Every INSERT in the repositories must name only columns the migrations
// create; drift here only surfaces at runtime as SQLSTATE 42703.
func TestRepositoryInsertsMatchSchema(t *testing.T) {
	tables := migrationColumns(t)

	repos, err := filepath.Glob("../../../internal/*/repository.go")
	require.NoError(t, err)
	require.NotEmpty(t, repos)

	checked := 0
	for _, f := range repos {
		src, err := os.ReadFile(f)
		require.NoError(t, err)
		pkg := filepath.Base(filepath.Dir(f))
		for _, m := range insertRe.FindAllStringSubmatch(string(src), -1) {
			table, colList := m[1], m[2]
			cols, ok := tables[table]
			require.True(t, ok, "%s: INSERT INTO %s: no such table in migrations", pkg, table)
			for _, col := range strings.Split(colList, ",") {
				col = strings.TrimSpace(col)
				assert.True(t, cols[col],
					"%s: INSERT INTO %s names column %q missing from migrations", pkg, table, col)
			}
			checked++
		}
	}
	assert.NotZero(t, checked)
}
