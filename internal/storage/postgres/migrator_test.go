package postgres

import (
	"testing"
	"testing/fstest"
)

func TestLoadMigrationsFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/migrations/002_add_index.up.sql":   {Data: []byte("CREATE INDEX idx ON t (a);")},
		"sql/migrations/002_add_index.down.sql": {Data: []byte("DROP INDEX idx;")},
		"sql/migrations/001_init.up.sql":        {Data: []byte("CREATE TABLE t (a INT);")},
		"sql/migrations/001_init.down.sql":      {Data: []byte("DROP TABLE t;")},
	}

	migrations, err := loadMigrationsFromFS(fsys)
	if err != nil {
		t.Fatalf("loadMigrationsFromFS: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[1].Version != 2 {
		t.Fatalf("migrations not sorted by version: %+v", migrations)
	}
	if migrations[0].Name != "init" || migrations[0].UpSQL == "" || migrations[0].DownSQL == "" {
		t.Fatalf("unexpected first migration: %+v", migrations[0])
	}
}

func TestLoadMigrationsFromFS_Errors(t *testing.T) {
	cases := []struct {
		name string
		fsys fstest.MapFS
	}{
		{
			name: "missing down",
			fsys: fstest.MapFS{
				"sql/migrations/001_init.up.sql": {Data: []byte("SELECT 1;")},
			},
		},
		{
			name: "empty body",
			fsys: fstest.MapFS{
				"sql/migrations/001_init.up.sql":   {Data: []byte("   ")},
				"sql/migrations/001_init.down.sql": {Data: []byte("SELECT 1;")},
			},
		},
		{
			name: "bad file name",
			fsys: fstest.MapFS{
				"sql/migrations/init.sql": {Data: []byte("SELECT 1;")},
			},
		},
		{
			name: "name mismatch",
			fsys: fstest.MapFS{
				"sql/migrations/001_init.up.sql":   {Data: []byte("SELECT 1;")},
				"sql/migrations/001_other.down.sql": {Data: []byte("SELECT 1;")},
			},
		},
		{
			name: "no files",
			fsys: fstest.MapFS{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := loadMigrationsFromFS(tc.fsys); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestEmbeddedMigrationsAreWellFormed(t *testing.T) {
	migrations, err := loadMigrationsFromFS(migrationsFS)
	if err != nil {
		t.Fatalf("embedded migrations: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("no embedded migrations")
	}
	for i, m := range migrations {
		if m.Version != int64(i+1) {
			t.Fatalf("version gap at index %d: %d", i, m.Version)
		}
	}
}
