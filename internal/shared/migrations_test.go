package shared

import (
	"context"
	"testing"
	"testing/fstest"
)

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}
		if migrations[0].Name != "create_library" {
			t.Errorf("expected first migration create_library, got %s", migrations[0].Name)
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}
	})

	t.Run("parseMigrations", func(t *testing.T) {
		t.Run("Sorts And Pairs Scripts", func(t *testing.T) {
			fsys := fstest.MapFS{
				"sql/0002_b_up.sql":   {Data: []byte("CREATE TABLE b (id INTEGER);")},
				"sql/0002_b_down.sql": {Data: []byte("DROP TABLE b;")},
				"sql/0001_a_up.sql":   {Data: []byte("CREATE TABLE a (id INTEGER);")},
				"sql/0001_a_down.sql": {Data: []byte("DROP TABLE a;")},
				"sql/README.md":       {Data: []byte("ignored")},
				"sql/notes.sql":       {Data: []byte("ignored")},
			}

			migrations, err := parseMigrations(fsys, "sql")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(migrations) != 2 {
				t.Fatalf("expected 2 migrations, got %d", len(migrations))
			}
			if migrations[0].Version != 1 || migrations[1].Name != "b" {
				t.Errorf("unexpected order %+v", migrations)
			}
		})

		t.Run("Incomplete Migration", func(t *testing.T) {
			fsys := fstest.MapFS{
				"sql/0001_a_up.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
			}
			if _, err := parseMigrations(fsys, "sql"); err == nil {
				t.Error("expected error for migration without down script")
			}
		})
	})

	t.Run("splitStatements", func(t *testing.T) {
		stmts := splitStatements("-- header\nCREATE TABLE a (id INTEGER); -- trailing\n\nDROP TABLE a;\n")
		if len(stmts) != 2 {
			t.Fatalf("expected 2 statements, got %d: %q", len(stmts), stmts)
		}
		if stmts[0] != "CREATE TABLE a (id INTEGER)" {
			t.Errorf("unexpected first statement %q", stmts[0])
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()
		ConfigureDatabase(db, 1, 1)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		for _, table := range []string{"artists", "albums"} {
			if _, err := db.Exec("SELECT 1 FROM " + table + " LIMIT 1"); err != nil {
				t.Errorf("%s table should exist after migrations: %v", table, err)
			}
		}

		version, err := SchemaVersion(context.Background(), db)
		if err != nil {
			t.Fatalf("failed to read version: %v", err)
		}
		if version != 0 {
			t.Errorf("expected version 0, got %d", version)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		if _, err := db.Exec("SELECT 1 FROM artists LIMIT 1"); err == nil {
			t.Error("artists table should be gone after rollback")
		}

		if err := RollbackMigration(db); err == nil {
			t.Error("expected error when nothing is left to roll back")
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db, err := OpenDatabase(DatabaseConfig{Path: ":memory:"})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations second time: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}

		migrations, _ := loadMigrations()
		if count != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), count)
		}
	})

	t.Run("OpenDatabase Requires Path", func(t *testing.T) {
		if _, err := OpenDatabase(DatabaseConfig{}); err == nil {
			t.Error("expected error for empty path")
		}
	})
}
