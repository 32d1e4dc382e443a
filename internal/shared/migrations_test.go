package shared

import "testing"

func TestMigrations(t *testing.T) {
	t.Run("RunMigrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		for _, table := range []string{"ott_services", "board_categories", "profile_cache", "recent_movies"} {
			var name string
			err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
			if err != nil {
				t.Errorf("expected table %s to exist: %v", table, err)
			}
		}

		t.Run("is idempotent", func(t *testing.T) {
			if err := RunMigrations(db); err != nil {
				t.Errorf("re-running migrations should be a no-op, got %v", err)
			}
		})
	})

	t.Run("RollbackMigration", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback: %v", err)
		}

		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='ott_services'").Scan(&name)
		if err == nil {
			t.Error("expected ott_services to be dropped after rollback")
		}

		t.Run("errors with nothing applied", func(t *testing.T) {
			if err := RollbackMigration(db); err == nil {
				t.Error("expected error rolling back with no applied migrations")
			}
		})
	})
}
