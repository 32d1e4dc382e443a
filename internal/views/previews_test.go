package views

import (
	"os"
	"testing"
)

func TestPreviewSet(t *testing.T) {
	t.Run("Acquire Release Pairing", func(t *testing.T) {
		set := NewPreviewSet()

		path, err := set.Acquire("a.png", []byte("data"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if set.Path("a.png") != path || set.Live() != 1 {
			t.Errorf("unexpected state: path=%q live=%d", set.Path("a.png"), set.Live())
		}

		if err := set.Release("a.png"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if set.Live() != 0 {
			t.Errorf("expected no live previews, got %d", set.Live())
		}
	})

	t.Run("Double Acquire Is An Error", func(t *testing.T) {
		set := NewPreviewSet()
		defer set.ReleaseAll()

		if _, err := set.Acquire("a.png", []byte("data")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := set.Acquire("a.png", []byte("data")); err == nil {
			t.Error("expected error for second acquire of the same name")
		}
	})

	t.Run("Double Release Is An Error", func(t *testing.T) {
		set := NewPreviewSet()

		if _, err := set.Acquire("a.png", []byte("data")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := set.Release("a.png"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := set.Release("a.png"); err == nil {
			t.Error("expected error for second release")
		}
	})

	t.Run("Release Of Unknown Name Is An Error", func(t *testing.T) {
		set := NewPreviewSet()
		if err := set.Release("never-acquired.png"); err == nil {
			t.Error("expected error for unknown name")
		}
	})

	t.Run("ReleaseAll Sweeps Everything", func(t *testing.T) {
		set := NewPreviewSet()

		paths := make([]string, 0, 3)
		for _, name := range []string{"a.png", "b.png", "c.png"} {
			path, err := set.Acquire(name, []byte("data"))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			paths = append(paths, path)
		}

		set.ReleaseAll()

		if set.Live() != 0 {
			t.Errorf("expected no live previews, got %d", set.Live())
		}
		for _, path := range paths {
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Errorf("expected %s removed", path)
			}
		}
	})

	t.Run("Name Reusable After Release", func(t *testing.T) {
		set := NewPreviewSet()
		defer set.ReleaseAll()

		if _, err := set.Acquire("a.png", []byte("v1")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := set.Release("a.png"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := set.Acquire("a.png", []byte("v2")); err != nil {
			t.Errorf("expected name reusable after release, got %v", err)
		}
	})
}
