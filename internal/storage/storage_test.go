package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "file"))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "sqlite"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]Store{
		"file":   fileStore,
		"sqlite": sqliteStore,
		"memory": NewMemoryStore(),
	}
}

func TestStore_Contract(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Get("formData"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
			}

			if err := store.Set("formData", `{"lastName":"山田"}`); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			got, err := store.Get("formData")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got != `{"lastName":"山田"}` {
				t.Errorf("Get() = %q", got)
			}

			if err := store.Set("formData", "{}"); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}
			if got, _ := store.Get("formData"); got != "{}" {
				t.Errorf("Get() after overwrite = %q, want {}", got)
			}

			if err := store.Remove("formData"); err != nil {
				t.Fatalf("Remove failed: %v", err)
			}
			if err := store.Remove("formData"); err != nil {
				t.Errorf("Remove(absent) error = %v, want nil", err)
			}
			if _, err := store.Get("formData"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after Remove error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStore_RejectsBadKeys(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "..", "../escape", `a\b`} {
				if err := store.Set(key, "x"); err == nil {
					t.Errorf("Set(%q) succeeded, want error", key)
				}
			}
		})
	}
}

func TestStore_ConcurrentWrites(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_ = store.Set("currentStep", "3")
				}()
			}
			wg.Wait()

			if got, err := store.Get("currentStep"); err != nil || got != "3" {
				t.Errorf("Get() = %q, %v; want 3, nil", got, err)
			}
		})
	}
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Set("currentStep", "4"); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "currentStep.val" {
		t.Errorf("directory entries = %v, want only currentStep.val", entries)
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	dir := t.TempDir()

	s1, err := NewSQLiteStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s1.Set("completedBy", "employer"); err != nil {
		t.Fatal(err)
	}
	if err := s1.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := NewSQLiteStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	if got, err := s2.Get("completedBy"); err != nil || got != "employer" {
		t.Errorf("Get() after reopen = %q, %v; want employer", got, err)
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		driver  string
		wantErr bool
	}{
		{"file", false},
		{"sqlite", false},
		{"memory", false},
		{"postgres", true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			s, err := Open(tt.driver, t.TempDir())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open(%q) error = %v, wantErr %v", tt.driver, err, tt.wantErr)
			}
			if s != nil {
				if err := Close(s); err != nil {
					t.Errorf("Close() = %v", err)
				}
			}
		})
	}
}
