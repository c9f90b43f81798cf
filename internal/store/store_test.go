package store

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestMemoryDefaultsToZero(t *testing.T) {
	m := NewMemory()
	if got := m.Get(KeyBestScore); got != 0 {
		t.Fatalf("Get(absent) = %d, want 0", got)
	}
	m.SetRaw(KeyBestScore, "not-a-number")
	if got := m.Get(KeyBestScore); got != 0 {
		t.Fatalf("Get(invalid) = %d, want 0", got)
	}
	if err := m.Set(KeyBestScore, 12); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := m.Get(KeyBestScore); got != 12 {
		t.Fatalf("Get = %d, want 12", got)
	}
}

func TestFileRoundTripAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores", "alice.env")

	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile(missing): %v", err)
	}
	if got := f.Get(KeyLifetimeCurrency); got != 0 {
		t.Fatalf("fresh store currency = %d, want 0", got)
	}
	if err := f.Set(KeyLifetimeCurrency, 1234); err != nil {
		t.Fatalf("Set currency: %v", err)
	}
	if err := f.Set(KeyBestScore, 56); err != nil {
		t.Fatalf("Set best: %v", err)
	}

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := reopened.Get(KeyLifetimeCurrency); got != 1234 {
		t.Fatalf("reopened currency = %d, want 1234", got)
	}
	if got := reopened.Get(KeyBestScore); got != 56 {
		t.Fatalf("reopened best = %d, want 56", got)
	}
}

func TestFileInvalidValueReadsAsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.env")
	content := KeyBestScore + "=banana\n" + KeyLifetimeCurrency + "=9\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if got := f.Get(KeyBestScore); got != 0 {
		t.Fatalf("best = %d, want 0", got)
	}
	if got := f.Get(KeyLifetimeCurrency); got != 9 {
		t.Fatalf("currency = %d, want 9", got)
	}
}

func TestManagerSharesStorePerPlayer(t *testing.T) {
	m := NewManager(t.TempDir())

	a, err := m.Open("bob")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b, err := m.Open("bob")
	if err != nil {
		t.Fatalf("Open again: %v", err)
	}
	if a != b {
		t.Fatalf("expected the same store for the same player")
	}
	c, err := m.Open("carol")
	if err != nil {
		t.Fatalf("Open carol: %v", err)
	}
	if a == c {
		t.Fatalf("expected distinct stores for distinct players")
	}
}

func TestCountersNeverGoDown(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemory(),
	}
	f, err := OpenFile(filepath.Join(t.TempDir(), "p.env"))
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	stores["file"] = f

	for name, st := range stores {
		if got, err := st.Add(KeyLifetimeCurrency, 3); err != nil || got != 3 {
			t.Fatalf("%s: Add = %d, %v, want 3", name, got, err)
		}
		if got, _ := st.Add(KeyLifetimeCurrency, 2); got != 5 {
			t.Fatalf("%s: Add = %d, want 5", name, got)
		}
		if got, _ := st.Max(KeyBestScore, 7); got != 7 {
			t.Fatalf("%s: Max = %d, want 7", name, got)
		}
		if got, _ := st.Max(KeyBestScore, 4); got != 7 {
			t.Fatalf("%s: Max(4) = %d, want 7", name, got)
		}
		if got := st.Get(KeyBestScore); got != 7 {
			t.Fatalf("%s: best = %d, want 7", name, got)
		}
	}
}

func TestSharedFileConcurrentAdds(t *testing.T) {
	m := NewManager(t.TempDir())
	f, err := m.Open("dave")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if _, err := f.Add(KeyLifetimeCurrency, 1); err != nil {
					t.Errorf("Add: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	reopened, err := OpenFile(m.FilePath("dave"))
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if got := reopened.Get(KeyLifetimeCurrency); got != 80 {
		t.Fatalf("lifetime on disk = %d, want 80", got)
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"alice", "alice"},
		{"../../etc/passwd", "etcpasswd"},
		{"", "guest"},
		{"!!!", "guest"},
		{"snake_case-name", "snake_case-name"},
		{"abcdefghijklmnopqrstuvwxyz0123456789", "abcdefghijklmnopqrstuvwxyz012345"},
	}
	for _, tc := range tests {
		if got := SanitizeName(tc.in); got != tc.want {
			t.Fatalf("SanitizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
