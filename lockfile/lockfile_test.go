package lockfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHashDeterministic(t *testing.T) {
	h1 := Hash("안녕하세요")
	h2 := Hash("안녕하세요")
	if h1 != h2 {
		t.Errorf("Hash not deterministic: %s != %s", h1, h2)
	}
	h3 := Hash("반갑습니다")
	if h1 == h3 {
		t.Errorf("Hash collision: %s == %s", h1, h3)
	}
}

func TestLoadNonExistent(t *testing.T) {
	lf, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load returned error for non-existent file: %v", err)
	}
	if lf.Version != Version {
		t.Errorf("Version = %d, want %d", lf.Version, Version)
	}
	if len(lf.Sources) != 0 {
		t.Errorf("Sources not empty: %v", lf.Sources)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, LockFileName), []byte("version: [\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("Load of malformed lock file should fail")
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	lf, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	lf.Record("locales.ko.json", "안녕", "'안녕'")
	lf.Record("locales.ko.json", "반가워", "반가워")
	lf.Record("locales.en.json", "안녕", "'안녕'")

	if err := lf.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	path := filepath.Join(dir, LockFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Lock file not created at %s", path)
	}

	lf2, err := Load(dir)
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}

	targets, keys := lf2.Stats()
	if targets != 2 {
		t.Errorf("targets = %d, want 2", targets)
	}
	if keys != 3 {
		t.Errorf("keys = %d, want 3", keys)
	}
	if got := lf2.Check("locales.ko.json", "안녕", "'안녕'"); got != Same {
		t.Errorf("Check after reload = %v, want same", got)
	}
}

func TestRecordKeepsFirstMapping(t *testing.T) {
	lf := New(t.TempDir())

	if got := lf.Record("en.json", "a#dot#b", "a.b"); got != Unknown {
		t.Fatalf("first Record = %v, want unknown", got)
	}
	if got := lf.Record("en.json", "a#dot#b", "a.b"); got != Same {
		t.Fatalf("repeat Record = %v, want same", got)
	}
	if got := lf.Record("en.json", "a#dot#b", "a#dot#b"); got != Collision {
		t.Fatalf("colliding Record = %v, want collision", got)
	}
	// The original mapping survives the collision.
	if got := lf.Check("en.json", "a#dot#b", "a.b"); got != Same {
		t.Fatalf("Check original = %v, want same", got)
	}
	if got := lf.Check("ja.json", "a#dot#b", "a.b"); got != Unknown {
		t.Fatalf("Check other store = %v, want unknown", got)
	}
}

func TestClean(t *testing.T) {
	lf := New(t.TempDir())

	lf.Record("ko.json", "하나", "하나")
	lf.Record("ko.json", "둘", "둘")
	lf.Record("ko.json", "삭제", "삭제")

	lf.Clean("ko.json", []string{"하나", "둘"})

	if lf.Check("ko.json", "하나", "하나") != Same {
		t.Error("하나 should still be tracked")
	}
	if lf.Check("ko.json", "삭제", "삭제") != Unknown {
		t.Error("삭제 should be removed by Clean")
	}
}

func TestRemoveTargetAndTargets(t *testing.T) {
	lf := New(t.TempDir())

	lf.Record("locales.ja.json", "가", "가")
	lf.Record("locales.en.json", "가", "가")
	lf.Record("locales.ko.json", "가", "가")

	expected := []string{"locales.en.json", "locales.ja.json", "locales.ko.json"}
	targets := lf.Targets()
	if len(targets) != len(expected) {
		t.Fatalf("targets len = %d, want %d", len(targets), len(expected))
	}
	for i, want := range expected {
		if targets[i] != want {
			t.Errorf("targets[%d] = %q, want %q", i, targets[i], want)
		}
	}

	lf.RemoveTarget("locales.ja.json")
	if n, _ := lf.Stats(); n != 2 {
		t.Errorf("targets after RemoveTarget = %d, want 2", n)
	}
}

func TestTargetKey(t *testing.T) {
	if got := TargetKey(filepath.Join("locales", ".", "locales.en.json")); got != "locales/locales.en.json" {
		t.Errorf("TargetKey = %q", got)
	}
}

func TestSummary(t *testing.T) {
	lf := New(t.TempDir())

	if lf.Summary() != "empty" {
		t.Errorf("empty summary = %q, want %q", lf.Summary(), "empty")
	}

	lf.Record("ko.json", "가", "가")
	lf.Record("en.json", "가", "가")
	if s := lf.Summary(); s != "2 stores, 2 keys (en.json: 1 keys, ko.json: 1 keys)" {
		t.Errorf("Summary() = %q", s)
	}
}

func TestConcurrentAccess(t *testing.T) {
	lf := New(t.TempDir())

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func(n int) {
			target := "ko.json"
			key := "key" + string(rune('0'+n))
			lf.Record(target, key, "value")
			lf.Check(target, key, "value")
			lf.Stats()
			done <- true
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	_, keys := lf.Stats()
	if keys != 10 {
		t.Errorf("keys after concurrent writes = %d, want 10", keys)
	}
}
