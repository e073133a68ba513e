package session

import (
	"reflect"
	"sync"
	"testing"

	"github.com/smartddock/ddock/extract"
)

func TestNamespace(t *testing.T) {
	t.Parallel()

	s := New()
	if s.Namespace() != "" {
		t.Fatalf("default namespace = %q", s.Namespace())
	}
	s.SetNamespace("  common ")
	if s.Namespace() != "common" {
		t.Fatalf("Namespace() = %q, want common", s.Namespace())
	}
	// Retained until changed.
	if s.Namespace() != "common" {
		t.Fatalf("namespace not retained")
	}
	s.SetNamespace("")
	if s.Namespace() != "" {
		t.Fatalf("namespace not cleared")
	}
}

func TestExclusions(t *testing.T) {
	t.Parallel()

	a := extract.Range{Start: 3, End: 8, Text: "'안녕'"}
	b := extract.Range{Start: 10, End: 14, Text: "반가워"}
	// Same text at another position is a different identity.
	c := extract.Range{Start: 20, End: 25, Text: "'안녕'"}

	s := New()
	s.Exclude(RangeID(a))
	if got := s.Filter([]extract.Range{a, b, c}); !reflect.DeepEqual(got, []extract.Range{b, c}) {
		t.Fatalf("Filter() = %+v", got)
	}
	if got := s.Excluded(); !reflect.DeepEqual(got, []string{"'안녕':3:8"}) {
		t.Fatalf("Excluded() = %v", got)
	}

	s.Include(RangeID(a))
	if got := s.Filter([]extract.Range{a, b}); len(got) != 2 {
		t.Fatal("Include did not remove exclusion")
	}

	s.Exclude(ExclusionID("반가워", 10, 14))
	if got := s.Filter([]extract.Range{b}); len(got) != 0 {
		t.Fatal("ExclusionID did not match RangeID")
	}
	s.ClearExclusions()
	if len(s.Excluded()) != 0 {
		t.Fatal("ClearExclusions left entries")
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := extract.Range{Start: i, End: i + 1, Text: "가"}
			s.Exclude(RangeID(r))
			s.SetNamespace("ns")
			_ = s.Filter([]extract.Range{r})
		}(i)
	}
	wg.Wait()
	if n := len(s.Excluded()); n != 8 {
		t.Fatalf("Excluded() len = %d, want 8", n)
	}
}
