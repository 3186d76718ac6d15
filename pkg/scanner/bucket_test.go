package scanner

import (
	"testing"
	"time"

	"github.com/moyu-x/duplicate-finder/internal"
)

type sliceSource struct {
	entries []Entry
}

func (s *sliceSource) Next() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	e := s.entries[0]
	s.entries = s.entries[1:]
	return e, true
}

func record(path string, size int64) Entry {
	return Entry{Record: internal.FileRecord{Path: path, Size: size, ModTime: time.Unix(0, 0)}}
}

func TestBucketBySize(t *testing.T) {
	src := &sliceSource{entries: []Entry{
		record("/a", 100),
		record("/b", 200),
		record("/c", 100),
		{Skip: &internal.Failure{Path: "/locked", Stage: internal.StageScan, Reason: "denied"}},
		record("/d", 300),
		record("/e", 200),
		record("/f", 100),
	}}

	buckets, skipped := BucketBySize(src)

	if len(skipped) != 1 || skipped[0].Path != "/locked" {
		t.Errorf("Expected skip entry to be passed through, got %v", skipped)
	}

	sizes := buckets.Sizes()
	if len(sizes) != 2 || sizes[0] != 100 || sizes[1] != 200 {
		t.Fatalf("Expected sizes [100 200] in first-seen order, got %v", sizes)
	}

	members := buckets.Members(100)
	if len(members) != 3 || members[0].Path != "/a" || members[1].Path != "/c" || members[2].Path != "/f" {
		t.Errorf("Expected members in insertion order, got %v", members)
	}

	if buckets.Singletons() != 1 {
		t.Errorf("Expected 1 singleton, got %d", buckets.Singletons())
	}
	if buckets.Candidates() != 5 {
		t.Errorf("Expected 5 candidates, got %d", buckets.Candidates())
	}
	if buckets.Files() != 6 {
		t.Errorf("Expected 6 files, got %d", buckets.Files())
	}
	if len(buckets.Members(300)) != 0 {
		t.Error("Singleton bucket should be discarded")
	}

	records := buckets.Records()
	if len(records) != 5 || records[3].Path != "/b" {
		t.Errorf("Expected records flattened in bucket order, got %v", records)
	}
}

func TestBucketBySize_AllUnique(t *testing.T) {
	src := &sliceSource{entries: []Entry{
		record("/a", 1),
		record("/b", 2),
		record("/c", 3),
	}}

	buckets, _ := BucketBySize(src)

	if buckets.Len() != 0 {
		t.Errorf("Expected no candidate buckets, got %d", buckets.Len())
	}
	if buckets.Singletons() != 3 {
		t.Errorf("Expected 3 singletons, got %d", buckets.Singletons())
	}
}

func TestBucketBySize_Deterministic(t *testing.T) {
	build := func() []Entry {
		return []Entry{record("/x", 5), record("/y", 5), record("/z", 7), record("/w", 7)}
	}

	first, _ := BucketBySize(&sliceSource{entries: build()})
	second, _ := BucketBySize(&sliceSource{entries: build()})

	a, b := first.Records(), second.Records()
	if len(a) != len(b) {
		t.Fatalf("Expected same number of records, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Path != b[i].Path {
			t.Errorf("Record %d differs: %s vs %s", i, a[i].Path, b[i].Path)
		}
	}
}
