package app

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/moyu-x/duplicate-finder/internal"
	"github.com/moyu-x/duplicate-finder/pkg/deletion"
)

func samplePresentation() deletion.Presentation {
	return deletion.Presentation{
		Index: 0,
		Total: 2,
		Set: internal.DuplicateSet{
			Size: 2048,
			Members: []internal.HashedRecord{
				{FileRecord: internal.FileRecord{Path: "/data/a.txt", Size: 2048, ModTime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}},
				{FileRecord: internal.FileRecord{Path: "/data/b.txt", Size: 2048}},
			},
		},
	}
}

func TestLinePrompter_Present(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader(""), &out)

	if err := p.Present(samplePresentation()); err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	text := out.String()
	for _, want := range []string{"1/2", "[1]", "/data/a.txt", "[2]", "/data/b.txt", "2.0 KB", "未知"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output, got %q", want, text)
		}
	}
}

func TestLinePrompter_ReadDecision(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("2\n"), &out)

	line, err := p.ReadDecision(samplePresentation())
	if err != nil {
		t.Fatalf("ReadDecision() error = %v", err)
	}
	if line != "2" {
		t.Errorf("Expected \"2\", got %q", line)
	}
	if !strings.Contains(out.String(), "Keep file [1-2] or [s]kip this set or [q]uit") {
		t.Errorf("Unexpected prompt: %q", out.String())
	}

	if _, err := p.ReadDecision(samplePresentation()); !errors.Is(err, io.EOF) {
		t.Errorf("Expected io.EOF at end of input, got %v", err)
	}
}

func TestLinePrompter_Confirm(t *testing.T) {
	pres := samplePresentation()
	plan := deletion.Plan{
		Keep:   pres.Set.Members[0],
		Delete: pres.Set.Members[1:],
	}

	cases := map[string]bool{
		"y\n":   true,
		"YES\n": true,
		"\n":    false,
		"n\n":   false,
		"ok\n":  false,
	}
	for input, want := range cases {
		var out bytes.Buffer
		p := NewLinePrompter(strings.NewReader(input), &out)

		got, err := p.Confirm(plan)
		if err != nil {
			t.Fatalf("Confirm(%q) error = %v", input, err)
		}
		if got != want {
			t.Errorf("Confirm(%q) = %v, want %v", input, got, want)
		}
		if !strings.Contains(out.String(), "Confirm deletion? [y/N]") {
			t.Errorf("Unexpected prompt: %q", out.String())
		}
	}

	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader(""), &out)
	if _, err := p.Confirm(plan); !errors.Is(err, io.EOF) {
		t.Errorf("Expected io.EOF for empty input, got %v", err)
	}

	for _, input := range []string{"q\n", "quit\n"} {
		p := NewLinePrompter(strings.NewReader(input), &out)
		yes, err := p.Confirm(plan)
		if yes || !errors.Is(err, deletion.ErrQuit) {
			t.Errorf("Confirm(%q) = %v, %v; want false, ErrQuit", input, yes, err)
		}
	}
}

func TestLinePrompter_Done(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader(""), &out)

	p.Done([]internal.Outcome{
		{Path: "/data/a.txt", Status: internal.OutcomeKept},
		{Path: "/data/b.txt", Status: internal.OutcomeDeleted},
		{Path: "/data/c.txt", Status: internal.OutcomeFailed, Reason: "permission denied"},
	})

	text := out.String()
	if !strings.Contains(text, "/data/b.txt") || !strings.Contains(text, "permission denied") {
		t.Errorf("Expected deleted and failed entries, got %q", text)
	}
	if strings.Contains(text, "/data/a.txt") {
		t.Errorf("Kept file should not be listed, got %q", text)
	}
}
