package skills

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleSkill = `---
name: lights
triggers:
  - turn on the lights
  - lights off
allowed_endpoints:
  - /api/home/lights
priority: 10
---
Control the lights in the room the user names.
`

func TestParseSplitsFrontMatterAndBody(t *testing.T) {
	s, err := Parse([]byte(sampleSkill))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Name != "lights" {
		t.Fatalf("name = %q", s.Name)
	}
	if len(s.Triggers) != 2 || s.Triggers[1] != "lights off" {
		t.Fatalf("triggers = %v", s.Triggers)
	}
	if s.Priority != 10 {
		t.Fatalf("priority = %d", s.Priority)
	}
	if !strings.HasPrefix(s.Body, "Control the lights") {
		t.Fatalf("body = %q", s.Body)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"no front matter", "just a markdown file\n"},
		{"unterminated", "---\nname: x\n"},
		{"bad yaml", "---\nname: [\n---\nbody\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.src)); err == nil {
				t.Fatalf("expected error for %q", tc.src)
			}
		})
	}
}

func TestLint(t *testing.T) {
	s := &Skill{
		Name:             "weather",
		Triggers:         []string{"what's the weather"},
		AllowedEndpoints: []string{"/api/weather/current"},
		Body:             "Answer with current conditions.",
	}
	if problems := s.Lint(); len(problems) != 0 {
		t.Fatalf("valid skill flagged: %v", problems)
	}

	bad := &Skill{Priority: -1, AllowedEndpoints: []string{"http://evil.example"}}
	problems := bad.Lint()
	joined := strings.Join(problems, "; ")
	for _, want := range []string{"name is required", "trigger", "outside /api/", "priority", "empty skill body"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("lint missing %q in %v", want, problems)
		}
	}
}

func TestLoadDirSortsByPriorityThenName(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("b.md", "---\nname: beta\npriority: 1\n---\nbody\n")
	write("a.md", "---\nname: alpha\npriority: 1\n---\nbody\n")
	write("c.md", "---\nname: critical\npriority: 9\n---\nbody\n")
	write("broken.md", "no front matter here")
	write("README.txt", "ignored")

	loaded, errs := LoadDir(dir)
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want exactly the broken file", errs)
	}
	got := make([]string, len(loaded))
	for i, s := range loaded {
		got[i] = s.Name
	}
	want := []string{"critical", "alpha", "beta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestLoadDirMissingIsEmpty(t *testing.T) {
	loaded, errs := LoadDir(filepath.Join(t.TempDir(), "nope"))
	if len(loaded) != 0 || len(errs) != 0 {
		t.Fatalf("missing dir should be empty, got %v / %v", loaded, errs)
	}
}
