// Package skills parses the markdown skill descriptors Zoe's intent router
// consumes. Each skill is a .md file with a YAML front-matter block; the body
// below it is the prompt/instructions and passes through untouched. The
// router itself runs on the backend: this side only loads, validates, and
// lists.
package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Skill is one parsed descriptor.
type Skill struct {
	Name             string   `yaml:"name"`
	Triggers         []string `yaml:"triggers"`
	AllowedEndpoints []string `yaml:"allowed_endpoints"`
	Priority         int      `yaml:"priority"`

	// Body is the markdown below the front matter, verbatim.
	Body string `yaml:"-"`
	// Path is where the skill was loaded from, for lint messages.
	Path string `yaml:"-"`
}

const frontMatterDelim = "---"

// Parse splits front matter from body and decodes the YAML header.
func Parse(src []byte) (*Skill, error) {
	text := strings.ReplaceAll(string(src), "\r\n", "\n")
	if !strings.HasPrefix(text, frontMatterDelim+"\n") {
		return nil, fmt.Errorf("missing front matter block")
	}
	rest := text[len(frontMatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelim)
	if end < 0 {
		return nil, fmt.Errorf("unterminated front matter block")
	}
	header := rest[:end]
	body := rest[end+len(frontMatterDelim)+1:]
	body = strings.TrimPrefix(body, "\n")

	var s Skill
	if err := yaml.Unmarshal([]byte(header), &s); err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}
	s.Body = body
	return &s, nil
}

// Load reads and parses one skill file.
func Load(path string) (*Skill, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	s.Path = path
	return s, nil
}

// LoadDir loads every .md file in dir, sorted by skill name. Files that fail
// to parse are skipped and reported alongside the successes, so one broken
// descriptor never hides the rest.
func LoadDir(dir string) ([]*Skill, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []error{err}
	}
	var out []*Skill
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		s, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out, errs
}

// Lint validates a skill and returns human-readable problems. An empty slice
// means the descriptor is routable.
func (s *Skill) Lint() []string {
	var problems []string
	if strings.TrimSpace(s.Name) == "" {
		problems = append(problems, "name is required")
	}
	if len(s.Triggers) == 0 {
		problems = append(problems, "at least one trigger is required")
	}
	for _, t := range s.Triggers {
		if strings.TrimSpace(t) == "" {
			problems = append(problems, "empty trigger phrase")
			break
		}
	}
	if len(s.AllowedEndpoints) == 0 {
		problems = append(problems, "no allowed_endpoints: skill cannot call the backend")
	}
	for _, ep := range s.AllowedEndpoints {
		if !strings.HasPrefix(ep, "/api/") {
			problems = append(problems, fmt.Sprintf("endpoint %q is outside /api/", ep))
		}
	}
	if s.Priority < 0 {
		problems = append(problems, "priority must be >= 0")
	}
	if strings.TrimSpace(s.Body) == "" {
		problems = append(problems, "empty skill body")
	}
	return problems
}

// Dir is where skill descriptors live under the config dir.
func Dir(configDir string) string {
	return filepath.Join(configDir, "skills")
}
