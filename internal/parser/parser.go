package parser

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a template file: YAML frontmatter followed by a markdown body.
type Document struct {
	Frontmatter map[string]any
	ID          string
	Category    string
	Tags        []string
	Body        string
	SourceFile  string

	node yaml.Node
}

var (
	ErrNoFrontmatter   = errors.New("no frontmatter found")
	ErrInvalidYAML     = errors.New("invalid YAML in frontmatter")
	ErrMissingID       = errors.New("frontmatter missing required 'id' field")
	ErrMissingCategory = errors.New("frontmatter missing required 'category' field")
)

func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	doc.SourceFile = path
	return doc, nil
}

// Parse reads a template file. The frontmatter must open the file (after an
// optional BOM or blank lines) and carry an id and a category.
func Parse(content []byte) (*Document, error) {
	front, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	doc := &Document{Body: strings.TrimSpace(string(body))}
	if err := yaml.Unmarshal(front, &doc.node); err != nil {
		return nil, ErrInvalidYAML
	}
	if doc.node.Kind == 0 {
		return nil, ErrMissingID
	}
	if err := doc.node.Decode(&doc.Frontmatter); err != nil {
		return nil, ErrInvalidYAML
	}

	if doc.ID = requiredString(doc.Frontmatter, "id"); doc.ID == "" {
		return nil, ErrMissingID
	}
	if doc.Category = requiredString(doc.Frontmatter, "category"); doc.Category == "" {
		return nil, ErrMissingCategory
	}

	tags, err := parseTags(doc.Frontmatter["tags"])
	if err != nil {
		return nil, err
	}
	doc.Tags = tags
	return doc, nil
}

const fence = "---"

// splitFrontmatter separates the YAML between the two fences from the body.
// A closing fence at end of file without a trailing newline is accepted.
func splitFrontmatter(content []byte) (front, body []byte, err error) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	content = bytes.TrimLeft(content, "\ufeff\n\r\t ")

	rest, ok := bytes.CutPrefix(content, []byte(fence+"\n"))
	if !ok {
		return nil, nil, ErrNoFrontmatter
	}
	if front, body, ok = bytes.Cut(rest, []byte(fence+"\n")); ok {
		return front, body, nil
	}
	if front, ok = bytes.CutSuffix(rest, []byte(fence)); ok {
		return front, nil, nil
	}
	return nil, nil, ErrNoFrontmatter
}

func requiredString(fields map[string]any, key string) string {
	value, _ := fields[key].(string)
	return strings.TrimSpace(value)
}

// Decode unmarshals the frontmatter into v.
func (d *Document) Decode(v any) error {
	if d.node.Kind == 0 {
		return ErrNoFrontmatter
	}
	return d.node.Decode(v)
}

func parseTags(value any) ([]string, error) {
	if value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		return []string{v}, nil
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("tags must be strings")
			}
			if strings.TrimSpace(s) == "" {
				continue
			}
			tags = append(tags, s)
		}
		if len(tags) == 0 {
			return nil, nil
		}
		return tags, nil
	default:
		return nil, fmt.Errorf("tags must be string or list of strings")
	}
}
