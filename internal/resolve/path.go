package resolve

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"headliner/internal/news"
)

// Path grammar:
//
//	path     = entities | content | context
//	entities = "entities" "." bucket { filter } [ index ] [ "." property ]
//	filter   = "[" key "=" value "]"          key is "type" or "role"
//	index    = "[" digits "]"
//	content  = "content" "." field
//	context  = "context" "." field
var ErrMalformedPath = errors.New("malformed source path")

type Root string

const (
	RootEntities Root = "entities"
	RootContent  Root = "content"
	RootContext  Root = "context"
)

type Filter struct {
	Key   string
	Value string
}

type Path struct {
	Root     Root
	Bucket   news.Bucket
	Filters  []Filter
	Index    int
	Property string
	Field    string
	raw      string
}

func (p Path) String() string {
	return p.raw
}

// Compile parses a source path once so resolution never re-scans the text.
func Compile(raw string) (Path, error) {
	p := &pathParser{src: strings.TrimSpace(raw)}
	path, err := p.parse()
	if err != nil {
		return Path{}, fmt.Errorf("%w %q: %v", ErrMalformedPath, raw, err)
	}
	path.raw = p.src
	return path, nil
}

func MustCompile(raw string) Path {
	path, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return path
}

type pathParser struct {
	src string
	pos int
}

func (p *pathParser) parse() (Path, error) {
	if p.src == "" {
		return Path{}, errors.New("empty path")
	}
	root, err := p.ident()
	if err != nil {
		return Path{}, err
	}
	if err := p.expect('.'); err != nil {
		return Path{}, err
	}

	switch Root(strings.ToLower(root)) {
	case RootEntities:
		return p.parseEntities()
	case RootContent:
		field, err := p.field()
		if err != nil {
			return Path{}, err
		}
		return Path{Root: RootContent, Field: field}, nil
	case RootContext:
		field, err := p.field()
		if err != nil {
			return Path{}, err
		}
		return Path{Root: RootContext, Field: field}, nil
	default:
		return Path{}, fmt.Errorf("unknown root %q", root)
	}
}

func (p *pathParser) parseEntities() (Path, error) {
	name, err := p.ident()
	if err != nil {
		return Path{}, err
	}
	bucket := news.Bucket(strings.ToLower(name))
	if _, ok := (news.Entities{}).Bucket(bucket); !ok {
		return Path{}, fmt.Errorf("unknown entity bucket %q", name)
	}

	path := Path{Root: RootEntities, Bucket: bucket, Property: "name"}
	indexed := false
	for p.peek() == '[' {
		if indexed {
			return Path{}, errors.New("selector after index")
		}
		p.pos++
		body, err := p.until(']')
		if err != nil {
			return Path{}, err
		}
		body = strings.TrimSpace(body)
		if key, value, ok := strings.Cut(body, "="); ok {
			filter, err := newFilter(key, value)
			if err != nil {
				return Path{}, err
			}
			path.Filters = append(path.Filters, filter)
			continue
		}
		n, err := strconv.Atoi(body)
		if err != nil || n < 0 {
			return Path{}, fmt.Errorf("invalid index %q", body)
		}
		path.Index = n
		indexed = true
	}

	if p.done() {
		return path, nil
	}
	if err := p.expect('.'); err != nil {
		return Path{}, err
	}
	property, err := p.field()
	if err != nil {
		return Path{}, err
	}
	path.Property = property
	return path, nil
}

func newFilter(key, value string) (Filter, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.Trim(strings.TrimSpace(value), `"'`)
	if key != "type" && key != "role" {
		return Filter{}, fmt.Errorf("unsupported filter key %q", key)
	}
	if value == "" {
		return Filter{}, fmt.Errorf("filter %s has empty value", key)
	}
	return Filter{Key: key, Value: value}, nil
}

// field reads the final identifier; nothing may follow it.
func (p *pathParser) field() (string, error) {
	name, err := p.ident()
	if err != nil {
		return "", err
	}
	if !p.done() {
		return "", fmt.Errorf("unexpected %q at offset %d", p.src[p.pos:], p.pos)
	}
	return strings.ToLower(name), nil
}

func (p *pathParser) ident() (string, error) {
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		if p.done() {
			return "", errors.New("unexpected end of path")
		}
		return "", fmt.Errorf("expected identifier at offset %d", start)
	}
	return p.src[start:p.pos], nil
}

func (p *pathParser) until(c byte) (string, error) {
	end := strings.IndexByte(p.src[p.pos:], c)
	if end == -1 {
		return "", fmt.Errorf("unterminated selector at offset %d", p.pos)
	}
	body := p.src[p.pos : p.pos+end]
	p.pos += end + 1
	return body, nil
}

func (p *pathParser) expect(c byte) error {
	if p.peek() != c {
		return fmt.Errorf("expected %q at offset %d", c, p.pos)
	}
	p.pos++
	return nil
}

func (p *pathParser) peek() byte {
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *pathParser) done() bool {
	return p.pos >= len(p.src)
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '-' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
