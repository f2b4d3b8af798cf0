package resolve

import "strings"

type segment struct {
	literal     string
	placeholder string
}

// Pattern is a text pattern split once into literal and {placeholder}
// segments.
type Pattern struct {
	source   string
	segments []segment
}

func Tokenize(text string) Pattern {
	pattern := Pattern{source: text}
	rest := text
	for rest != "" {
		open := strings.IndexByte(rest, '{')
		if open == -1 {
			pattern.segments = append(pattern.segments, segment{literal: rest})
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end == -1 {
			pattern.segments = append(pattern.segments, segment{literal: rest})
			break
		}
		if open > 0 {
			pattern.segments = append(pattern.segments, segment{literal: rest[:open]})
		}
		name := strings.TrimSpace(rest[open+1 : open+end])
		pattern.segments = append(pattern.segments, segment{placeholder: name})
		rest = rest[open+end+1:]
	}
	return pattern
}

func (p Pattern) String() string {
	return p.source
}

func (p Pattern) IsZero() bool {
	return len(p.segments) == 0
}

// Placeholders lists placeholder names in order of first appearance.
func (p Pattern) Placeholders() []string {
	var names []string
	seen := make(map[string]struct{})
	for _, seg := range p.segments {
		if seg.placeholder == "" {
			continue
		}
		if _, ok := seen[seg.placeholder]; ok {
			continue
		}
		seen[seg.placeholder] = struct{}{}
		names = append(names, seg.placeholder)
	}
	return names
}

// Render substitutes values in one pass. Placeholders without a value are
// dropped, whitespace runs collapse to one space and the result is trimmed.
func (p Pattern) Render(values map[string]string) string {
	var b strings.Builder
	for _, seg := range p.segments {
		if seg.placeholder == "" {
			b.WriteString(seg.literal)
			continue
		}
		b.WriteString(values[seg.placeholder])
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
