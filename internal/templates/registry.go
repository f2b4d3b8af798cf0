package templates

import (
	"slices"
	"sort"
	"strings"
	"sync"
)

// LoadFunc produces the templates a Registry indexes. Later templates replace
// earlier ones with the same id.
type LoadFunc func() ([]Template, error)

// Registry is a category-indexed template set. It is built on first use and
// never mutated afterwards, so it can be shared across goroutines.
type Registry struct {
	load LoadFunc

	once       sync.Once
	err        error
	all        []*Template
	byID       map[string]*Template
	byCategory map[string][]*Template
}

func NewRegistry(load LoadFunc) *Registry {
	return &Registry{load: load}
}

// NewStaticRegistry indexes a fixed set of templates.
func NewStaticRegistry(templates ...Template) *Registry {
	set := append([]Template(nil), templates...)
	return NewRegistry(func() ([]Template, error) { return set, nil })
}

// Build indexes the templates. Calling it again returns the first result.
func (r *Registry) Build() error {
	r.once.Do(r.build)
	return r.err
}

func (r *Registry) build() {
	r.byID = make(map[string]*Template)
	r.byCategory = make(map[string][]*Template)
	if r.load == nil {
		return
	}

	loaded, err := r.load()
	if err != nil {
		r.err = err
		return
	}

	order := make([]string, 0, len(loaded))
	for i := range loaded {
		tmpl := loaded[i]
		if _, exists := r.byID[tmpl.ID]; !exists {
			order = append(order, tmpl.ID)
		}
		r.byID[tmpl.ID] = &tmpl
	}

	sort.Strings(order)
	for _, id := range order {
		tmpl := r.byID[id]
		r.all = append(r.all, tmpl)
		key := categoryKey(tmpl.Category)
		r.byCategory[key] = append(r.byCategory[key], tmpl)
	}
}

// Err reports a failure from the one-time build.
func (r *Registry) Err() error {
	return r.Build()
}

// TemplatesForCategory returns the templates of a category ordered by id.
// Unknown categories yield an empty slice.
func (r *Registry) TemplatesForCategory(category string) []*Template {
	_ = r.Build()
	return slices.Clone(r.byCategory[categoryKey(category)])
}

func (r *Registry) TemplateByID(id string) (*Template, bool) {
	_ = r.Build()
	tmpl, ok := r.byID[id]
	return tmpl, ok
}

func (r *Registry) All() []*Template {
	_ = r.Build()
	return slices.Clone(r.all)
}

func (r *Registry) Categories() []string {
	_ = r.Build()
	seen := make(map[string]struct{})
	var categories []string
	for _, tmpl := range r.all {
		key := categoryKey(tmpl.Category)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		categories = append(categories, tmpl.Category)
	}
	sort.Strings(categories)
	return categories
}

func categoryKey(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
