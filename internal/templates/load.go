package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"headliner/internal/parser"
)

//go:embed builtin/*.md
var builtinFS embed.FS

type LoadResult struct {
	Templates    []Template
	FilesSkipped int
	Errors       []error
}

// Builtin returns the template set shipped with the engine.
func Builtin() ([]Template, error) {
	result := loadFS(builtinFS, "builtin")
	if len(result.Errors) > 0 {
		return nil, errors.Join(result.Errors...)
	}
	return result.Templates, nil
}

// BuiltinDocuments returns the parsed builtin files, for validation.
func BuiltinDocuments() ([]*parser.Document, error) {
	names, err := fs.Glob(builtinFS, "builtin/*.md")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	docs := make([]*parser.Document, 0, len(names))
	for _, name := range names {
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		doc, err := parser.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		doc.SourceFile = name
		docs = append(docs, doc)
	}
	return docs, nil
}

func loadFS(fsys fs.FS, dir string) *LoadResult {
	result := &LoadResult{}
	names, err := fs.Glob(fsys, path.Join(dir, "*.md"))
	if err != nil {
		result.Errors = append(result.Errors, err)
		return result
	}
	sort.Strings(names)
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("reading %s: %w", name, err))
			continue
		}
		doc, err := parser.Parse(data)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("parsing %s: %w", name, err))
			continue
		}
		doc.SourceFile = name
		tmpl, err := FromDocument(doc)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("loading %s: %w", name, err))
			continue
		}
		result.Templates = append(result.Templates, tmpl)
	}
	return result
}

// LoadDirs walks roots for markdown template files. Files without
// frontmatter are skipped; broken templates are reported and skipped.
func LoadDirs(roots, excludes []string) (*LoadResult, error) {
	files, err := walkMarkdownFiles(roots, excludes)
	if err != nil {
		return nil, fmt.Errorf("walking template files: %w", err)
	}

	result := &LoadResult{}
	for _, file := range files {
		doc, err := parser.ParseFile(file)
		if err != nil {
			if errors.Is(err, parser.ErrNoFrontmatter) {
				result.FilesSkipped++
				continue
			}
			result.Errors = append(result.Errors, fmt.Errorf("parsing %s: %w", file, err))
			continue
		}
		tmpl, err := FromDocument(doc)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("loading %s: %w", file, err))
			continue
		}
		result.Templates = append(result.Templates, tmpl)
	}
	return result, nil
}

// ParseDirs returns the raw documents under roots, for validation.
func ParseDirs(roots, excludes []string) ([]*parser.Document, []error, error) {
	files, err := walkMarkdownFiles(roots, excludes)
	if err != nil {
		return nil, nil, fmt.Errorf("walking template files: %w", err)
	}
	var docs []*parser.Document
	var errs []error
	for _, file := range files {
		doc, err := parser.ParseFile(file)
		if err != nil {
			if errors.Is(err, parser.ErrNoFrontmatter) {
				continue
			}
			errs = append(errs, fmt.Errorf("parsing %s: %w", file, err))
			continue
		}
		docs = append(docs, doc)
	}
	return docs, errs, nil
}

// Sources combines the builtin set with templates found under roots. User
// templates come last so they replace builtin ones sharing an id. Broken user
// files are logged and skipped; a broken builtin set fails the load.
func Sources(builtin bool, roots, excludes []string, logger *slog.Logger) LoadFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func() ([]Template, error) {
		var all []Template
		if builtin {
			set, err := Builtin()
			if err != nil {
				return nil, fmt.Errorf("loading builtin templates: %w", err)
			}
			all = append(all, set...)
		}
		if len(roots) == 0 {
			return all, nil
		}
		result, err := LoadDirs(roots, excludes)
		if err != nil {
			return nil, err
		}
		for _, loadErr := range result.Errors {
			logger.Warn("skipping template", "error", loadErr)
		}
		if result.FilesSkipped > 0 {
			logger.Debug("skipped markdown files without frontmatter", "count", result.FilesSkipped)
		}
		return append(all, result.Templates...), nil
	}
}

func walkMarkdownFiles(roots []string, excludes []string) ([]string, error) {
	excluded := make([]string, 0, len(excludes))
	for _, p := range excludes {
		if p == "" {
			continue
		}
		excluded = append(excluded, filepath.Clean(p))
	}

	var files []string
	for _, root := range roots {
		if root == "" {
			continue
		}
		root = filepath.Clean(root)
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && isExcluded(p, excluded) {
				return filepath.SkipDir
			}
			if d.IsDir() {
				return nil
			}
			if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
				return nil
			}
			if isExcluded(p, excluded) {
				return nil
			}
			files = append(files, p)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

func isExcluded(p string, excludes []string) bool {
	clean := filepath.Clean(p)
	for _, exclude := range excludes {
		if exclude == clean || strings.HasPrefix(clean, exclude+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}
