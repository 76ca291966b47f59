package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/fieldcopy/internal/validation"
	"github.com/arthur-debert/fieldcopy/types"
)

// ErrInvalidDocument is returned when a catalog file does not match the
// catalog document schema
var ErrInvalidDocument = errors.New("invalid catalog document")

// FilePattern selects catalog files when loading a directory
const FilePattern = "**/*.{yaml,yml,json}"

//go:embed schema.json
var schemaJSON []byte

var documentSchema = mustCompileSchema(schemaJSON)

func mustCompileSchema(raw []byte) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid embedded schema: %v", err))
	}
	return schema
}

// Loaded is a catalog read from disk together with the non-fatal findings
// of its validation
type Loaded struct {
	*Memory
	Files    []string
	Warnings []string
}

// document is the on-disk shape of one catalog file
type document struct {
	Groups []groupDoc `yaml:"groups"`
}

type groupDoc struct {
	Key      string     `yaml:"key"`
	Title    string     `yaml:"title"`
	Location any        `yaml:"location"`
	Fields   []fieldDoc `yaml:"fields"`
}

type fieldDoc struct {
	Key       string      `yaml:"key"`
	Name      string      `yaml:"name"`
	Label     string      `yaml:"label"`
	Type      string      `yaml:"type"`
	SubFields []fieldDoc  `yaml:"sub_fields"`
	Layouts   []layoutDoc `yaml:"layouts"`
	Clone     refList     `yaml:"clone"`
}

type layoutDoc struct {
	Key       string     `yaml:"key"`
	Name      string     `yaml:"name"`
	Label     string     `yaml:"label"`
	SubFields []fieldDoc `yaml:"sub_fields"`
}

// refList accepts a single reference or a list of references
type refList []string

func (r *refList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var single string
		if err := node.Decode(&single); err != nil {
			return err
		}
		*r = refList{single}
		return nil
	default:
		var many []string
		if err := node.Decode(&many); err != nil {
			return err
		}
		*r = many
		return nil
	}
}

// Load reads a catalog from a single file or from every catalog file below a
// directory. Files are merged in lexical path order.
func Load(ctx context.Context, path string) (*Loaded, error) {
	files, err := discover(path)
	if err != nil {
		return nil, err
	}

	parsed := make([][]types.FieldGroup, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			groups, err := parseFile(file)
			if err != nil {
				return err
			}
			parsed[i] = groups
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var groups []types.FieldGroup
	for _, fileGroups := range parsed {
		groups = append(groups, fileGroups...)
	}

	mem := New(groups...)
	warnings, err := validation.ValidateCatalog(groups, mem.Resolve)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	return &Loaded{Memory: mem, Files: files, Warnings: warnings}, nil
}

// discover lists the catalog files named by path
func discover(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat catalog: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	matches, err := doublestar.Glob(os.DirFS(path), FilePattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan catalog directory: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no catalog files found in %s", path)
	}
	sort.Strings(matches)

	files := make([]string, len(matches))
	for i, m := range matches {
		files[i] = filepath.Join(path, filepath.FromSlash(m))
	}
	return files, nil
}

// parseFile validates one catalog file against the document schema and decodes it
func parseFile(file string) ([]types.FieldGroup, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return Parse(file, data)
}

// Parse validates one catalog document and returns its groups. name is only
// used in error messages.
func Parse(name string, data []byte) ([]types.FieldGroup, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, name, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: %s: empty document", ErrInvalidDocument, name)
	}

	result, err := documentSchema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, name, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			field := verr.Field()
			if field == "" {
				field = "root"
			}
			msgs = append(msgs, fmt.Sprintf("%s: %s", field, verr.Description()))
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidDocument, name, strings.Join(msgs, "; "))
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, name, err)
	}

	groups := make([]types.FieldGroup, len(doc.Groups))
	for i, gd := range doc.Groups {
		groups[i] = gd.toGroup()
	}
	return groups, nil
}

func (gd groupDoc) toGroup() types.FieldGroup {
	return types.FieldGroup{
		Key:      gd.Key,
		Title:    gd.Title,
		Location: gd.Location,
		Fields:   toFields(gd.Fields),
	}
}

func toFields(docs []fieldDoc) []types.Field {
	if len(docs) == 0 {
		return nil
	}
	fields := make([]types.Field, len(docs))
	for i, fd := range docs {
		fields[i] = fd.toField()
	}
	return fields
}

func (fd fieldDoc) toField() types.Field {
	var layouts []types.Layout
	for _, ld := range fd.Layouts {
		layouts = append(layouts, types.Layout{
			Key:       ld.Key,
			Name:      ld.Name,
			Label:     ld.Label,
			SubFields: toFields(ld.SubFields),
		})
	}
	meta := types.FieldMeta{Key: fd.Key, Name: fd.Name, Label: fd.Label, Type: fd.Type}
	return types.NewField(meta, toFields(fd.SubFields), layouts, fd.Clone)
}
