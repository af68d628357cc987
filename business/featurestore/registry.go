package featurestore

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml
var defaultRegistry []byte

type Entity struct {
	Name        string            `yaml:"name"`
	JoinKey     string            `yaml:"join_key"`
	Description string            `yaml:"description"`
	Tags        map[string]string `yaml:"tags"`
}

// FileSource is a timestamped batch source read by materialization.
type FileSource struct {
	Name                   string `yaml:"name"`
	Path                   string `yaml:"path"`
	TimestampField         string `yaml:"timestamp_field"`
	CreatedTimestampColumn string `yaml:"created_timestamp_column"`
	Description            string `yaml:"description"`
}

type Field struct {
	Name  string `yaml:"name"`
	Dtype string `yaml:"dtype"`
}

type FeatureView struct {
	Name     string            `yaml:"name"`
	Entities []string          `yaml:"entities"`
	TTL      time.Duration     `yaml:"ttl"`
	Online   bool              `yaml:"online"`
	Source   string            `yaml:"source"`
	Schema   []Field           `yaml:"schema"`
	Tags     map[string]string `yaml:"tags"`
}

func (v FeatureView) FieldNames() []string {
	out := make([]string, 0, len(v.Schema))
	for _, f := range v.Schema {
		out = append(out, f.Name)
	}
	return out
}

func (v FeatureView) HasField(name string) bool {
	for _, f := range v.Schema {
		if f.Name == name {
			return true
		}
	}
	return false
}

type Registry struct {
	Project      string        `yaml:"project"`
	Entities     []Entity      `yaml:"entities"`
	Sources      []FileSource  `yaml:"sources"`
	FeatureViews []FeatureView `yaml:"feature_views"`
}

// LoadRegistry reads the registry at path, or the embedded definitions when path is empty.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return ParseRegistry(defaultRegistry)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feature registry: %w", err)
	}
	return ParseRegistry(raw)
}

func ParseRegistry(raw []byte) (*Registry, error) {
	var reg Registry
	if err := yaml.Unmarshal(raw, &reg); err != nil {
		return nil, fmt.Errorf("parse feature registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Validate checks references between entities, sources and views.
func (r *Registry) Validate() error {
	if r.Project == "" {
		return errors.New("feature registry: project is required")
	}

	entities := make(map[string]struct{}, len(r.Entities))
	for _, e := range r.Entities {
		if e.Name == "" || e.JoinKey == "" {
			return fmt.Errorf("feature registry: entity %q needs a name and join key", e.Name)
		}
		if _, dup := entities[e.Name]; dup {
			return fmt.Errorf("feature registry: duplicate entity %q", e.Name)
		}
		entities[e.Name] = struct{}{}
	}

	sources := make(map[string]struct{}, len(r.Sources))
	for _, s := range r.Sources {
		if s.TimestampField == "" {
			return fmt.Errorf("feature registry: source %q has no timestamp field", s.Name)
		}
		if s.Path == "" {
			return fmt.Errorf("feature registry: source %q has no path", s.Name)
		}
		sources[s.Name] = struct{}{}
	}

	views := make(map[string]struct{}, len(r.FeatureViews))
	for _, v := range r.FeatureViews {
		if _, dup := views[v.Name]; dup {
			return fmt.Errorf("feature registry: duplicate feature view %q", v.Name)
		}
		views[v.Name] = struct{}{}

		if v.TTL <= 0 {
			return fmt.Errorf("feature registry: view %q needs a positive ttl", v.Name)
		}
		if len(v.Entities) != 1 {
			return fmt.Errorf("feature registry: view %q must reference exactly one entity", v.Name)
		}
		if _, ok := entities[v.Entities[0]]; !ok {
			return fmt.Errorf("feature registry: view %q references unknown entity %q", v.Name, v.Entities[0])
		}
		if _, ok := sources[v.Source]; !ok {
			return fmt.Errorf("feature registry: view %q references unknown source %q", v.Name, v.Source)
		}

		fields := make(map[string]struct{}, len(v.Schema))
		for _, f := range v.Schema {
			if _, dup := fields[f.Name]; dup {
				return fmt.Errorf("feature registry: view %q has duplicate field %q", v.Name, f.Name)
			}
			fields[f.Name] = struct{}{}
		}
	}

	return nil
}

func (r *Registry) View(name string) (FeatureView, bool) {
	for _, v := range r.FeatureViews {
		if v.Name == name {
			return v, true
		}
	}
	return FeatureView{}, false
}

func (r *Registry) Entity(name string) (Entity, bool) {
	for _, e := range r.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return Entity{}, false
}

func (r *Registry) Source(name string) (FileSource, bool) {
	for _, s := range r.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return FileSource{}, false
}

// JoinKey returns the join key of the entity a view is keyed by.
func (r *Registry) JoinKey(view string) (string, error) {
	v, ok := r.View(view)
	if !ok {
		return "", fmt.Errorf("unknown feature view %q", view)
	}
	e, ok := r.Entity(v.Entities[0])
	if !ok {
		return "", fmt.Errorf("unknown entity %q", v.Entities[0])
	}
	return e.JoinKey, nil
}

// ListFeatureViews returns view names sorted alphabetically.
func (r *Registry) ListFeatureViews() []string {
	out := make([]string, 0, len(r.FeatureViews))
	for _, v := range r.FeatureViews {
		out = append(out, v.Name)
	}
	sort.Strings(out)
	return out
}

// FeatureRef is a "view:feature" reference.
type FeatureRef struct {
	View    string
	Feature string
}

func ParseRef(raw string) (FeatureRef, error) {
	view, feature, ok := strings.Cut(raw, ":")
	if !ok || view == "" || feature == "" {
		return FeatureRef{}, &RefError{Ref: raw, Msg: "expected view:feature"}
	}
	return FeatureRef{View: view, Feature: feature}, nil
}

func (f FeatureRef) String() string {
	return f.View + ":" + f.Feature
}

// Column is the name the value is returned under in an online response.
func (f FeatureRef) Column() string {
	return f.View + "__" + f.Feature
}

// CheckRefs verifies every reference points at a field of a registered view.
func (r *Registry) CheckRefs(refs []FeatureRef) error {
	for _, ref := range refs {
		v, ok := r.View(ref.View)
		if !ok {
			return &RefError{Ref: ref.String(), Msg: "unknown feature view"}
		}
		if !v.HasField(ref.Feature) {
			return &RefError{Ref: ref.String(), Msg: "feature not in view"}
		}
	}
	return nil
}
