package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Document is a named box DAG. Process is the id of the entry built as the root.
type Document struct {
	Name    string           `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Process string           `json:"process" yaml:"process" mapstructure:"process"`
	Boxes   map[string]Entry `json:"boxes" yaml:"boxes" mapstructure:"boxes"`
}

// Entry is one box of a document. Which fields apply depends on Op.
type Entry struct {
	Op     string   `json:"op" yaml:"op" mapstructure:"op"`
	Args   []string `json:"args,omitempty" yaml:"args,omitempty,flow" mapstructure:"args"`
	Value  *float64 `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`
	Label  string   `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
	Name   string   `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	File   string   `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
	Type   string   `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"`
	Values []string `json:"values,omitempty" yaml:"values,omitempty,flow" mapstructure:"values"`
	Chan   *int     `json:"chan,omitempty" yaml:"chan,omitempty" mapstructure:"chan"`
	N      *int     `json:"n,omitempty" yaml:"n,omitempty" mapstructure:"n"`
	M      *int     `json:"m,omitempty" yaml:"m,omitempty" mapstructure:"m"`
	Pairs  [][]int  `json:"pairs,omitempty" yaml:"pairs,omitempty,flow" mapstructure:"pairs"`
}

// refs lists the entry ids e depends on, in order.
func (e Entry) refs() []string {
	if len(e.Values) > 0 {
		return e.Values
	}
	return e.Args
}

var documentSchema = Schema{
	"name":    {Type: String(), Optional: true},
	"process": {Type: String()},
	"boxes": {Type: Custom("map", func(v any) error {
		if _, ok := v.(map[string]any); !ok {
			return fmt.Errorf("expected map of entries, got %T", v)
		}
		return nil
	})},
}

// Parse decodes a YAML or JSON document and validates it.
func Parse(data []byte) (*Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}
	return Decode(raw)
}

// Decode validates a generic map (e.g. markdown frontmatter) and decodes it into a Document.
func Decode(raw map[string]any) (*Document, error) {
	if err := Validate(documentSchema, "", raw); err != nil {
		return nil, err
	}

	var errs []error
	boxes := raw["boxes"].(map[string]any)
	for _, id := range sortedKeys(boxes) {
		path := "boxes." + id
		entry, ok := boxes[id].(map[string]any)
		if !ok {
			errs = append(errs, &ValidationError{Key: path, Reason: "expected map", Value: boxes[id]})
			continue
		}
		name, ok := entry["op"].(string)
		if !ok {
			errs = append(errs, &ValidationError{Key: path + ".op", Reason: "required string", Value: entry["op"]})
			continue
		}
		_, s, ok := parseOp(name)
		if !ok {
			errs = append(errs, &ValidationError{Key: path + ".op", Reason: fmt.Sprintf("unknown op %q", name)})
			continue
		}
		if err := Validate(s, path, entry); err != nil {
			errs = append(errs, ValidationErrors(err)...)
		}
	}
	if err := aggregate(errs); err != nil {
		return nil, err
	}

	var doc Document
	if err := mapstructure.Decode(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the references of d: the process entry and every argument must
// exist and the entries must not reference themselves through a cycle.
func (d *Document) Validate() error {
	var errs []error
	if _, ok := d.Boxes[d.Process]; !ok {
		errs = append(errs, &ValidationError{Key: "process", Reason: fmt.Sprintf("unknown entry %q", d.Process)})
	}
	for _, id := range sortedKeys(d.Boxes) {
		e := d.Boxes[id]
		if _, _, ok := parseOp(e.Op); !ok {
			errs = append(errs, &ValidationError{Key: "boxes." + id + ".op", Reason: fmt.Sprintf("unknown op %q", e.Op)})
		}
		for _, ref := range e.refs() {
			if _, ok := d.Boxes[ref]; !ok {
				errs = append(errs, &ValidationError{Key: "boxes." + id, Reason: fmt.Sprintf("unknown entry %q", ref)})
			}
		}
	}
	if len(errs) == 0 {
		errs = append(errs, d.cycles()...)
	}
	return aggregate(errs)
}

// cycles reports every reference cycle with a white/gray/black traversal.
func (d *Document) cycles() []error {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(d.Boxes))
	var stack []string
	var errs []error

	var visit func(id string)
	visit = func(id string) {
		color[id] = gray
		stack = append(stack, id)
		for _, ref := range d.Boxes[id].refs() {
			switch color[ref] {
			case white:
				visit(ref)
			case gray:
				start := 0
				for i, s := range stack {
					if s == ref {
						start = i
					}
				}
				loop := append(append([]string{}, stack[start:]...), ref)
				errs = append(errs, &ValidationError{
					Key:    "boxes." + ref,
					Reason: "reference cycle " + strings.Join(loop, " -> "),
				})
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}
	for _, id := range sortedKeys(d.Boxes) {
		if color[id] == white {
			visit(id)
		}
	}
	return errs
}

// Marshal encodes d as "yaml" or "json".
func Marshal(d *Document, format string) ([]byte, error) {
	switch format {
	case "yaml", "yml", "":
		return yaml.Marshal(d)
	case "json":
		return json.MarshalIndent(d, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported document format: %s", format)
	}
}
