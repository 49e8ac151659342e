package loam

// DiagramMetadata is the frontmatter of a diagram document. The markdown body
// below it is free-form description and is not compiled.
type DiagramMetadata struct {
	ID      string         `json:"id,omitempty" mapstructure:"id"`
	Name    string         `json:"name,omitempty" mapstructure:"name"`
	Process string         `json:"process" mapstructure:"process"`
	Boxes   map[string]any `json:"boxes" mapstructure:"boxes"`
}
