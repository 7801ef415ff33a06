package parser

import "fmt"

// Registry maps file formats to their extraction pipelines.
type Registry struct {
	pipelines map[string]Pipeline
}

// NewRegistry builds a registry with the built-in pipelines registered.
func NewRegistry() *Registry {
	r := &Registry{pipelines: make(map[string]Pipeline)}

	for _, p := range []Pipeline{&PDFPipeline{}, &DOCXPipeline{}, &LaTeXPipeline{}, &TextPipeline{}} {
		for _, f := range p.SupportedFormats() {
			r.pipelines[f] = p
		}
	}
	return r
}

// Get returns the pipeline for a format.
func (r *Registry) Get(format string) (Pipeline, error) {
	p, ok := r.pipelines[format]
	if !ok {
		return nil, fmt.Errorf("no pipeline for format: %s", format)
	}
	return p, nil
}

// Register adds or replaces the pipeline for a format.
func (r *Registry) Register(format string, p Pipeline) {
	r.pipelines[format] = p
}
