package questionbank

import "github.com/ChesterZhangz/questionbank-sub004/question"

// ParseOption configures one parse call.
type ParseOption func(*parseOptions)

type parseOptions struct {
	format   string
	category string
	tags     []string
	source   string
}

// WithFormat overrides the format inferred from the file extension.
func WithFormat(format string) ParseOption {
	return func(o *parseOptions) { o.format = format }
}

// WithCategory stamps every extracted question with a category.
func WithCategory(category string) ParseOption {
	return func(o *parseOptions) { o.category = category }
}

// WithTags stamps every extracted question with the given tags.
func WithTags(tags ...string) ParseOption {
	return func(o *parseOptions) { o.tags = tags }
}

// WithSource stamps every extracted question with a source label.
func WithSource(source string) ParseOption {
	return func(o *parseOptions) { o.source = source }
}

func applyOptions(opts []ParseOption) parseOptions {
	var o parseOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// decorate applies call-level metadata to one extracted question.
func (o parseOptions) decorate(q *question.Question) {
	if o.category != "" {
		q.Category = o.category
	}
	if o.source != "" && q.Source == "" {
		q.Source = o.source
	}
	for _, t := range o.tags {
		q.AddTag(t)
	}
}
