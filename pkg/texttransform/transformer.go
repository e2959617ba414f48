package texttransform

// Transformer rewrites response text before composition.
type Transformer interface {
	Transform(text string) string
}

// Noop returns input unchanged. Used when register conversion is disabled.
type Noop struct{}

func (Noop) Transform(text string) string {
	return text
}
