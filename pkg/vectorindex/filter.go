package vectorindex

import "fmt"

type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterEquals
	FilterAnd
)

// Filter is a tagged metadata predicate applied on top of vector similarity.
// The zero value matches everything.
type Filter struct {
	Kind     FilterKind
	Field    string
	Value    string
	Children []Filter
}

func NoFilter() Filter {
	return Filter{Kind: FilterNone}
}

func Equals(field, value string) Filter {
	return Filter{Kind: FilterEquals, Field: field, Value: value}
}

func And(children ...Filter) Filter {
	return Filter{Kind: FilterAnd, Children: children}
}

// filterableFields are the metadata columns a predicate may reference.
var filterableFields = map[string]bool{
	"emotion":       true,
	"relationship":  true,
	"empathy_label": true,
}

// Validate rejects predicates referencing unknown fields before they reach SQL.
func (f Filter) Validate() error {
	switch f.Kind {
	case FilterNone:
		return nil
	case FilterEquals:
		if !filterableFields[f.Field] {
			return fmt.Errorf("%w: field %q", ErrInvalidFilter, f.Field)
		}
		return nil
	case FilterAnd:
		for _, child := range f.Children {
			if err := child.Validate(); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown filter kind %d", ErrInvalidFilter, f.Kind)
	}
}

func (f Filter) IsEmpty() bool {
	if f.Kind == FilterNone {
		return true
	}
	if f.Kind == FilterAnd && len(f.Children) == 0 {
		return true
	}
	return false
}

// String renders the predicate for trace logs.
func (f Filter) String() string {
	switch f.Kind {
	case FilterNone:
		return "none"
	case FilterEquals:
		return fmt.Sprintf("%s=%s", f.Field, f.Value)
	case FilterAnd:
		out := "and("
		for i, child := range f.Children {
			if i > 0 {
				out += ", "
			}
			out += child.String()
		}
		return out + ")"
	default:
		return "invalid"
	}
}
