package queryast

// Selection is a sealed interface over the node kinds that can appear in a
// selection set: Field and InlineFragment. The operation root is represented
// separately by Operation since it cannot itself be selected.
type Selection interface {
	selectionNode() // Marker method - seals interface to this package
}

// Operation is the root of a query: the anonymous top-level selection set.
type Operation struct {
	Selections []Selection
}

// Field is a selection of a named field: a property, an edge traversal, or a
// filter-only carrier. A Field with no directives and no child selections
// still requests the field's value.
type Field struct {
	Name       string
	Directives []Directive
	Selections []Selection
}

func (Field) selectionNode() {}

// InlineFragment narrows the enclosing selection to a subtype.
type InlineFragment struct {
	TypeCondition string
	Directives    []Directive
	Selections    []Selection
}

func (InlineFragment) selectionNode() {}

// Directive is an annotation on a selection, e.g. @output or @filter.
type Directive struct {
	Name      string
	Arguments []Argument
}

// Argument is a named literal argument of a directive.
type Argument struct {
	Name  string
	Value Value
}

// Value is a sealed interface over directive argument literals.
type Value interface {
	valueNode() // Marker method - seals interface to this package
}

// StringValue is a string literal.
type StringValue string

func (StringValue) valueNode() {}

// IntValue is an integer literal.
type IntValue int64

func (IntValue) valueNode() {}

// FloatValue is a float literal.
type FloatValue float64

func (FloatValue) valueNode() {}

// BooleanValue is a boolean literal.
type BooleanValue bool

func (BooleanValue) valueNode() {}

// EnumValue is an enum literal.
type EnumValue string

func (EnumValue) valueNode() {}

// ListValue is a list of literals.
type ListValue []Value

func (ListValue) valueNode() {}

// SelectionName returns the name used for path matching: the field name for
// a Field and the type condition for an InlineFragment.
func SelectionName(sel Selection) string {
	switch s := sel.(type) {
	case Field:
		return s.Name
	case InlineFragment:
		return s.TypeCondition
	default:
		// Unreachable: Selection is sealed.
		return ""
	}
}

// ChildSelections returns the child selection set of a selection.
func ChildSelections(sel Selection) []Selection {
	switch s := sel.(type) {
	case Field:
		return s.Selections
	case InlineFragment:
		return s.Selections
	default:
		return nil
	}
}

// WithSelections returns a copy of sel with its selection set replaced.
// The original selection is not modified.
func WithSelections(sel Selection, selections []Selection) Selection {
	switch s := sel.(type) {
	case Field:
		s.Selections = selections
		return s
	case InlineFragment:
		s.Selections = selections
		return s
	default:
		return sel
	}
}

// SelectionDirectives returns the directive list of a selection.
func SelectionDirectives(sel Selection) []Directive {
	switch s := sel.(type) {
	case Field:
		return s.Directives
	case InlineFragment:
		return s.Directives
	default:
		return nil
	}
}

// WithDirectives returns a copy of sel with its directive list replaced.
func WithDirectives(sel Selection, directives []Directive) Selection {
	switch s := sel.(type) {
	case Field:
		s.Directives = directives
		return s
	case InlineFragment:
		s.Directives = directives
		return s
	default:
		return sel
	}
}
