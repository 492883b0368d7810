package queryast

import (
	"fmt"
	"strings"
)

// Directive names of the compiler dialect.
const (
	FilterDirectiveName = "filter"
	OutputDirectiveName = "output"
)

// NewBinaryFilter builds a @filter directive applying a binary comparison
// operator against a single named parameter:
//
//	@filter(op_name: "<", value: ["$param"])
func NewBinaryFilter(opName, paramName string) Directive {
	return Directive{
		Name: FilterDirectiveName,
		Arguments: []Argument{
			{Name: "op_name", Value: StringValue(opName)},
			{Name: "value", Value: ListValue{StringValue("$" + paramName)}},
		},
	}
}

// NewOutput builds an @output(out_name: "...") directive.
func NewOutput(outName string) Directive {
	return Directive{
		Name: OutputDirectiveName,
		Arguments: []Argument{
			{Name: "out_name", Value: StringValue(outName)},
		},
	}
}

// IsFilter reports whether d is a @filter directive.
func (d Directive) IsFilter() bool {
	return d.Name == FilterDirectiveName
}

// FilterOperation returns a @filter directive's op_name string.
func FilterOperation(d Directive) (string, error) {
	if !d.IsFilter() {
		return "", fmt.Errorf("directive @%s is not a filter", d.Name)
	}
	value, ok := argumentValue(d, "op_name")
	if !ok {
		return "", fmt.Errorf("filter directive has no op_name argument")
	}
	opName, ok := value.(StringValue)
	if !ok {
		return "", fmt.Errorf("filter op_name is %T, expected string", value)
	}
	return string(opName), nil
}

// FilterParameter returns the parameter name a binary @filter references.
// The value argument must be a one-element list of "$name".
func FilterParameter(d Directive) (string, error) {
	if !d.IsFilter() {
		return "", fmt.Errorf("directive @%s is not a filter", d.Name)
	}
	value, ok := argumentValue(d, "value")
	if !ok {
		return "", fmt.Errorf("filter directive has no value argument")
	}
	list, ok := value.(ListValue)
	if !ok {
		return "", fmt.Errorf("filter value is %T, expected list", value)
	}
	if len(list) != 1 {
		return "", fmt.Errorf("expected one argument in filter, got %d", len(list))
	}
	ref, ok := list[0].(StringValue)
	if !ok {
		return "", fmt.Errorf("filter value element is %T, expected string", list[0])
	}
	name, ok := strings.CutPrefix(string(ref), "$")
	if !ok {
		return "", fmt.Errorf("filter value %q is not a parameter reference", string(ref))
	}
	return name, nil
}

func argumentValue(d Directive, name string) (Value, bool) {
	for _, arg := range d.Arguments {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	return nil, false
}
