package gql

import (
	"fmt"
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/pagecut/pagecut/internal/queryast"
)

// Parse parses GraphQL query text into an Operation.
//
// The document must contain exactly one query operation and no fragment
// definitions. Named fragments and variables are not part of the compiler
// dialect; their presence is a parse-level error, not an invariant violation.
func Parse(text string) (queryast.Operation, error) {
	doc, perr := parser.ParseQuery(&ast.Source{Name: "query", Input: text})
	if perr != nil {
		return queryast.Operation{}, fmt.Errorf("parse query: %w", perr)
	}
	if len(doc.Fragments) != 0 {
		return queryast.Operation{}, fmt.Errorf("fragment definitions are not supported")
	}
	if len(doc.Operations) != 1 {
		return queryast.Operation{}, fmt.Errorf("expected exactly one operation, found %d", len(doc.Operations))
	}
	op := doc.Operations[0]
	if op.Operation != ast.Query {
		return queryast.Operation{}, fmt.Errorf("unsupported operation type %q", op.Operation)
	}
	selections, err := convertSelections(op.SelectionSet)
	if err != nil {
		return queryast.Operation{}, err
	}
	return queryast.Operation{Selections: selections}, nil
}

func convertSelections(set ast.SelectionSet) ([]queryast.Selection, error) {
	if len(set) == 0 {
		return nil, nil
	}
	selections := make([]queryast.Selection, 0, len(set))
	for _, sel := range set {
		switch node := sel.(type) {
		case *ast.Field:
			directives, err := convertDirectives(node.Directives)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", node.Name, err)
			}
			children, err := convertSelections(node.SelectionSet)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", node.Name, err)
			}
			selections = append(selections, queryast.Field{
				Name:       node.Name,
				Directives: directives,
				Selections: children,
			})
		case *ast.InlineFragment:
			directives, err := convertDirectives(node.Directives)
			if err != nil {
				return nil, fmt.Errorf("fragment on %s: %w", node.TypeCondition, err)
			}
			children, err := convertSelections(node.SelectionSet)
			if err != nil {
				return nil, fmt.Errorf("fragment on %s: %w", node.TypeCondition, err)
			}
			selections = append(selections, queryast.InlineFragment{
				TypeCondition: node.TypeCondition,
				Directives:    directives,
				Selections:    children,
			})
		case *ast.FragmentSpread:
			return nil, fmt.Errorf("fragment spread %q is not supported", node.Name)
		default:
			return nil, fmt.Errorf("unsupported selection kind %T", sel)
		}
	}
	return selections, nil
}

func convertDirectives(list ast.DirectiveList) ([]queryast.Directive, error) {
	if len(list) == 0 {
		return nil, nil
	}
	directives := make([]queryast.Directive, 0, len(list))
	for _, d := range list {
		arguments := make([]queryast.Argument, 0, len(d.Arguments))
		for _, arg := range d.Arguments {
			value, err := convertValue(arg.Value)
			if err != nil {
				return nil, fmt.Errorf("directive @%s argument %s: %w", d.Name, arg.Name, err)
			}
			arguments = append(arguments, queryast.Argument{Name: arg.Name, Value: value})
		}
		directives = append(directives, queryast.Directive{Name: d.Name, Arguments: arguments})
	}
	return directives, nil
}

func convertValue(v *ast.Value) (queryast.Value, error) {
	switch v.Kind {
	case ast.StringValue, ast.BlockValue:
		return queryast.StringValue(v.Raw), nil
	case ast.IntValue:
		n, err := strconv.ParseInt(v.Raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid int literal %q: %w", v.Raw, err)
		}
		return queryast.IntValue(n), nil
	case ast.FloatValue:
		f, err := strconv.ParseFloat(v.Raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float literal %q: %w", v.Raw, err)
		}
		return queryast.FloatValue(f), nil
	case ast.BooleanValue:
		return queryast.BooleanValue(v.Raw == "true"), nil
	case ast.EnumValue:
		return queryast.EnumValue(v.Raw), nil
	case ast.ListValue:
		list := make(queryast.ListValue, 0, len(v.Children))
		for _, child := range v.Children {
			element, err := convertValue(child.Value)
			if err != nil {
				return nil, err
			}
			list = append(list, element)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unsupported value kind %d (%q)", v.Kind, v.Raw)
	}
}
