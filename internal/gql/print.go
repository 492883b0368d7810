package gql

import (
	"strconv"
	"strings"

	"github.com/pagecut/pagecut/internal/queryast"
)

const indentUnit = "  "

// Print renders an Operation as query text in the dialect's canonical shape:
// two-space indentation, one selection per line, directives inline after the
// selection name. Output is byte-stable for structurally equal operations.
func Print(op queryast.Operation) string {
	var b strings.Builder
	b.WriteString("{\n")
	printSelections(&b, op.Selections, 1)
	b.WriteString("}\n")
	return b.String()
}

func printSelections(b *strings.Builder, selections []queryast.Selection, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	for _, sel := range selections {
		b.WriteString(indent)
		switch node := sel.(type) {
		case queryast.Field:
			b.WriteString(node.Name)
			printDirectives(b, node.Directives)
			printBlock(b, node.Selections, depth)
		case queryast.InlineFragment:
			b.WriteString("... on ")
			b.WriteString(node.TypeCondition)
			printDirectives(b, node.Directives)
			printBlock(b, node.Selections, depth)
		}
	}
}

func printBlock(b *strings.Builder, selections []queryast.Selection, depth int) {
	if len(selections) == 0 {
		b.WriteString("\n")
		return
	}
	b.WriteString(" {\n")
	printSelections(b, selections, depth+1)
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteString("}\n")
}

func printDirectives(b *strings.Builder, directives []queryast.Directive) {
	for _, d := range directives {
		b.WriteString(" @")
		b.WriteString(d.Name)
		if len(d.Arguments) == 0 {
			continue
		}
		b.WriteString("(")
		for i, arg := range d.Arguments {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.Name)
			b.WriteString(": ")
			printValue(b, arg.Value)
		}
		b.WriteString(")")
	}
}

func printValue(b *strings.Builder, value queryast.Value) {
	switch v := value.(type) {
	case queryast.StringValue:
		b.WriteString(strconv.Quote(string(v)))
	case queryast.IntValue:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case queryast.FloatValue:
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 64))
	case queryast.BooleanValue:
		b.WriteString(strconv.FormatBool(bool(v)))
	case queryast.EnumValue:
		b.WriteString(string(v))
	case queryast.ListValue:
		b.WriteString("[")
		for i, element := range v {
			if i > 0 {
				b.WriteString(", ")
			}
			printValue(b, element)
		}
		b.WriteString("]")
	}
}
