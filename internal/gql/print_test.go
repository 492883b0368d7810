package gql

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecut/pagecut/internal/queryast"
)

func goldenPrint(t *testing.T, name, text string) {
	t.Helper()

	op, err := Parse(text)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(Print(op)))
}

func TestPrint_SimpleQuery(t *testing.T) {
	goldenPrint(t, "simple", `{
		Animal {
			name @output(out_name: "animal_name")
		}
	}`)
}

func TestPrint_FiltersAndFragment(t *testing.T) {
	goldenPrint(t, "filters_and_fragment", `{
		Species {
			name @filter(op_name: "=", value: ["$species_name"]) @output(out_name: "name")
			limbs @filter(op_name: ">=", value: ["$limbs"])
			... on BigSpecies {
				mass @output(out_name: "mass")
			}
		}
	}`)
}

func TestPrint_NestedTraversal(t *testing.T) {
	goldenPrint(t, "nested_traversal", `{
		Animal {
			uuid @output(out_name: "uuid")
			out_Animal_BornAt {
				event_date @output(out_name: "birthday")
			}
		}
	}`)
}

func TestPrint_CarrierFieldWithoutChildren(t *testing.T) {
	op := queryast.Operation{Selections: []queryast.Selection{
		queryast.Field{
			Name: "Animal",
			Selections: []queryast.Selection{
				queryast.Field{
					Name:       "uuid",
					Directives: []queryast.Directive{queryast.NewBinaryFilter("<", "__paged_param_0")},
				},
				queryast.Field{
					Name:       "name",
					Directives: []queryast.Directive{queryast.NewOutput("animal_name")},
				},
			},
		},
	}}

	want := "{\n" +
		"  Animal {\n" +
		"    uuid @filter(op_name: \"<\", value: [\"$__paged_param_0\"])\n" +
		"    name @output(out_name: \"animal_name\")\n" +
		"  }\n" +
		"}\n"
	assert.Equal(t, want, Print(op))
}

func TestPrint_ValueLiterals(t *testing.T) {
	op := queryast.Operation{Selections: []queryast.Selection{
		queryast.Field{
			Name: "Event",
			Directives: []queryast.Directive{{
				Name: "custom",
				Arguments: []queryast.Argument{
					{Name: "flag", Value: queryast.BooleanValue(true)},
					{Name: "limit", Value: queryast.IntValue(10)},
					{Name: "ratio", Value: queryast.FloatValue(0.5)},
					{Name: "mode", Value: queryast.EnumValue("FAST")},
					{Name: "tags", Value: queryast.ListValue{queryast.StringValue("a"), queryast.StringValue("b")}},
				},
			}},
		},
	}}

	want := "{\n" +
		"  Event @custom(flag: true, limit: 10, ratio: 0.5, mode: FAST, tags: [\"a\", \"b\"])\n" +
		"}\n"
	assert.Equal(t, want, Print(op))
}

func TestPrint_ByteStable(t *testing.T) {
	text := `{
		Species {
			name @filter(op_name: "=", value: ["$species_name"])
		}
	}`
	op, err := Parse(text)
	require.NoError(t, err)

	assert.Equal(t, Print(op), Print(op))
}
