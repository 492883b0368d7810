package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecut/pagecut/internal/gql"
	"github.com/pagecut/pagecut/internal/queryast"
)

func parseQuery(t *testing.T, text string, params map[string]any) queryast.Query {
	t.Helper()
	op, err := gql.Parse(text)
	require.NoError(t, err)
	return queryast.Query{Operation: op, Parameters: params}
}

func TestSplitQuery_FilterOnSelectedField(t *testing.T) {
	q := parseQuery(t, `{
		Animal {
			uuid @output(out_name: "uuid")
			name @output(out_name: "name")
		}
	}`, map[string]any{})
	plan := VertexPartitionPlan{Path: []string{"Animal"}, PaginationField: "uuid", PartitionCount: 2}
	boundary := "80000000-0000-0000-0000-000000000000"

	page, remainder, err := SplitQuery(q, plan, boundary)
	require.NoError(t, err)

	assert.Equal(t, "{\n"+
		"  Animal {\n"+
		"    uuid @output(out_name: \"uuid\") @filter(op_name: \"<\", value: [\"$__paged_param_0\"])\n"+
		"    name @output(out_name: \"name\")\n"+
		"  }\n"+
		"}\n", gql.Print(page.Operation))
	assert.Equal(t, map[string]any{"__paged_param_0": boundary}, page.Parameters)

	assert.Equal(t, "{\n"+
		"  Animal {\n"+
		"    uuid @output(out_name: \"uuid\") @filter(op_name: \">=\", value: [\"$__paged_param_0\"])\n"+
		"    name @output(out_name: \"name\")\n"+
		"  }\n"+
		"}\n", gql.Print(remainder.Operation))
	assert.Equal(t, map[string]any{"__paged_param_0": boundary}, remainder.Parameters)
}

func TestSplitQuery_PrependsCarrierWhenFieldNotSelected(t *testing.T) {
	q := parseQuery(t, `{
		Animal {
			name @output(out_name: "animal_name")
		}
	}`, nil)
	plan := VertexPartitionPlan{Path: []string{"Animal"}, PaginationField: "uuid", PartitionCount: 2}

	page, remainder, err := SplitQuery(q, plan, "80000000-0000-0000-0000-000000000000")
	require.NoError(t, err)

	// The carrier selection has no output; it exists only to hold the
	// filter, and it goes first so the split is visible at a glance.
	assert.Equal(t, "{\n"+
		"  Animal {\n"+
		"    uuid @filter(op_name: \"<\", value: [\"$__paged_param_0\"])\n"+
		"    name @output(out_name: \"animal_name\")\n"+
		"  }\n"+
		"}\n", gql.Print(page.Operation))
	assert.Equal(t, "{\n"+
		"  Animal {\n"+
		"    uuid @filter(op_name: \">=\", value: [\"$__paged_param_0\"])\n"+
		"    name @output(out_name: \"animal_name\")\n"+
		"  }\n"+
		"}\n", gql.Print(remainder.Operation))
}

func TestSplitQuery_ReplacesSameComparatorFilterIndependently(t *testing.T) {
	q := parseQuery(t, `{
		Animal {
			uuid @filter(op_name: "<", value: ["$uuid_upper"]) @output(out_name: "uuid")
		}
	}`, map[string]any{"uuid_upper": "c0000000-0000-0000-0000-000000000000"})
	plan := VertexPartitionPlan{Path: []string{"Animal"}, PaginationField: "uuid", PartitionCount: 2}
	boundary := "80000000-0000-0000-0000-000000000000"

	page, remainder, err := SplitQuery(q, plan, boundary)
	require.NoError(t, err)

	// The page branch displaces the existing "<" filter and drops its
	// parameter.
	assert.Equal(t, "{\n"+
		"  Animal {\n"+
		"    uuid @output(out_name: \"uuid\") @filter(op_name: \"<\", value: [\"$__paged_param_0\"])\n"+
		"  }\n"+
		"}\n", gql.Print(page.Operation))
	assert.Equal(t, map[string]any{"__paged_param_0": boundary}, page.Parameters)

	// The remainder branch adds ">=", which does not collide, so the
	// original filter and its parameter survive there.
	assert.Equal(t, "{\n"+
		"  Animal {\n"+
		"    uuid @filter(op_name: \"<\", value: [\"$uuid_upper\"]) @output(out_name: \"uuid\") @filter(op_name: \">=\", value: [\"$__paged_param_0\"])\n"+
		"  }\n"+
		"}\n", gql.Print(remainder.Operation))
	assert.Equal(t, map[string]any{
		"uuid_upper":      "c0000000-0000-0000-0000-000000000000",
		"__paged_param_0": boundary,
	}, remainder.Parameters)
}

func TestSplitQuery_FreshParamNameSkipsTaken(t *testing.T) {
	q := parseQuery(t, `{
		Animal {
			uuid @filter(op_name: ">", value: ["$__paged_param_0"]) @output(out_name: "uuid")
		}
	}`, map[string]any{"__paged_param_0": "10000000-0000-0000-0000-000000000000"})
	plan := VertexPartitionPlan{Path: []string{"Animal"}, PaginationField: "uuid", PartitionCount: 2}
	boundary := "80000000-0000-0000-0000-000000000000"

	page, _, err := SplitQuery(q, plan, boundary)
	require.NoError(t, err)

	assert.Contains(t, gql.Print(page.Operation), "$__paged_param_1")
	assert.Equal(t, boundary, page.Parameters["__paged_param_1"])
	assert.Equal(t, "10000000-0000-0000-0000-000000000000", page.Parameters["__paged_param_0"])
}

func TestSplitQuery_NestedPath(t *testing.T) {
	q := parseQuery(t, `{
		Animal {
			name @output(out_name: "animal_name")
			out_Animal_BornAt {
				event_date @output(out_name: "birthday")
			}
		}
	}`, nil)
	plan := VertexPartitionPlan{
		Path:            []string{"Animal", "out_Animal_BornAt"},
		PaginationField: "event_date",
		PartitionCount:  2,
	}

	page, _, err := SplitQuery(q, plan, int64(51))
	require.NoError(t, err)

	assert.Equal(t, "{\n"+
		"  Animal {\n"+
		"    name @output(out_name: \"animal_name\")\n"+
		"    out_Animal_BornAt {\n"+
		"      event_date @output(out_name: \"birthday\") @filter(op_name: \"<\", value: [\"$__paged_param_0\"])\n"+
		"    }\n"+
		"  }\n"+
		"}\n", gql.Print(page.Operation))
}

func TestSplitQuery_PathMismatchIsInvariantViolation(t *testing.T) {
	q := parseQuery(t, `{ Animal { name } }`, nil)
	plan := VertexPartitionPlan{Path: []string{"Species"}, PaginationField: "limbs", PartitionCount: 2}

	_, _, err := SplitQuery(q, plan, int64(4))
	require.Error(t, err)
	assert.True(t, IsInvariantViolation(err))
}

func TestSplitQuery_OriginalUnchanged(t *testing.T) {
	params := map[string]any{"uuid_upper": "c0000000-0000-0000-0000-000000000000"}
	text := `{
		Animal {
			uuid @filter(op_name: "<", value: ["$uuid_upper"]) @output(out_name: "uuid")
		}
	}`
	q := parseQuery(t, text, params)
	before := gql.Print(q.Operation)
	plan := VertexPartitionPlan{Path: []string{"Animal"}, PaginationField: "uuid", PartitionCount: 2}

	_, _, err := SplitQuery(q, plan, "80000000-0000-0000-0000-000000000000")
	require.NoError(t, err)

	assert.Equal(t, before, gql.Print(q.Operation))
	assert.Equal(t, map[string]any{"uuid_upper": "c0000000-0000-0000-0000-000000000000"}, q.Parameters)
}
