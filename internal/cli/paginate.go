package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pagecut/pagecut/internal/canonicaljson"
	"github.com/pagecut/pagecut/internal/pagination"
	"github.com/pagecut/pagecut/internal/planner"
	"github.com/pagecut/pagecut/internal/schemainfo"
	"github.com/pagecut/pagecut/internal/statstore"
)

// PaginateOptions holds flags for the paginate command.
type PaginateOptions struct {
	*RootOptions
	SchemaDir  string
	ParamsFile string
	StatsDB    string
	PageSize   int
}

// NewPaginateCommand creates the paginate command.
func NewPaginateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PaginateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "paginate <query-file>",
		Short: "Split a query into a bounded page plus a remainder",
		Long: `Rewrite the query in the given file into a page query expected to return
roughly --page-size rows and a remainder query covering the rest. When the
query already fits in one page, or no usable pagination key exists, the page
query is the original query and the remainder is empty.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaginate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.SchemaDir, "schema", "", "directory of CUE schema config (required)")
	cmd.Flags().StringVar(&opts.ParamsFile, "params", "", "YAML file of query parameters")
	cmd.Flags().StringVar(&opts.StatsDB, "stats-db", "", "SQLite statistics database (overrides config statistics)")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 1000, "desired number of result rows per page")
	cmd.MarkFlagRequired("schema")

	return cmd
}

func runPaginate(opts *PaginateOptions, queryFile string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	schema, cleanup, err := loadSchemaForCommand(opts.SchemaDir, opts.StatsDB, formatter)
	if err != nil {
		return err
	}
	defer cleanup()

	queryText, err := os.ReadFile(queryFile)
	if err != nil {
		formatter.ErrorOut(ErrCodeNotFound, fmt.Sprintf("reading query file: %v", err))
		return WrapExitError(ExitCommandError, "reading query file", err)
	}

	var parameters map[string]any
	if opts.ParamsFile != "" {
		raw, err := os.ReadFile(opts.ParamsFile)
		if err != nil {
			formatter.ErrorOut(ErrCodeNotFound, fmt.Sprintf("reading parameters file: %v", err))
			return WrapExitError(ExitCommandError, "reading parameters file", err)
		}
		if err := yaml.Unmarshal(raw, &parameters); err != nil {
			formatter.ErrorOut(ErrCodeBadParams, fmt.Sprintf("parsing parameters file: %v", err))
			return WrapExitError(ExitCommandError, "parsing parameters file", err)
		}
	}

	paginator := pagination.Paginator{
		Planner:  planner.RootVertex{},
		Analyzer: planner.CountAnalyzer{},
	}
	result, advisories, err := paginator.PaginateText(
		schema,
		pagination.TextQuery{Text: string(queryText), Parameters: parameters},
		opts.PageSize,
	)
	if err != nil {
		code := ErrCodePagination
		exitCode := ExitFailure
		switch {
		case pagination.IsUnsupportedPlan(err):
			code = ErrCodeUnsupported
		case pagination.IsInvalidArgument(err):
			code = ErrCodeInvalidPageSize
			exitCode = ExitCommandError
		}
		formatter.ErrorOut(code, err.Error())
		return WrapExitError(exitCode, "pagination failed", err)
	}

	formatter.VerboseLog("page size %d, %d remainder quer(ies), %d advisor(ies)",
		opts.PageSize, len(result.Remainder), len(advisories))

	if opts.Format == "json" {
		return formatter.SuccessJSON(paginationResultData(result, advisories))
	}
	return printPaginationText(formatter, result, advisories)
}

// loadSchemaForCommand loads the CUE schema config and, when a statistics
// database is given, swaps the config's in-memory statistics for the store.
// The returned cleanup closes the store (a no-op otherwise).
func loadSchemaForCommand(schemaDir, statsDB string, formatter *OutputFormatter) (schema *schemainfo.SchemaInfo, cleanup func(), err error) {
	loadResult, loadErr := LoadSchemaConfig(schemaDir)
	if loadErr != nil {
		code := ErrCodeGeneric
		if le, ok := loadErr.(*LoadError); ok {
			code = le.Code
		}
		formatter.ErrorOut(code, loadErr.Error())
		return nil, func() {}, WrapExitError(ExitCommandError, "loading schema config", loadErr)
	}
	formatter.VerboseLog("loaded schema config from %d CUE file(s)", loadResult.FileCount)

	cleanup = func() {}
	if statsDB != "" {
		store, err := statstore.Open(statsDB)
		if err != nil {
			formatter.ErrorOut(ErrCodeStatsStore, err.Error())
			return nil, cleanup, WrapExitError(ExitCommandError, "opening statistics store", err)
		}
		loadResult.Schema.Statistics = store
		cleanup = func() { store.Close() }
	}
	return loadResult.Schema, cleanup, nil
}

func paginationResultData(result pagination.PageAndRemainder[pagination.TextQuery], advisories []pagination.Advisory) map[string]any {
	remainder := make([]any, 0, len(result.Remainder))
	for _, q := range result.Remainder {
		remainder = append(remainder, textQueryData(q))
	}
	return map[string]any{
		"page_size":  int64(result.PageSize),
		"page":       textQueryData(result.Page),
		"remainder":  remainder,
		"advisories": advisoriesData(advisories),
	}
}

func textQueryData(q pagination.TextQuery) map[string]any {
	params := q.Parameters
	if params == nil {
		params = map[string]any{}
	}
	return map[string]any{
		"query":      q.Text,
		"parameters": params,
	}
}

func advisoriesData(advisories []pagination.Advisory) []any {
	out := make([]any, 0, len(advisories))
	for _, a := range advisories {
		entry := map[string]any{
			"code":    string(a.Code),
			"message": a.Message,
		}
		if a.VertexType != "" {
			entry["vertex_type"] = a.VertexType
		}
		if a.Field != "" {
			entry["field"] = a.Field
		}
		out = append(out, entry)
	}
	return out
}

func printPaginationText(formatter *OutputFormatter, result pagination.PageAndRemainder[pagination.TextQuery], advisories []pagination.Advisory) error {
	fmt.Fprintln(formatter.Writer, "-- page --")
	if err := printTextQuery(formatter, result.Page); err != nil {
		return err
	}
	for i, remainder := range result.Remainder {
		fmt.Fprintf(formatter.Writer, "-- remainder %d --\n", i+1)
		if err := printTextQuery(formatter, remainder); err != nil {
			return err
		}
	}
	for _, advisory := range advisories {
		fmt.Fprintf(formatter.Writer, "advisory [%s]: %s\n", advisory.Code, advisory.Message)
	}
	return nil
}

func printTextQuery(formatter *OutputFormatter, q pagination.TextQuery) error {
	fmt.Fprint(formatter.Writer, q.Text)
	params := q.Parameters
	if params == nil {
		params = map[string]any{}
	}
	encoded, err := canonicaljson.Marshal(params)
	if err != nil {
		return fmt.Errorf("encode parameters: %w", err)
	}
	fmt.Fprintf(formatter.Writer, "parameters: %s\n", encoded)
	return nil
}
