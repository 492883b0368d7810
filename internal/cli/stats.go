package cli

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pagecut/pagecut/internal/statstore"
)

// StatsOptions holds flags shared by the stats subcommands.
type StatsOptions struct {
	*RootOptions
	DBPath string
}

// statsImportFile is the YAML shape accepted by `stats import`. Quantile
// values may be integers or strings; strings in RFC 3339 form are read as
// timestamps, matching the CUE config loader.
type statsImportFile struct {
	ClassCounts map[string]int64            `yaml:"class_counts"`
	Quantiles   map[string]map[string][]any `yaml:"quantiles"`
}

// NewStatsCommand creates the stats command group for maintaining the
// SQLite statistics database consumed by paginate --stats-db.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Maintain the statistics database",
	}
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "SQLite statistics database (required)")
	cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newStatsImportCommand(opts))
	cmd.AddCommand(newStatsShowCommand(opts))
	return cmd
}

func newStatsImportCommand(opts *StatsOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "import <stats-file>",
		Short:         "Import class counts and quantile samples from a YAML file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatsImport(opts, args[0], cmd)
		},
	}
}

func newStatsShowCommand(opts *StatsOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Show stored class counts and quantile coverage",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatsShow(opts, cmd)
		},
	}
}

func runStatsImport(opts *StatsOptions, statsFile string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	raw, err := os.ReadFile(statsFile)
	if err != nil {
		formatter.ErrorOut(ErrCodeNotFound, fmt.Sprintf("reading stats file: %v", err))
		return WrapExitError(ExitCommandError, "reading stats file", err)
	}
	var file statsImportFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		formatter.ErrorOut(ErrCodeBadParams, fmt.Sprintf("parsing stats file: %v", err))
		return WrapExitError(ExitCommandError, "parsing stats file", err)
	}

	store, err := statstore.Open(opts.DBPath)
	if err != nil {
		formatter.ErrorOut(ErrCodeStatsStore, err.Error())
		return WrapExitError(ExitCommandError, "opening statistics store", err)
	}
	defer store.Close()

	for vertexType, count := range file.ClassCounts {
		if err := store.SetClassCount(vertexType, count); err != nil {
			formatter.ErrorOut(ErrCodeStatsStore, err.Error())
			return WrapExitError(ExitFailure, "importing class counts", err)
		}
	}
	quantileFields := 0
	for vertexType, fields := range file.Quantiles {
		for fieldName, sample := range fields {
			if err := store.PutQuantiles(vertexType, fieldName, normalizeSample(sample)); err != nil {
				formatter.ErrorOut(ErrCodeStatsStore, err.Error())
				return WrapExitError(ExitFailure, "importing quantiles", err)
			}
			quantileFields++
		}
	}

	if opts.Format == "json" {
		return formatter.SuccessJSON(map[string]any{
			"class_counts":    int64(len(file.ClassCounts)),
			"quantile_fields": int64(quantileFields),
		})
	}
	fmt.Fprintf(formatter.Writer, "imported %d class count(s), %d quantile field(s)\n",
		len(file.ClassCounts), quantileFields)
	return nil
}

func runStatsShow(opts *StatsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	store, err := statstore.Open(opts.DBPath)
	if err != nil {
		formatter.ErrorOut(ErrCodeStatsStore, err.Error())
		return WrapExitError(ExitCommandError, "opening statistics store", err)
	}
	defer store.Close()

	counts, err := store.ListClassCounts()
	if err != nil {
		formatter.ErrorOut(ErrCodeStatsStore, err.Error())
		return WrapExitError(ExitFailure, "reading class counts", err)
	}
	fields, err := store.ListQuantileFields()
	if err != nil {
		formatter.ErrorOut(ErrCodeStatsStore, err.Error())
		return WrapExitError(ExitFailure, "reading quantile fields", err)
	}

	if opts.Format == "json" {
		countData := map[string]any{}
		for vertexType, count := range counts {
			countData[vertexType] = count
		}
		fieldData := make([]any, 0, len(fields))
		for _, f := range fields {
			fieldData = append(fieldData, map[string]any{
				"vertex_type": f.VertexType,
				"field":       f.FieldName,
				"percentiles": int64(f.Percentiles),
			})
		}
		return formatter.SuccessJSON(map[string]any{
			"class_counts":    countData,
			"quantile_fields": fieldData,
		})
	}

	if len(counts) == 0 && len(fields) == 0 {
		fmt.Fprintln(formatter.Writer, "statistics database is empty")
		return nil
	}
	for _, vertexType := range sortedKeys(counts) {
		fmt.Fprintf(formatter.Writer, "count %s: %d\n", vertexType, counts[vertexType])
	}
	for _, f := range fields {
		fmt.Fprintf(formatter.Writer, "quantiles %s.%s: %d percentile(s)\n", f.VertexType, f.FieldName, f.Percentiles)
	}
	return nil
}

// normalizeSample maps YAML scalar types onto the store's value kinds.
func normalizeSample(sample []any) []any {
	out := make([]any, len(sample))
	for i, value := range sample {
		switch v := value.(type) {
		case string:
			if ts, err := time.Parse(time.RFC3339, v); err == nil {
				out[i] = ts
				continue
			}
			out[i] = v
		default:
			out[i] = value
		}
	}
	return out
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
