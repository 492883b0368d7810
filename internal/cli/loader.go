package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/pagecut/pagecut/internal/schemainfo"
)

// LoadError represents an error that occurred during config loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E002" // Path not found
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeBuildFailed = "E005" // CUE build failed
	ErrCodeBadConfig   = "E006" // Config content invalid
	ErrCodeBadParams   = "E007" // Parameters file invalid
	ErrCodeStatsStore  = "E008" // Statistics store error

	// Pagination errors
	ErrCodePagination      = "E101" // Pagination failed
	ErrCodeInvalidPageSize = "E102" // Page size below 1
	ErrCodeUnsupported     = "E103" // Unsupported plan shape
)

// LoadResult is the outcome of loading a schema config directory.
type LoadResult struct {
	Schema    *schemainfo.SchemaInfo
	FileCount int
}

// LoadSchemaConfig loads schema and statistics configuration from the CUE
// files in dir. The expected shape:
//
//	schema: {
//	    pagination_keys: {Animal: "uuid"}
//	    uuid4_fields:    {Animal: ["uuid"]}
//	    edge_targets:    {out_Animal_BornAt: "BirthEvent"}
//	}
//	statistics: {
//	    class_counts: {Animal: 1000}
//	    quantiles:    {Species: {limbs: [...]}}
//	}
//
// Every section is optional; statistics default to an empty in-memory set.
// Quantile values may be integers or strings; strings in RFC 3339 form are
// read as timestamps.
func LoadSchemaConfig(dir string) (*LoadResult, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema config directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing schema config directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	schema := &schemainfo.SchemaInfo{
		PaginationKeys: map[string]string{},
		UUID4Fields:    map[string]map[string]bool{},
		EdgeTargets:    map[string]string{},
	}

	schemaVal := value.LookupPath(cue.ParsePath("schema"))
	if schemaVal.Exists() {
		if err := parseSchemaSection(schemaVal, schema); err != nil {
			return nil, err
		}
	}

	classCounts := map[string]int64{}
	fieldQuantiles := map[schemainfo.FieldKey][]any{}
	statsVal := value.LookupPath(cue.ParsePath("statistics"))
	if statsVal.Exists() {
		if err := parseStatisticsSection(statsVal, classCounts, fieldQuantiles); err != nil {
			return nil, err
		}
	}
	schema.Statistics = schemainfo.NewLocalStatistics(classCounts, fieldQuantiles)

	return &LoadResult{Schema: schema, FileCount: len(cueFiles)}, nil
}

func parseSchemaSection(v cue.Value, schema *schemainfo.SchemaInfo) error {
	keysVal := v.LookupPath(cue.ParsePath("pagination_keys"))
	if keysVal.Exists() {
		if err := decodeStringMap(keysVal, schema.PaginationKeys); err != nil {
			return &LoadError{Code: ErrCodeBadConfig, Message: fmt.Sprintf("pagination_keys: %v", err), Pos: keysVal.Pos()}
		}
	}

	edgesVal := v.LookupPath(cue.ParsePath("edge_targets"))
	if edgesVal.Exists() {
		if err := decodeStringMap(edgesVal, schema.EdgeTargets); err != nil {
			return &LoadError{Code: ErrCodeBadConfig, Message: fmt.Sprintf("edge_targets: %v", err), Pos: edgesVal.Pos()}
		}
	}

	uuidVal := v.LookupPath(cue.ParsePath("uuid4_fields"))
	if uuidVal.Exists() {
		iter, err := uuidVal.Fields()
		if err != nil {
			return &LoadError{Code: ErrCodeBadConfig, Message: fmt.Sprintf("uuid4_fields: %v", err), Pos: uuidVal.Pos()}
		}
		for iter.Next() {
			vertexType := iter.Label()
			fields := map[string]bool{}
			list, err := iter.Value().List()
			if err != nil {
				return &LoadError{Code: ErrCodeBadConfig, Message: fmt.Sprintf("uuid4_fields.%s: %v", vertexType, err), Pos: iter.Value().Pos()}
			}
			for list.Next() {
				name, err := list.Value().String()
				if err != nil {
					return &LoadError{Code: ErrCodeBadConfig, Message: fmt.Sprintf("uuid4_fields.%s: %v", vertexType, err), Pos: list.Value().Pos()}
				}
				fields[name] = true
			}
			schema.UUID4Fields[vertexType] = fields
		}
	}
	return nil
}

func parseStatisticsSection(v cue.Value, classCounts map[string]int64, fieldQuantiles map[schemainfo.FieldKey][]any) error {
	countsVal := v.LookupPath(cue.ParsePath("class_counts"))
	if countsVal.Exists() {
		iter, err := countsVal.Fields()
		if err != nil {
			return &LoadError{Code: ErrCodeBadConfig, Message: fmt.Sprintf("class_counts: %v", err), Pos: countsVal.Pos()}
		}
		for iter.Next() {
			count, err := iter.Value().Int64()
			if err != nil {
				return &LoadError{Code: ErrCodeBadConfig, Message: fmt.Sprintf("class_counts.%s: %v", iter.Label(), err), Pos: iter.Value().Pos()}
			}
			classCounts[iter.Label()] = count
		}
	}

	quantilesVal := v.LookupPath(cue.ParsePath("quantiles"))
	if quantilesVal.Exists() {
		vertexIter, err := quantilesVal.Fields()
		if err != nil {
			return &LoadError{Code: ErrCodeBadConfig, Message: fmt.Sprintf("quantiles: %v", err), Pos: quantilesVal.Pos()}
		}
		for vertexIter.Next() {
			vertexType := vertexIter.Label()
			fieldIter, err := vertexIter.Value().Fields()
			if err != nil {
				return &LoadError{Code: ErrCodeBadConfig, Message: fmt.Sprintf("quantiles.%s: %v", vertexType, err), Pos: vertexIter.Value().Pos()}
			}
			for fieldIter.Next() {
				fieldName := fieldIter.Label()
				sample, err := decodeQuantileList(fieldIter.Value())
				if err != nil {
					return &LoadError{
						Code:    ErrCodeBadConfig,
						Message: fmt.Sprintf("quantiles.%s.%s: %v", vertexType, fieldName, err),
						Pos:     fieldIter.Value().Pos(),
					}
				}
				fieldQuantiles[schemainfo.FieldKey{VertexType: vertexType, FieldName: fieldName}] = sample
			}
		}
	}
	return nil
}

func decodeStringMap(v cue.Value, into map[string]string) error {
	iter, err := v.Fields()
	if err != nil {
		return err
	}
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return fmt.Errorf("%s: %w", iter.Label(), err)
		}
		into[iter.Label()] = s
	}
	return nil
}

func decodeQuantileList(v cue.Value) ([]any, error) {
	list, err := v.List()
	if err != nil {
		return nil, err
	}
	var sample []any
	for list.Next() {
		elem := list.Value()
		if n, err := elem.Int64(); err == nil {
			sample = append(sample, n)
			continue
		}
		s, err := elem.String()
		if err != nil {
			return nil, fmt.Errorf("value %d must be an integer or string", len(sample))
		}
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			sample = append(sample, ts)
			continue
		}
		sample = append(sample, s)
	}
	return sample, nil
}

func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
