package pagination

import (
	"iter"
	"math/big"

	"github.com/google/uuid"

	"github.com/pagecut/pagecut/internal/schemainfo"
)

// quantileSampleSize is the expected length of a quantile sample: one value
// per percentile, 0th through 100th.
const quantileSampleSize = 101

// GenerateBoundaries returns the ordered boundary values that split the
// planned pagination field's value domain into the plan's partition count of
// roughly equal parts. The sequence is finite (partitionCount - 1 values)
// and restartable: every range over it re-yields from the start.
//
// Two sources are supported. Quantile-backed fields draw the boundary for
// partition k of n from the sample at index floor(100*k/n)+1 - one
// percentile bucket above the exact split point, so the half-open "<" branch
// receives the bucket at or below the target fraction rather than
// systematically under-filling. uuid4 fields have no collected statistics;
// boundaries are k/n fractions of the 128-bit identifier space, formatted
// with all lower-order bits zeroed.
//
// When neither source applies (or the plan asks for fewer than two
// partitions) the sequence is empty, signalling that no split is possible.
func GenerateBoundaries(schema *schemainfo.SchemaInfo, plan VertexPartitionPlan) iter.Seq[any] {
	if plan.PartitionCount < 2 {
		return emptyBoundaries
	}
	vertexType, err := schema.VertexTypeAtPath(plan.Path)
	if err != nil {
		return emptyBoundaries
	}
	if sample, ok := schema.Statistics.FieldQuantiles(vertexType, plan.PaginationField); ok {
		if len(sample) >= quantileSampleSize {
			return quantileBoundaries(sample, plan.PartitionCount)
		}
		// A short sample cannot be read as percentiles; fall through to
		// the uuid4 fallback rather than misinterpret it.
	}
	if schema.IsUUID4Field(vertexType, plan.PaginationField) {
		return uuidBoundaries(plan.PartitionCount)
	}
	return emptyBoundaries
}

func emptyBoundaries(func(any) bool) {}

func quantileBoundaries(sample []any, partitionCount int) iter.Seq[any] {
	return func(yield func(any) bool) {
		for k := 1; k < partitionCount; k++ {
			idx := (100*k)/partitionCount + 1
			if !yield(sample[idx]) {
				return
			}
		}
	}
}

// uuidBoundaries assumes values are uniformly distributed over the full
// 128-bit uuid space and cuts it at k/n fractions. Boundary k of n is
// floor(k * 2^128 / n) rendered as a uuid literal.
func uuidBoundaries(partitionCount int) iter.Seq[any] {
	return func(yield func(any) bool) {
		space := new(big.Int).Lsh(big.NewInt(1), 128)
		for k := 1; k < partitionCount; k++ {
			cut := new(big.Int).Mul(space, big.NewInt(int64(k)))
			cut.Div(cut, big.NewInt(int64(partitionCount)))

			var raw [16]byte
			cut.FillBytes(raw[:])
			id, err := uuid.FromBytes(raw[:])
			if err != nil {
				// Unreachable: raw is always 16 bytes.
				return
			}
			if !yield(id.String()) {
				return
			}
		}
	}
}
