package pagination

import (
	"fmt"
	"math"
)

// EstimatePageCount computes how many pages of the given size the estimated
// result cardinality needs: ceil(cardinality/pageSize), with a minimum of 1.
// A query with zero estimated rows still needs exactly one, empty, page.
//
// Fails with ErrCodeInvalidPageSize if pageSize is below 1 and with
// ErrCodeNegativeCardinality if the estimator handed us a negative estimate.
func EstimatePageCount(cardinality float64, pageSize int) (int, error) {
	if pageSize < 1 {
		return 0, &Error{
			Code:    ErrCodeInvalidPageSize,
			Message: fmt.Sprintf("cannot estimate page count with page size lower than 1: %d", pageSize),
		}
	}
	if cardinality < 0 {
		return 0, &Error{
			Code:    ErrCodeNegativeCardinality,
			Message: fmt.Sprintf("received negative cardinality estimate %v", cardinality),
		}
	}

	numPages := int(math.Ceil(cardinality / float64(pageSize)))
	if numPages < 1 {
		numPages = 1
	}
	return numPages, nil
}
