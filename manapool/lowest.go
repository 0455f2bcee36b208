package manapool

import (
	"context"
	"fmt"
)

// BatchError reports a lookup that could not be completed.
type BatchError struct {
	// Position of the lookup, starting at 1
	Index int
	Total int

	Lookup Lookup
	Err    error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %d/%d (%s): %v", e.Index, e.Total, e.Lookup, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// FetchSingles runs every lookup in order and merges the results, keeping
// the first Single seen for each Key. A failing lookup is passed to onError
// and the remaining ones are still executed. Only a cancelled context stops
// the loop early.
func (mp *Client) FetchSingles(ctx context.Context, lookups []Lookup, onError func(*BatchError)) ([]Single, error) {
	keyFound := map[string]bool{}
	var results []Single

	for i, lookup := range lookups {
		err := ctx.Err()
		if err != nil {
			return results, err
		}

		singles, err := mp.SearchSingles(ctx, lookup)
		if err != nil {
			berr := &BatchError{
				Index:  i + 1,
				Total:  len(lookups),
				Lookup: lookup,
				Err:    err,
			}
			mp.printf("%v", berr)
			if onError != nil {
				onError(berr)
			}
			continue
		}

		mp.printf("Batch %d/%d returned %d products", i+1, len(lookups), len(singles))

		for _, single := range singles {
			key := single.Key()
			if keyFound[key] {
				continue
			}
			keyFound[key] = true
			results = append(results, single)
		}
	}

	return results, nil
}
