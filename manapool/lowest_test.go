package manapool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
)

// singlesHandler answers every search with one Single per requested
// scryfall id, failing the calls listed in failing (1-based).
func singlesHandler(failing ...int) (http.HandlerFunc, *int) {
	calls := new(int)
	return func(w http.ResponseWriter, r *http.Request) {
		*calls++
		for _, n := range failing {
			if n == *calls {
				w.WriteHeader(http.StatusInternalServerError)
				io.WriteString(w, "upstream unavailable")
				return
			}
		}
		var products []string
		for _, id := range r.URL.Query()["scryfall_ids"] {
			products = append(products, fmt.Sprintf(`{"name":"Card %s","set_code":"TST","scryfall_id":"%s","variants":[]}`, id, id))
		}
		fmt.Fprintf(w, `{"data":[%s]}`, strings.Join(products, ","))
	}, calls
}

func TestFetchSinglesPartialFailure(t *testing.T) {
	handler, calls := singlesHandler(1)
	client := newTestClient(t, handler)

	lookups := Batch(map[Kind][]string{KindScryfall: makeIds("s", 150)})
	if len(lookups) != 2 {
		t.Fatalf("FAIL: expected 2 lookups, got %d", len(lookups))
	}

	var batchErrors []*BatchError
	singles, err := client.FetchSingles(context.Background(), lookups, func(berr *BatchError) {
		batchErrors = append(batchErrors, berr)
	})
	if err != nil {
		t.Fatalf("FAIL: Unexpected error: %s", err.Error())
	}
	if *calls != 2 {
		t.Errorf("FAIL: expected 2 calls, got %d", *calls)
	}

	if len(batchErrors) != 1 {
		t.Fatalf("FAIL: expected 1 batch error, got %d", len(batchErrors))
	}
	berr := batchErrors[0]
	if berr.Index != 1 || berr.Total != 2 {
		t.Errorf("FAIL: unexpected batch position %d/%d", berr.Index, berr.Total)
	}
	var herr *HTTPError
	if !errors.As(berr, &herr) || herr.StatusCode != http.StatusInternalServerError {
		t.Errorf("FAIL: batch error does not wrap the HTTP error: %v", berr)
	}
	if !strings.HasPrefix(berr.Error(), "batch 1/2 (scryfall_ids (100 ids))") {
		t.Errorf("FAIL: unexpected message %q", berr.Error())
	}

	if len(singles) != 50 {
		t.Fatalf("FAIL: expected 50 singles, got %d", len(singles))
	}
	second := map[string]bool{}
	for _, id := range lookups[1].IDs() {
		second[id] = true
	}
	for _, single := range singles {
		if !second[single.ScryfallID] {
			t.Errorf("FAIL: %s does not belong to the successful batch", single.ScryfallID)
		}
	}
}

func TestFetchSinglesDedup(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// The same product comes back for every lookup
		io.WriteString(w, `{"data":[{"name":"Opt","set_code":"XLN","product_id":"p1","variants":[]}]}`)
	})

	lookups := Batch(map[Kind][]string{
		KindTCGPlayer: {"1"},
		KindProduct:   {"p1"},
	})
	singles, err := client.FetchSingles(context.Background(), lookups, nil)
	if err != nil {
		t.Fatalf("FAIL: Unexpected error: %s", err.Error())
	}
	if len(singles) != 1 {
		t.Errorf("FAIL: expected 1 single, got %d", len(singles))
	}
}

func TestFetchSinglesAllFailed(t *testing.T) {
	handler, _ := singlesHandler(1, 2, 3)
	client := newTestClient(t, handler)

	lookups := Batch(map[Kind][]string{KindScryfall: makeIds("s", 250)})

	var failed int
	singles, err := client.FetchSingles(context.Background(), lookups, func(*BatchError) {
		failed++
	})
	if err != nil {
		t.Fatalf("FAIL: Unexpected error: %s", err.Error())
	}
	if failed != 3 || len(singles) != 0 {
		t.Errorf("FAIL: expected 3 failures and no results, got %d and %d", failed, len(singles))
	}
}

func TestFetchSinglesCancelled(t *testing.T) {
	handler, calls := singlesHandler()
	client := newTestClient(t, handler)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lookups := Batch(map[Kind][]string{KindScryfall: makeIds("s", 10)})
	_, err := client.FetchSingles(ctx, lookups, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("FAIL: expected context.Canceled, got %v", err)
	}
	if *calls != 0 {
		t.Errorf("FAIL: expected no calls, got %d", *calls)
	}
}
