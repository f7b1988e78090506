// Package search executes validated parameter records against the flight
// provider, with the result cache wrapped around every call.
package search

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/dharmasatrya/flexiflight/internal/cache"
	"github.com/dharmasatrya/flexiflight/internal/models"
)

type Searcher struct {
	cache   cache.Cache
	fetcher Fetcher
}

// Result is the outcome of running a batch of query variants. A failed
// variant never fails the batch.
type Result struct {
	Variants          []models.VariantResult
	VariantsQueried   int
	VariantsSucceeded int
	VariantsFailed    int
	FailedVariants    []string
	CacheHits         int
}

func NewSearcher(c cache.Cache, fetcher Fetcher) *Searcher {
	return &Searcher{
		cache:   c,
		fetcher: fetcher,
	}
}

// GetOrFetch returns the provider document for params, serving from cache
// when possible. Cache unavailability and corrupt entries degrade to a
// fetch; a failed store is logged and the fetched document returned anyway.
func (s *Searcher) GetOrFetch(ctx context.Context, params models.SearchParams) (json.RawMessage, bool, error) {
	if doc, found := s.cache.Get(ctx, params); found {
		log.Printf("search: cache hit for %s", cache.Key(params))
		return doc, true, nil
	}

	doc, err := s.fetcher.Fetch(ctx, params)
	if err != nil {
		return nil, false, err
	}

	if err := s.cache.Set(ctx, params, doc); err != nil {
		log.Printf("search: cache store failed for %s: %v", cache.Key(params), err)
	}

	return doc, false, nil
}

// SearchAll runs every variant through GetOrFetch concurrently and collects
// the outcomes in input order.
func (s *Searcher) SearchAll(ctx context.Context, paramsList []models.SearchParams) *Result {
	result := &Result{
		VariantsQueried: len(paramsList),
	}

	type variantOutcome struct {
		index    int
		doc      json.RawMessage
		cacheHit bool
		err      error
	}

	outcomeCh := make(chan variantOutcome, len(paramsList))
	var wg sync.WaitGroup

	for idx, params := range paramsList {
		wg.Add(1)
		go func(idx int, params models.SearchParams) {
			defer wg.Done()

			doc, cacheHit, err := s.GetOrFetch(ctx, params)
			outcomeCh <- variantOutcome{
				index:    idx,
				doc:      doc,
				cacheHit: cacheHit,
				err:      err,
			}
		}(idx, params)
	}

	go func() {
		wg.Wait()
		close(outcomeCh)
	}()

	variants := make([]models.VariantResult, len(paramsList))
	failed := make([]bool, len(paramsList))
	for outcome := range outcomeCh {
		params := paramsList[outcome.index]
		if outcome.err != nil {
			log.Printf("search: variant %s failed: %v", params.Route(), outcome.err)
			result.VariantsFailed++
			result.FailedVariants = append(result.FailedVariants, params.Route())
			failed[outcome.index] = true
			continue
		}

		result.VariantsSucceeded++
		if outcome.cacheHit {
			result.CacheHits++
		}
		variants[outcome.index] = models.VariantResult{
			Params:   params,
			CacheHit: outcome.cacheHit,
			Raw:      outcome.doc,
		}
	}

	for idx, variant := range variants {
		if !failed[idx] {
			result.Variants = append(result.Variants, variant)
		}
	}

	return result
}
