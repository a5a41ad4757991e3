package repository

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tirasundara/settlement-optimizer/internal/domain"
)

const defaultNumWorkers = 4

// MultiBalanceRepository merges several balance sources. Sources are loaded
// concurrently by a small worker pool; the merged result follows source order.
type MultiBalanceRepository struct {
	repos      []domain.BalanceRepository
	NumWorkers int
}

var _ domain.BalanceRepository = (*MultiBalanceRepository)(nil)

// NewMultiBalanceRepository creates a MultiBalanceRepository over repos
func NewMultiBalanceRepository(repos ...domain.BalanceRepository) *MultiBalanceRepository {
	return &MultiBalanceRepository{
		repos:      repos,
		NumWorkers: defaultNumWorkers,
	}
}

// Source joins the names of all sources with commas
func (r *MultiBalanceRepository) Source() string {
	names := make([]string, len(r.repos))
	for i, repo := range r.repos {
		names[i] = repo.Source()
	}
	return strings.Join(names, ",")
}

type loadResult struct {
	index    int
	balances domain.Balances
	err      error
}

// GetBalances loads every source and merges them in source order
func (r *MultiBalanceRepository) GetBalances() (domain.Balances, error) {
	numWorkers := r.NumWorkers
	if numWorkers <= 0 {
		numWorkers = 1
	}

	jobs := make(chan int, len(r.repos))
	results := make(chan loadResult, len(r.repos))

	// Start the worker pool
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				balances, err := r.repos[idx].GetBalances()
				results <- loadResult{index: idx, balances: balances, err: err}
			}
		}()
	}

	for i := range r.repos {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect by position so the merge does not depend on completion order
	loaded := make([]domain.Balances, len(r.repos))
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("source %s: %w", r.repos[res.index].Source(), res.err)
			}
			continue
		}
		loaded[res.index] = res.balances
	}
	if firstErr != nil {
		return domain.Balances{}, firstErr
	}

	var merged domain.Balances
	for _, b := range loaded {
		merged.Payers = append(merged.Payers, b.Payers...)
		merged.Receivers = append(merged.Receivers, b.Receivers...)
	}

	return merged, nil
}
