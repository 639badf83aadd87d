package pgx

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/pharmaguard/pharmaguard/internal/vcf"
)

// WorkItem holds one drug queued for analysis.
type WorkItem struct {
	Seq  int
	Drug Drug
}

// WorkResult holds the analysis output for a single drug.
type WorkResult struct {
	Seq    int
	Drug   Drug
	Result *Result
	Err    error
}

// DedupeDrugs normalizes raw drug names and removes duplicates, keeping
// the first occurrence in input order. Blank entries are dropped.
func DedupeDrugs(raw []string) []Drug {
	seen := make(map[Drug]struct{}, len(raw))
	drugs := make([]Drug, 0, len(raw))
	for _, r := range raw {
		d := Drug(strings.ToUpper(strings.TrimSpace(r)))
		if d == "" {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		drugs = append(drugs, d)
	}
	return drugs
}

// AnalyzeBatch evaluates each drug against the gene variants using a pool
// of workers and returns results in input order. A panic while evaluating
// any drug is recovered and fails the whole batch; no partial results are
// returned. If workers is 0, runtime.NumCPU() is used.
func (e *Engine) AnalyzeBatch(drugs []Drug, gv vcf.GeneVariants, workers int) ([]*Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(drugs) {
		workers = len(drugs)
	}
	if len(drugs) == 0 {
		return []*Result{}, nil
	}

	items := make(chan WorkItem, len(drugs))
	for i, d := range drugs {
		items <- WorkItem{Seq: i, Drug: d}
	}
	close(items)

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				results <- e.analyzeItem(item, gv)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]*Result, len(drugs))
	if err := OrderedCollect(results, func(r WorkResult) error {
		if r.Err != nil {
			return fmt.Errorf("analyzing %s: %w", r.Drug, r.Err)
		}
		ordered[r.Seq] = r.Result
		return nil
	}); err != nil {
		return nil, err
	}

	return ordered, nil
}

// analyzeItem wraps a single evaluation so a panicking rule path cannot
// take down the worker pool.
func (e *Engine) analyzeItem(item WorkItem, gv vcf.GeneVariants) (wr WorkResult) {
	wr = WorkResult{Seq: item.Seq, Drug: item.Drug}
	defer func() {
		if p := recover(); p != nil {
			wr.Result = nil
			wr.Err = fmt.Errorf("evaluation panicked: %v", p)
		}
	}()
	wr.Result = e.AnalyzeDrug(item.Drug, gv)
	return wr
}

// OrderedCollect hands results to fn in ascending Seq order. A result that
// finishes early is held aside until every lower sequence number has been
// emitted. Runs until the channel closes; if fn fails, the channel is
// drained first so producing workers never block on send.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	held := make(map[int]WorkResult)
	next := 0

	for r := range results {
		held[r.Seq] = r

		for {
			emit, ok := held[next]
			if !ok {
				break
			}
			delete(held, next)
			next++
			if err := fn(emit); err != nil {
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
