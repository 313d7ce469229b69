// Package parallel runs independent work items on a bounded set of goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Config controls parallel execution behavior.
type Config struct {
	Workers int // Number of worker goroutines; below 2 runs sequentially.
}

// DefaultConfig returns one worker per CPU.
func DefaultConfig() Config {
	return Config{Workers: runtime.NumCPU()}
}

// For executes f(i) for i in [0, n). Items are handed out one at a time, so
// a slow item never holds up a batch of others.
func For(n int, f func(i int), cfg Config) {
	if cfg.Workers < 2 || n < 2 {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var (
		wg   sync.WaitGroup
		next atomic.Int64
	)
	for range min(cfg.Workers, n) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1) - 1)
				if i >= n {
					return
				}
				f(i)
			}
		}()
	}
	wg.Wait()
}

// Map executes f(i) for i in [0, n) and returns the results in index order.
// Every item runs; the error of the lowest failing index is returned.
func Map[T any](n int, f func(i int) (T, error), cfg Config) ([]T, error) {
	out := make([]T, n)
	errs := make([]error, n)
	For(n, func(i int) {
		out[i], errs[i] = f(i)
	}, cfg)
	for _, err := range errs {
		if err != nil {
			return out, err
		}
	}
	return out, nil
}
