package parallel

import (
	"fmt"
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	for _, workers := range []int{0, 1, 4, 64} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			var counter int64
			seen := make([]int32, 1000)
			For(len(seen), func(i int) {
				atomic.AddInt64(&counter, 1)
				atomic.AddInt32(&seen[i], 1)
			}, Config{Workers: workers})

			if counter != int64(len(seen)) {
				t.Errorf("Expected %d, got %d", len(seen), counter)
			}
			for i, n := range seen {
				if n != 1 {
					t.Fatalf("item %d ran %d times", i, n)
				}
			}
		})
	}
}

func TestFor_Empty(t *testing.T) {
	For(0, func(int) { t.Fatal("called for an empty range") }, DefaultConfig())
}

func TestMap(t *testing.T) {
	got, err := Map(5, func(i int) (int, error) { return i * i, nil }, Config{Workers: 3})
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	for i, v := range got {
		if v != i*i {
			t.Errorf("got[%d] = %d, want %d", i, v, i*i)
		}
	}
}

func TestMap_FirstErrorByIndex(t *testing.T) {
	errOdd := func(i int) error { return fmt.Errorf("item %d", i) }
	var ran atomic.Int32
	_, err := Map(10, func(i int) (int, error) {
		ran.Add(1)
		if i%2 == 1 {
			return 0, errOdd(i)
		}
		return i, nil
	}, Config{Workers: 4})

	if err == nil || err.Error() != "item 1" {
		t.Errorf("Map() error = %v, want item 1", err)
	}
	if ran.Load() != 10 {
		t.Errorf("ran %d items, want 10", ran.Load())
	}
}

func BenchmarkFor(b *testing.B) {
	n := 10000

	b.Run("parallel", func(b *testing.B) {
		cfg := DefaultConfig()
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfg := Config{Workers: 1}
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfg)
		}
	})
}
