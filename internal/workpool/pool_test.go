package workpool

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNew_DefaultWorkers(t *testing.T) {
	p := New(0)
	defer p.Close()

	if p.Workers() != runtime.GOMAXPROCS(0) {
		t.Errorf("Workers: got %d, want %d", p.Workers(), runtime.GOMAXPROCS(0))
	}
}

func TestRun_ExecutesEveryTask(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		tasks   int
	}{
		{"single worker", 1, 10},
		{"more tasks than workers", 3, 100},
		{"more workers than tasks", 8, 2},
		{"empty batch", 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.workers)
			defer p.Close()

			results := make([]int, tt.tasks)
			tasks := make([]func(), tt.tasks)
			for i := range tasks {
				i := i
				tasks[i] = func() { results[i] = i * i }
			}

			p.Run(tasks)

			for i, got := range results {
				if got != i*i {
					t.Errorf("task %d: got %d, want %d", i, got, i*i)
				}
			}
		})
	}
}

func TestRun_IsABarrier(t *testing.T) {
	p := New(4)
	defer p.Close()

	var finished atomic.Int32
	tasks := make([]func(), 32)
	for i := range tasks {
		tasks[i] = func() {
			runtime.Gosched()
			finished.Add(1)
		}
	}

	p.Run(tasks)

	if finished.Load() != 32 {
		t.Errorf("Run returned before all tasks finished: %d/32", finished.Load())
	}
}

func TestRun_ConcurrentBatches(t *testing.T) {
	p := New(2)
	defer p.Close()

	var wg sync.WaitGroup
	sums := make([]int64, 4)
	for b := 0; b < 4; b++ {
		wg.Add(1)
		go func(b int) {
			defer wg.Done()
			var sum atomic.Int64
			tasks := make([]func(), 50)
			for i := range tasks {
				v := int64(i)
				tasks[i] = func() { sum.Add(v) }
			}
			p.Run(tasks)
			sums[b] = sum.Load()
		}(b)
	}
	wg.Wait()

	for b, s := range sums {
		if s != 49*50/2 {
			t.Errorf("batch %d: sum %d, want %d", b, s, 49*50/2)
		}
	}
}

func TestRun_AfterClose(t *testing.T) {
	p := New(2)
	p.Close()
	p.Close()

	ran := 0
	p.Run([]func(){func() { ran++ }, func() { ran++ }})
	if ran != 2 {
		t.Errorf("tasks after Close: ran %d, want 2", ran)
	}
}

func TestShared_IsSingleton(t *testing.T) {
	a := Shared()
	b := Shared()
	if a != b {
		t.Fatal("Shared returned different pools")
	}
	if a.Workers() < 1 {
		t.Errorf("Shared pool has %d workers", a.Workers())
	}
}
