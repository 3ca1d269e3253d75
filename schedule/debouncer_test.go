package schedule

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerRunsOnlyLastTrigger(t *testing.T) {
	d := New(50 * time.Millisecond)
	var (
		mu  sync.Mutex
		ran []string
	)
	done := make(chan struct{})
	record := func(name string) func() {
		return func() {
			mu.Lock()
			ran = append(ran, name)
			mu.Unlock()
			if name == "second" {
				close(done)
			}
		}
	}

	d.Trigger(record("first"))
	time.Sleep(10 * time.Millisecond)
	d.Trigger(record("second"))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second job never ran")
	}
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(ran) != 1 || ran[0] != "second" {
		t.Fatalf("expected only second job to run, got %v", ran)
	}
}

func TestDebouncerNeverOverlapsJobs(t *testing.T) {
	d := New(10 * time.Millisecond)
	var (
		running atomic.Int32
		peak    atomic.Int32
		count   atomic.Int32
	)
	job := func() {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(60 * time.Millisecond)
		running.Add(-1)
		count.Add(1)
	}

	d.Trigger(job)
	time.Sleep(30 * time.Millisecond) // 第一个任务正在运行
	d.Trigger(job)

	deadline := time.Now().Add(2 * time.Second)
	for count.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := count.Load(); got != 2 {
		t.Fatalf("expected 2 completed jobs, got %d", got)
	}
	if got := peak.Load(); got != 1 {
		t.Fatalf("expected at most one running job, peak was %d", got)
	}
}

func TestDebouncerStop(t *testing.T) {
	d := New(20 * time.Millisecond)
	var ran atomic.Bool
	d.Trigger(func() { ran.Store(true) })
	d.Stop()
	d.Trigger(func() { ran.Store(true) })
	time.Sleep(80 * time.Millisecond)
	if ran.Load() {
		t.Fatal("no job should run after Stop")
	}
}

func TestNewDefaultsWindow(t *testing.T) {
	if got := New(0).Window(); got != DefaultWindow {
		t.Fatalf("expected default window %v, got %v", DefaultWindow, got)
	}
}
