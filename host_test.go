package csvlate

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLogQueue(t *testing.T) {
	q := NewLogQueue(4)
	log := q.Logger()

	log("one")
	log("two")
	q.Close()
	q.Close() // idempotent

	var got []string
	for line := range q.Lines() {
		got = append(got, line)
	}

	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Errorf("Lines() = %v, want [one two]", got)
	}
}

func TestLogQueue_DrainedConcurrently(t *testing.T) {
	q := NewLogQueue(1)
	log := q.Logger()

	done := make(chan int)
	go func() {
		n := 0
		for range q.Lines() {
			n++
		}
		done <- n
	}()

	for i := 0; i < 100; i++ {
		log("line")
	}
	q.Close()

	n := <-done
	if int64(n)+q.Dropped() != 100 {
		t.Errorf("received %d and dropped %d lines, want 100 in total", n, q.Dropped())
	}
}

func TestLogQueue_FullBufferDoesNotBlock(t *testing.T) {
	q := NewLogQueue(2)
	log := q.Logger()

	finished := make(chan struct{})
	go func() {
		for _, line := range []string{"Processing a.csv", "Processing b.csv", "Processing c.csv"} {
			log(line)
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Logger blocked on a full buffer")
	}

	if q.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", q.Dropped())
	}
	q.Close()
	var got []string
	for line := range q.Lines() {
		got = append(got, line)
	}
	if len(got) != 2 || got[0] != "Processing a.csv" {
		t.Errorf("Lines() = %v, want the first two lines", got)
	}
}

func TestSupervisor_SingleActiveRun(t *testing.T) {
	var s Supervisor
	release := make(chan struct{})
	wantErr := errors.New("finished")

	done, err := s.Start(context.Background(), func(ctx context.Context) error {
		<-release
		return wantErr
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !s.Active() {
		t.Error("Expected supervisor to be active")
	}

	if _, err := s.Start(context.Background(), func(context.Context) error { return nil }); !errors.Is(err, ErrRunActive) {
		t.Errorf("Expected ErrRunActive, got %v", err)
	}

	close(release)
	if err := <-done; !errors.Is(err, wantErr) {
		t.Errorf("Expected job error, got %v", err)
	}
	if s.Active() {
		t.Error("Expected supervisor to be idle after job returned")
	}

	// A new run may start once the previous one finished.
	done, err = s.Start(context.Background(), func(context.Context) error { return nil })
	if err != nil {
		t.Fatalf("Second Start failed: %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestSupervisor_PassesContext(t *testing.T) {
	var s Supervisor
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done, err := s.Start(ctx, func(ctx context.Context) error {
		return ctx.Err()
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestLogger_LinesKeptVerbatim(t *testing.T) {
	var got []string
	log := Logger(func(line string) { got = append(got, line) })

	log.log("%s", "100% done, %d left")
	log.log("Processing %s", "50%.csv")
	Logger(nil).log("%s", "discarded")

	want := []string{"100% done, %d left", "Processing 50%.csv"}
	if len(got) != len(want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
