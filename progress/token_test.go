package progress

import (
	"math"
	"sync"
	"testing"
	"time"
)

func TestProducerProgress(t *testing.T) {
	tok := NewToken[int]()
	p := tok.Producer()

	tests := []struct {
		set  float32
		want float32
	}{
		{0.25, 0.25},
		{0.5, 0.5},
		{0.4, 0.5}, // never lowered
		{2, 1},
		{-1, 1},
	}
	for _, tt := range tests {
		if !p.SetProgress(tt.set) {
			t.Fatalf("SetProgress(%v) = false", tt.set)
		}
		if got := tok.Progress(); got != tt.want {
			t.Errorf("after SetProgress(%v): Progress() = %v, want %v", tt.set, got, tt.want)
		}
	}

	q := NewToken[int]().Producer()
	q.SetProgress(float32(math.NaN()))
	if got := q.Progress(); got != 0 {
		t.Errorf("NaN progress stored as %v", got)
	}
}

func TestHandoffKeepsProgress(t *testing.T) {
	tok := NewToken[int]()
	old := tok.Producer()
	old.SetProgress(0.5)
	if got := tok.Progress(); got != 0.5 {
		t.Fatalf("Progress() = %v, want 0.5", got)
	}

	fresh := tok.Producer()
	if got := fresh.Progress(); got != 0.5 {
		t.Errorf("new producer Progress() = %v, want 0.5", got)
	}
	if got := tok.Progress(); got != 0.5 {
		t.Errorf("token Progress() after handoff = %v, want 0.5", got)
	}
	if !fresh.Proceeding() {
		t.Error("new producer should proceed")
	}

	// The old producer is retired.
	if old.SetProgress(0.9) || old.BeginFrame(0) || old.AppendFrame(1) || old.Proceeding() {
		t.Error("retired producer calls should return false")
	}
	if got := tok.Progress(); got != 0.5 {
		t.Errorf("retired producer moved progress to %v", got)
	}
	old.Finish()
	if tok.Finished() {
		t.Error("retired producer finished the token")
	}
}

func TestHandoffKeepsCallbacksAndStop(t *testing.T) {
	tok := NewToken[string]()
	var got []string
	tok.SetOnFrame(func(s string) bool {
		got = append(got, s)
		return true
	})
	tok.Producer()
	p := tok.Producer()
	if !p.AppendFrame("a") {
		t.Fatal("AppendFrame = false")
	}
	if len(got) != 1 || got[0] != "a" {
		t.Errorf("callback saw %v", got)
	}

	tok.Stop()
	q := tok.Producer()
	if q.Proceeding() {
		t.Error("stop was not carried over to the new producer")
	}
}

func TestStop(t *testing.T) {
	tok := NewToken[int]()
	p := tok.Producer()
	if !p.SetProgress(0.1) {
		t.Fatal("SetProgress before Stop = false")
	}
	tok.Stop()
	if tok.Proceeding() {
		t.Error("Proceeding() after Stop = true")
	}
	if p.SetProgress(0.2) {
		t.Error("SetProgress after Stop = true")
	}
	if p.BeginFrame(1) {
		t.Error("BeginFrame after Stop = true")
	}
	if p.AppendFrame(1) {
		t.Error("AppendFrame after Stop = true")
	}
	p.Finish()
	if !tok.Finished() {
		t.Error("Finish after Stop should still mark the token finished")
	}
	if got := tok.Progress(); got != 0.1 {
		t.Errorf("Progress() = %v, want 0.1", got)
	}
}

func TestCallbacksVeto(t *testing.T) {
	tests := []struct {
		name string
		set  func(*Token[int])
		call func(*Producer[int]) bool
	}{
		{
			"frame",
			func(tok *Token[int]) { tok.SetOnFrame(func(int) bool { return false }) },
			func(p *Producer[int]) bool { return p.AppendFrame(7) },
		},
		{
			"begin",
			func(tok *Token[int]) { tok.SetOnBegin(func(int) bool { return false }) },
			func(p *Producer[int]) bool { return p.BeginFrame(0) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewToken[int]()
			tt.set(tok)
			p := tok.Producer()
			if tt.call(p) {
				t.Error("vetoed call returned true")
			}
			if tok.Proceeding() || p.SetProgress(0.5) {
				t.Error("veto did not stop the decode")
			}
		})
	}
}

func TestFinishAndReset(t *testing.T) {
	tok := NewToken[int]()
	p := tok.Producer()
	p.SetProgress(0.3)
	p.Finish()
	if !tok.Finished() || tok.Progress() != 1 {
		t.Errorf("after Finish: finished=%v progress=%v", tok.Finished(), tok.Progress())
	}

	tok.Stop()
	tok.Reset()
	if tok.Finished() || tok.Progress() != 0 || !tok.Proceeding() {
		t.Error("Reset did not clear the state")
	}
	if q := tok.Producer(); !q.SetProgress(0.2) || tok.Progress() != 0.2 {
		t.Error("producer after Reset does not report")
	}
}

func TestDiscard(t *testing.T) {
	p := Discard[int]()
	if !p.SetProgress(0.5) || !p.BeginFrame(0) || !p.AppendFrame(1) {
		t.Error("Discard producer should always proceed")
	}
	p.Finish()
	if p.Progress() != 1 {
		t.Errorf("Progress() = %v, want 1", p.Progress())
	}
}

func TestConcurrentHandoff(t *testing.T) {
	tok := NewToken[int]()
	var wg sync.WaitGroup
	var last float32

	for range 8 {
		p := tok.Producer()
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := range 100 {
				if !p.SetProgress(float32(i) / 100) {
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for range 100 {
				_ = tok.Progress()
				_ = tok.Finished()
			}
		}()
		wg.Wait()

		// Progress never drops across a handoff.
		if got := tok.Progress(); got < last {
			t.Fatalf("progress dropped from %v to %v", last, got)
		} else {
			last = got
		}
	}
}

func TestCallbackStopsWhileConsumerReplacesIt(t *testing.T) {
	tok := NewToken[int]()
	entered := make(chan struct{})
	release := make(chan struct{})
	tok.SetOnFrame(func(int) bool {
		close(entered)
		<-release
		tok.Stop()
		return true
	})
	p := tok.Producer()

	done := make(chan bool, 1)
	go func() { done <- p.AppendFrame(1) }()
	<-entered

	replaced := make(chan struct{})
	go func() {
		tok.SetOnFrame(nil)
		close(replaced)
	}()
	select {
	case <-replaced:
	case <-time.After(2 * time.Second):
		t.Fatal("SetOnFrame blocked while a frame callback was running")
	}

	close(release)
	select {
	case ok := <-done:
		if ok {
			t.Error("AppendFrame = true after the callback called Stop")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("callback calling Stop never returned")
	}
	if tok.Proceeding() {
		t.Error("Proceeding() = true after Stop")
	}
}

func TestBeginCallbackStops(t *testing.T) {
	tok := NewToken[int]()
	tok.SetOnBegin(func(int) bool {
		tok.SetOnBegin(nil)
		tok.Stop()
		return true
	})
	p := tok.Producer()
	if p.BeginFrame(0) {
		t.Error("BeginFrame = true after the callback called Stop")
	}
}
