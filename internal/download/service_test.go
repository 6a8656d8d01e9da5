package download

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ytget/ytdown/internal/format"
	"github.com/ytget/ytdown/internal/model"
)

// recorder collects published events
type recorder struct {
	mu     sync.Mutex
	events []model.JobEvent
}

func (r *recorder) Publish(ev model.JobEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) snapshot() []model.JobEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.JobEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) forURL(url string) []model.JobEvent {
	var out []model.JobEvent
	for _, ev := range r.snapshot() {
		if ev.JobURL() == url {
			out = append(out, ev)
		}
	}
	return out
}

// fakeEngine scripts engine behavior per URL
type fakeEngine struct {
	mu        sync.Mutex
	executed  []string
	titles    map[string]string
	metaErr   map[string]error
	execErr   map[string]error
	panicOn   map[string]bool
	reported  map[string]string
	progress  map[string][]RawProgress
	lastOpts  format.EngineOptions
	inFlight  int
	maxFlight int
	delay     time.Duration
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		titles:   map[string]string{},
		metaErr:  map[string]error{},
		execErr:  map[string]error{},
		panicOn:  map[string]bool{},
		reported: map[string]string{},
		progress: map[string][]RawProgress{},
	}
}

func (f *fakeEngine) ResolveMetadata(ctx context.Context, url string) (*Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.metaErr[url]; err != nil {
		return nil, err
	}
	return &Metadata{Title: f.titles[url]}, nil
}

func (f *fakeEngine) Execute(ctx context.Context, url string, opts format.EngineOptions, onProgress ProgressFunc) (*Result, error) {
	f.mu.Lock()
	f.executed = append(f.executed, url)
	f.lastOpts = opts
	f.inFlight++
	if f.inFlight > f.maxFlight {
		f.maxFlight = f.inFlight
	}
	updates := f.progress[url]
	err := f.execErr[url]
	shouldPanic := f.panicOn[url]
	reported, ok := f.reported[url]
	delay := f.delay
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if delay > 0 {
		time.Sleep(delay)
	}
	for _, u := range updates {
		onProgress(u)
	}
	if shouldPanic {
		panic("engine exploded")
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		reported = "/downloads/" + url + ".webm"
	}
	return &Result{ReportedPath: reported}, nil
}

func (f *fakeEngine) executedURLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.executed))
	copy(out, f.executed)
	return out
}

func newTestService(engine Engine, pub Publisher) *Service {
	return NewService(Options{
		Catalog:   format.Default(),
		Engine:    engine,
		Publisher: pub,
		Logger:    zerolog.Nop(),
	})
}

// runUntilDrained submits the sentinel and runs the worker to completion
func runUntilDrained(t *testing.T, svc *Service) {
	t.Helper()
	svc.queue.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := svc.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}

func TestServiceSuccessfulAudioJob(t *testing.T) {
	engine := newFakeEngine()
	engine.titles["a"] = "Song"
	engine.reported["a"] = "/downloads/Song.webm"
	engine.progress["a"] = []RawProgress{
		{Status: ProgressStatusDownloading, PercentText: "\x1b[0;94m 10.0%\x1b[0m"},
		{Status: ProgressStatusDownloading, PercentText: "N/A"},
		{Status: ProgressStatusDownloading, PercentText: " 99.9%"},
		{Status: ProgressStatusFinished, PercentText: "100%"},
		{Status: "post_processing"},
	}
	rec := &recorder{}
	svc := newTestService(engine, rec)

	svc.Submit("a", format.KeyAAC)
	runUntilDrained(t, svc)

	expected := []model.JobEvent{
		model.TitleResolved{URL: "a", Title: "Song"},
		model.Progress{URL: "a", Percent: 10},
		model.Progress{URL: "a", Percent: 99},
		model.StatusChanged{URL: "a", Message: model.StatusConverting},
		model.StatusChanged{URL: "a", Message: model.StatusComplete},
		model.Finished{URL: "a", FilePath: "/downloads/Song.m4a"},
	}
	got := rec.snapshot()
	if len(got) != len(expected) {
		t.Fatalf("expected %d events, got %d: %#v", len(expected), len(got), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("event %d: expected %#v, got %#v", i, expected[i], got[i])
		}
	}

	if !engine.lastOpts.ExtractAudio || engine.lastOpts.AudioCodec != format.CodecM4A || engine.lastOpts.AudioQuality != "0" {
		t.Errorf("unexpected engine options: %#v", engine.lastOpts)
	}
}

func TestServiceVideoKeepsReportedPath(t *testing.T) {
	engine := newFakeEngine()
	engine.reported["v"] = "/downloads/Clip.mp4"
	rec := &recorder{}
	svc := newTestService(engine, rec)

	svc.Submit("v", format.KeyMP4)
	runUntilDrained(t, svc)

	events := rec.forURL("v")
	last, ok := events[len(events)-1].(model.Finished)
	if !ok {
		t.Fatalf("expected Finished as last event, got %#v", events[len(events)-1])
	}
	if last.FilePath != "/downloads/Clip.mp4" {
		t.Errorf("expected reported path unchanged, got %s", last.FilePath)
	}
}

func TestServiceUnsupportedFormat(t *testing.T) {
	engine := newFakeEngine()
	engine.titles["x"] = "Title"
	rec := &recorder{}
	svc := newTestService(engine, rec)

	svc.Submit("x", "flac")
	runUntilDrained(t, svc)

	if n := len(engine.executedURLs()); n != 0 {
		t.Fatalf("expected zero engine invocations, got %d", n)
	}

	terminal := 0
	for _, ev := range rec.forURL("x") {
		switch e := ev.(type) {
		case model.StatusChanged:
			if e.IsError() {
				terminal++
				if e.Message != "Error: Unsupported format: flac" {
					t.Errorf("unexpected message %q", e.Message)
				}
			}
		case model.Finished:
			t.Error("unexpected Finished event")
		}
	}
	if terminal != 1 {
		t.Errorf("expected exactly one terminal status, got %d", terminal)
	}
}

func TestServiceMetadataFailureStillDownloads(t *testing.T) {
	engine := newFakeEngine()
	engine.metaErr["m"] = errors.New("video unavailable")
	rec := &recorder{}
	svc := newTestService(engine, rec)

	svc.Submit("m", format.KeyMP3)
	runUntilDrained(t, svc)

	events := rec.forURL("m")
	first, ok := events[0].(model.StatusChanged)
	if !ok || first.Message != "Error: video unavailable" {
		t.Fatalf("expected metadata error first, got %#v", events[0])
	}
	if len(engine.executedURLs()) != 1 {
		t.Fatal("expected download to be attempted after metadata failure")
	}
	if _, ok := events[len(events)-1].(model.Finished); !ok {
		t.Errorf("expected Finished last, got %#v", events[len(events)-1])
	}
}

func TestServiceEngineFailureDoesNotStallQueue(t *testing.T) {
	engine := newFakeEngine()
	engine.execErr["a"] = errors.New("network is unreachable")
	engine.panicOn["b"] = true
	rec := &recorder{}
	svc := newTestService(engine, rec)

	svc.Submit("a", format.KeyMP4)
	svc.Submit("b", format.KeyMP4)
	svc.Submit("c", format.KeyMP4)
	runUntilDrained(t, svc)

	executed := engine.executedURLs()
	if fmt.Sprint(executed) != "[a b c]" {
		t.Fatalf("expected execution order [a b c], got %v", executed)
	}

	lastA := rec.forURL("a")
	if e, ok := lastA[len(lastA)-1].(model.StatusChanged); !ok || e.Message != "Error: network is unreachable" {
		t.Errorf("expected terminal network error for a, got %#v", lastA[len(lastA)-1])
	}
	lastB := rec.forURL("b")
	if e, ok := lastB[len(lastB)-1].(model.StatusChanged); !ok || e.Message != "Error: engine panic: engine exploded" {
		t.Errorf("expected terminal panic error for b, got %#v", lastB[len(lastB)-1])
	}
	lastC := rec.forURL("c")
	if _, ok := lastC[len(lastC)-1].(model.Finished); !ok {
		t.Errorf("expected c to finish, got %#v", lastC[len(lastC)-1])
	}
}

func TestServiceStrictOrderOneAtATime(t *testing.T) {
	engine := newFakeEngine()
	engine.delay = 10 * time.Millisecond
	rec := &recorder{}
	svc := newTestService(engine, rec)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	for _, u := range []string{"a", "b", "c"} {
		svc.Submit(u, format.KeyMP4)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := svc.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("Shutdown returned error: %v", err)
	}

	if engine.maxFlight != 1 {
		t.Errorf("expected one job in flight at a time, got %d", engine.maxFlight)
	}

	// each job's terminal event precedes the first event of the next job
	var order []string
	seen := map[string]bool{}
	for _, ev := range rec.snapshot() {
		if !seen[ev.JobURL()] {
			seen[ev.JobURL()] = true
			order = append(order, ev.JobURL())
		}
		if len(order) > 0 && order[len(order)-1] != ev.JobURL() {
			t.Fatalf("events of %s interleaved with %s", ev.JobURL(), order[len(order)-1])
		}
	}
	if fmt.Sprint(order) != "[a b c]" {
		t.Errorf("expected event order [a b c], got %v", order)
	}
}

func TestServiceNoOutputIsError(t *testing.T) {
	engine := newFakeEngine()
	engine.reported["n"] = "  "
	rec := &recorder{}
	svc := newTestService(engine, rec)

	svc.Submit("n", format.KeyMP4)
	runUntilDrained(t, svc)

	events := rec.forURL("n")
	e, ok := events[len(events)-1].(model.StatusChanged)
	if !ok || e.Message != "Error: "+ErrNoOutput.Error() {
		t.Errorf("expected no-output error, got %#v", events[len(events)-1])
	}
}

func TestServiceLateProgressDropped(t *testing.T) {
	var captured ProgressFunc
	engine := &captureEngine{onExecute: func(fn ProgressFunc) { captured = fn }}
	rec := &recorder{}
	svc := newTestService(engine, rec)

	svc.Submit("late", format.KeyMP4)
	runUntilDrained(t, svc)

	before := len(rec.snapshot())
	captured(RawProgress{Status: ProgressStatusDownloading, PercentText: "50%"})
	if len(rec.snapshot()) != before {
		t.Error("expected progress after terminal event to be dropped")
	}
}

type captureEngine struct {
	onExecute func(ProgressFunc)
}

func (c *captureEngine) ResolveMetadata(ctx context.Context, url string) (*Metadata, error) {
	return &Metadata{}, nil
}

func (c *captureEngine) Execute(ctx context.Context, url string, opts format.EngineOptions, onProgress ProgressFunc) (*Result, error) {
	c.onExecute(onProgress)
	return &Result{ReportedPath: "/d/late.mp4"}, nil
}

func TestServiceRunTwice(t *testing.T) {
	svc := newTestService(newFakeEngine(), &recorder{})
	runUntilDrained(t, svc)

	if err := svc.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestServiceRunCancelled(t *testing.T) {
	svc := newTestService(newFakeEngine(), &recorder{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := svc.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestJobErrorMatching(t *testing.T) {
	cause := errors.New("boom")
	err := error(&JobError{Stage: ErrEngine, Err: cause})

	if err.Error() != "boom" {
		t.Errorf("expected detail-only message, got %q", err.Error())
	}
	if !errors.Is(err, ErrEngine) || !errors.Is(err, cause) {
		t.Error("expected JobError to match stage and cause")
	}
	if errors.Is(err, ErrMetadata) {
		t.Error("did not expect metadata stage match")
	}
}

func TestFinalPath(t *testing.T) {
	catalog := format.Default()
	mp4, _ := catalog.Lookup(format.KeyMP4)
	mp3, _ := catalog.Lookup(format.KeyMP3)
	aac, _ := catalog.Lookup(format.KeyAAC64)

	tests := []struct {
		reported string
		spec     format.Spec
		expected string
	}{
		{"song.webm", aac, "song.m4a"},
		{"/d/My.Song.webm", mp3, "/d/My.Song.mp3"},
		{"/d/noext", mp3, "/d/noext.mp3"},
		{"/d/clip.mp4", mp4, "/d/clip.mp4"},
	}

	for _, tt := range tests {
		if got := FinalPath(tt.reported, tt.spec); got != tt.expected {
			t.Errorf("FinalPath(%q, %s) = %q, expected %q", tt.reported, tt.spec.Key, got, tt.expected)
		}
	}
}
