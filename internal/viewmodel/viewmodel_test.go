package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/NasaLens/internal/broadcast"
	"github.com/yildizm/NasaLens/internal/images"
	"github.com/yildizm/NasaLens/internal/presentation"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type portCall struct {
	query string
	page  int
}

type fakePort struct {
	mu      sync.Mutex
	calls   []portCall
	handler func(ctx context.Context, query string, page int) (*images.NasaImagesResult, error)
}

func (f *fakePort) Execute(ctx context.Context, query string, page int) (*images.NasaImagesResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, portCall{query: query, page: page})
	handler := f.handler
	f.mu.Unlock()

	if handler == nil {
		r := dummyResult(query, 2)
		return &r, nil
	}
	return handler(ctx, query, page)
}

func (f *fakePort) Calls() []portCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]portCall(nil), f.calls...)
}

type collector[T any] struct {
	mu     sync.Mutex
	values []T
}

func collect[T any](t *testing.T, sub *broadcast.Subscription[T]) *collector[T] {
	t.Helper()
	c := &collector[T]{}
	go func() {
		for v := range sub.C() {
			c.mu.Lock()
			c.values = append(c.values, v)
			c.mu.Unlock()
		}
	}()
	t.Cleanup(sub.Unsubscribe)
	return c
}

func (c *collector[T]) Values() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.values...)
}

func (c *collector[T]) WaitLen(t *testing.T, n int) []T {
	t.Helper()
	require.Eventually(t, func() bool { return len(c.Values()) >= n }, waitFor, tick,
		"expected at least %d values", n)
	return c.Values()
}

func newViewModel(t *testing.T, port images.SearchPort, opts ...Option) *ViewModel {
	t.Helper()
	vm := New(port, testMapper(), opts...)
	t.Cleanup(vm.Close)
	return vm
}

func TestStartsWithDefaultState(t *testing.T) {
	port := &fakePort{}
	vm := newViewModel(t, port)

	states := collect(t, vm.State()).WaitLen(t, 1)

	assert.Equal(t, InitialState(), states[0])
	assert.Empty(t, port.Calls(), "subscribing triggers no fetch")
}

func TestInitialQueryOption(t *testing.T) {
	vm := newViewModel(t, &fakePort{}, WithInitialQuery("nebula"))
	assert.Equal(t, "nebula", vm.CurrentState().CurrentQuery)
}

func TestSearchLoadingSequence(t *testing.T) {
	vm := newViewModel(t, &fakePort{})
	states := collect(t, vm.State())

	vm.Process(Search{Query: "jupiter"})

	got := states.WaitLen(t, 3)
	assert.False(t, got[0].IsLoading)
	assert.True(t, got[1].IsLoading)
	assert.Empty(t, got[1].Items)
	assert.False(t, got[2].IsLoading)
}

func TestSearchLoadsItems(t *testing.T) {
	port := &fakePort{}
	vm := newViewModel(t, port)
	states := collect(t, vm.State())

	vm.Process(Search{Query: "mars"})

	final := states.WaitLen(t, 3)[2]
	require.Len(t, final.Items, 3)
	assert.Equal(t, presentation.DisplayImage{
		Title:         "mars title",
		Photographer:  "mars photographer",
		Description:   "mars description",
		ImageURL:      "nasa.com/mars",
		FormattedDate: "August 29, 1996",
	}, final.Items[0])
	assert.Equal(t, "mars", final.CurrentQuery)
	assert.Equal(t, 2, final.NextPage)
	assert.True(t, final.HasInitialLoadCompleted)
	assert.Equal(t, []portCall{{query: "mars", page: 0}}, port.Calls())
}

func TestSearchClearsPreviousItems(t *testing.T) {
	vm := newViewModel(t, &fakePort{})
	states := collect(t, vm.State())

	vm.Process(Search{Query: "earth"})
	states.WaitLen(t, 3)
	vm.Process(Search{Query: "saturn"})

	got := states.WaitLen(t, 5)
	assert.Len(t, got[2].Items, 3)
	assert.Empty(t, got[3].Items)
	assert.True(t, got[3].IsLoading)
	assert.Len(t, got[4].Items, 3)
	assert.Equal(t, "earth", got[2].CurrentQuery)
	assert.Equal(t, "saturn", got[4].CurrentQuery)
}

func TestPaginateAppends(t *testing.T) {
	port := &fakePort{}
	vm := newViewModel(t, port)
	states := collect(t, vm.State())

	vm.Process(Search{Query: "moon"})
	first := states.WaitLen(t, 3)[2]
	vm.Process(Paginate{Page: first.NextPage, Query: first.CurrentQuery})

	got := states.WaitLen(t, 5)
	assert.True(t, got[3].IsLoading)
	assert.Len(t, got[3].Items, 3, "pagination keeps existing items while loading")
	assert.Len(t, got[4].Items, 6)
	assert.False(t, got[4].IsLoading)
	assert.Equal(t, []portCall{{"moon", 0}, {"moon", 2}}, port.Calls())
}

func TestPaginateFailureKeepsItems(t *testing.T) {
	port := &fakePort{handler: func(_ context.Context, query string, page int) (*images.NasaImagesResult, error) {
		if page > 0 {
			return nil, errors.New("503 service unavailable")
		}
		r := dummyResult(query, 2)
		return &r, nil
	}}
	vm := newViewModel(t, port)
	states := collect(t, vm.State())
	effects := collect(t, vm.Effects())

	vm.Process(Search{Query: "saturn"})
	loaded := states.WaitLen(t, 3)[2]
	require.Len(t, loaded.Items, 3)

	vm.Process(Paginate{Page: 2, Query: "saturn"})

	got := states.WaitLen(t, 5)
	assert.True(t, got[3].IsLoading)
	assert.Equal(t, loaded.Items, got[3].Items)

	failed := got[4]
	assert.False(t, failed.IsLoading)
	assert.True(t, failed.HasInitialLoadCompleted)
	assert.Equal(t, loaded.Items, failed.Items, "a failed page keeps what was loaded")
	assert.Equal(t, "saturn", failed.CurrentQuery)
	assert.Equal(t, 2, failed.NextPage)

	effects.WaitLen(t, 4)
	time.Sleep(50 * time.Millisecond)
	effs := effects.Values()
	require.Len(t, effs, 4)
	assert.Equal(t, []Effect{NoEffect{}, NoEffect{}, NoEffect{}, ShowError{Message: testMapper().ErrorMessage()}}, effs)
	assert.Equal(t, []portCall{{"saturn", 0}, {"saturn", 2}}, port.Calls())
}

func TestUpdateSearchQueryDoesNotFetch(t *testing.T) {
	port := &fakePort{}
	vm := newViewModel(t, port)
	states := collect(t, vm.State())

	vm.Process(UpdateSearchQuery{Text: "jupiter"})

	got := states.WaitLen(t, 2)
	assert.Equal(t, "", got[0].SearchBarText)
	assert.Equal(t, "jupiter", got[1].SearchBarText)
	assert.Empty(t, port.Calls())
}

func TestSearchFailure(t *testing.T) {
	port := &fakePort{handler: func(context.Context, string, int) (*images.NasaImagesResult, error) {
		return nil, errors.New("connection refused")
	}}
	vm := newViewModel(t, port)
	states := collect(t, vm.State())
	effects := collect(t, vm.Effects())

	vm.Process(Search{Query: "pluto"})

	got := states.WaitLen(t, 3)
	assert.False(t, got[2].IsLoading)
	assert.True(t, got[2].HasInitialLoadCompleted)
	assert.Empty(t, got[2].Items)

	effs := effects.WaitLen(t, 2)
	assert.Equal(t, NoEffect{}, effs[0])
	assert.Equal(t, ShowError{Message: testMapper().ErrorMessage()}, effs[1])

	time.Sleep(50 * time.Millisecond)
	showErrors := 0
	for _, e := range effects.Values() {
		if _, ok := e.(ShowError); ok {
			showErrors++
		}
	}
	assert.Equal(t, 1, showErrors, "exactly one error effect")
}

func TestPortPanicBecomesLoadingError(t *testing.T) {
	port := &fakePort{handler: func(context.Context, string, int) (*images.NasaImagesResult, error) {
		panic("kaboom")
	}}
	vm := newViewModel(t, port)
	effects := collect(t, vm.Effects())

	vm.Process(Search{Query: "x"})

	effs := effects.WaitLen(t, 2)
	assert.IsType(t, ShowError{}, effs[1])
	assert.Eventually(t, func() bool { return !vm.CurrentState().IsLoading }, waitFor, tick)
}

func TestNilResultBecomesLoadingError(t *testing.T) {
	port := &fakePort{handler: func(context.Context, string, int) (*images.NasaImagesResult, error) {
		return nil, nil
	}}
	vm := newViewModel(t, port)
	effects := collect(t, vm.Effects())

	vm.Process(Search{Query: "x"})

	assert.IsType(t, ShowError{}, effects.WaitLen(t, 2)[1])
}

func TestTapItemOpensDetails(t *testing.T) {
	vm := newViewModel(t, &fakePort{})
	states := collect(t, vm.State())
	effects := collect(t, vm.Effects())
	item := presentation.DisplayImage{Title: "Pale Blue Dot", ImageURL: "nasa.com/dot"}

	vm.Process(TapItem{Item: item})

	effs := effects.WaitLen(t, 1)
	assert.Equal(t, OpenDetails{Item: item}, effs[0])
	got := states.WaitLen(t, 2)
	assert.Equal(t, got[0], got[1], "tapping does not change the state")
}

func TestEffectsAreNotReplayed(t *testing.T) {
	vm := newViewModel(t, &fakePort{})
	early := collect(t, vm.Effects())

	vm.Process(TapItem{Item: presentation.DisplayImage{Title: "a"}})
	early.WaitLen(t, 1)

	late := collect(t, vm.Effects())
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, late.Values())
}

func TestStateIsReplayedToLateSubscribers(t *testing.T) {
	port := &fakePort{}
	vm := newViewModel(t, port)
	states := collect(t, vm.State())

	vm.Process(Search{Query: "venus"})
	loaded := states.WaitLen(t, 3)[2]

	a := collect(t, vm.State()).WaitLen(t, 1)
	b := collect(t, vm.State()).WaitLen(t, 1)

	assert.Equal(t, loaded, a[0])
	assert.Equal(t, loaded, b[0])
	assert.Equal(t, loaded, vm.CurrentState())
	assert.Len(t, port.Calls(), 1, "subscribing does not refetch")
}

func TestProcessNeverBlocksAndKeepsNewest(t *testing.T) {
	vm := newViewModel(t, &fakePort{}, WithIntentBuffer(4))

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5000; i++ {
			vm.Process(UpdateSearchQuery{Text: fmt.Sprintf("q%d", i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("Process blocked")
	}
	assert.Eventually(t, func() bool { return vm.CurrentState().SearchBarText == "q4999" }, waitFor, tick)
}

func TestIntentsAreProcessedInOrder(t *testing.T) {
	vm := newViewModel(t, &fakePort{})
	states := collect(t, vm.State())

	for i := 0; i < 20; i++ {
		vm.Process(UpdateSearchQuery{Text: fmt.Sprintf("t%02d", i)})
	}

	got := states.WaitLen(t, 21)
	for i := 0; i < 20; i++ {
		assert.Equal(t, fmt.Sprintf("t%02d", i), got[i+1].SearchBarText)
	}
}

func TestOverlappingSearchesAreNotSuperseded(t *testing.T) {
	release := make(chan struct{})
	port := &fakePort{handler: func(_ context.Context, query string, _ int) (*images.NasaImagesResult, error) {
		if query == "slow" {
			<-release
		}
		r := dummyResult(query, 2)
		return &r, nil
	}}
	vm := newViewModel(t, port)
	states := collect(t, vm.State())

	vm.Process(Search{Query: "slow"})
	vm.Process(Search{Query: "fast"})
	require.Eventually(t, func() bool { return vm.CurrentState().CurrentQuery == "fast" }, waitFor, tick)

	close(release)

	got := states.WaitLen(t, 5)
	final := got[4]
	assert.Equal(t, "slow", final.CurrentQuery, "late completion of the earlier search wins")
	assert.Len(t, final.Items, 6, "results of both searches are appended")
}

func TestCloseDiscardsLateResults(t *testing.T) {
	started := make(chan struct{})
	cancelled := make(chan struct{})
	release := make(chan struct{})
	port := &fakePort{handler: func(ctx context.Context, query string, _ int) (*images.NasaImagesResult, error) {
		close(started)
		<-ctx.Done()
		close(cancelled)
		<-release
		r := dummyResult(query, 2)
		return &r, nil
	}}
	vm := New(port, testMapper())
	states := collect(t, vm.State())

	vm.Process(Search{Query: "late"})
	<-started
	states.WaitLen(t, 2)

	vm.Close()
	select {
	case <-cancelled:
	case <-time.After(waitFor):
		t.Fatal("in-flight fetch was not cancelled")
	}
	close(release)
	time.Sleep(50 * time.Millisecond)

	assert.Len(t, states.Values(), 2, "nothing is folded after Close")
	assert.True(t, vm.CurrentState().IsLoading)
	assert.Empty(t, vm.CurrentState().Items)

	vm.Process(Search{Query: "ignored"})
	assert.Len(t, port.Calls(), 1)

	sub := vm.State()
	select {
	case _, ok := <-sub.C():
		assert.False(t, ok, "subscriptions after Close are closed")
	case <-time.After(waitFor):
		t.Fatal("subscription after Close not closed")
	}
}

type countingRecorder struct {
	mu    sync.Mutex
	kinds map[string]int
}

func (c *countingRecorder) RecordResult(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kinds == nil {
		c.kinds = make(map[string]int)
	}
	c.kinds[kind]++
}

func (c *countingRecorder) get(kind string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kinds[kind]
}

func TestRecorderSeesEveryResult(t *testing.T) {
	rec := &countingRecorder{}
	vm := newViewModel(t, &fakePort{}, WithRecorder(rec))

	vm.Process(Search{Query: "titan"})
	vm.Process(UpdateSearchQuery{Text: "ti"})

	assert.Eventually(t, func() bool {
		return rec.get("content_loaded") == 1 && rec.get("search_bar_text_changed") == 1
	}, waitFor, tick)
	assert.Equal(t, 1, rec.get("content_loading"))
}
