// Package viewmodel turns user intents into an ordered stream of view
// states and one-shot effects.
//
// Intents are consumed by a single goroutine in submission order. Each is
// mapped to results: synchronous ones go straight to the fold, fetches run
// on their own goroutine and report back when the search port returns.
// A single fold goroutine applies Reduce, caches the new state for replay
// and publishes the matching effect. Fetches are never cancelled by newer
// intents, so a slow earlier search can land after a later one.
package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yildizm/NasaLens/internal/broadcast"
	"github.com/yildizm/NasaLens/internal/images"
	"github.com/yildizm/NasaLens/internal/logger"
)

const (
	// DefaultIntentBuffer is how many intents may wait before the oldest is dropped
	DefaultIntentBuffer = 64
	resultBuffer        = 64
)

var errNilResult = errors.New("search port returned no result")

// Recorder observes folded results
type Recorder interface {
	RecordResult(kind string)
}

type nopRecorder struct{}

func (nopRecorder) RecordResult(string) {}

// Option configures a ViewModel
type Option func(*ViewModel)

// WithLogger sets the logger; the default discards output
func WithLogger(l *logger.Logger) Option {
	return func(vm *ViewModel) {
		if l != nil {
			vm.log = l.WithComponent("viewmodel")
		}
	}
}

// WithInitialQuery replaces DefaultQuery as the starting CurrentQuery
func WithInitialQuery(query string) Option {
	return func(vm *ViewModel) {
		if query != "" {
			vm.initial.CurrentQuery = query
		}
	}
}

// WithIntentBuffer sets the ingestion queue capacity
func WithIntentBuffer(n int) Option {
	return func(vm *ViewModel) {
		if n > 0 {
			vm.intentCap = n
		}
	}
}

// WithRecorder reports every folded result to r
func WithRecorder(r Recorder) Option {
	return func(vm *ViewModel) {
		if r != nil {
			vm.recorder = r
		}
	}
}

// ViewModel runs the intent pipeline. It starts on construction and runs
// until Close.
type ViewModel struct {
	port     images.SearchPort
	mapper   Mapper
	log      *logger.Logger
	recorder Recorder
	initial  ViewState

	intentMu     sync.Mutex
	pending      []Intent
	intentCap    int
	intentSignal chan struct{}

	results chan Result
	state   *broadcast.Replay[ViewState]
	effects *broadcast.Publisher[Effect]

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a view model and starts its pipeline
func New(port images.SearchPort, mapper Mapper, opts ...Option) *ViewModel {
	vm := &ViewModel{
		port:         port,
		mapper:       mapper,
		log:          logger.Nop(),
		recorder:     nopRecorder{},
		initial:      InitialState(),
		intentCap:    DefaultIntentBuffer,
		intentSignal: make(chan struct{}, 1),
		results:      make(chan Result, resultBuffer),
		effects:      broadcast.NewPublisher[Effect](),
	}
	for _, opt := range opts {
		opt(vm)
	}
	vm.state = broadcast.NewReplay(vm.initial)
	vm.ctx, vm.cancel = context.WithCancel(context.Background())

	vm.wg.Add(2)
	go vm.consumeIntents()
	go vm.fold()

	return vm
}

// Process submits an intent. It never blocks; when the queue is full the
// oldest pending intent is dropped. Intents after Close are ignored.
func (vm *ViewModel) Process(intent Intent) {
	if intent == nil || vm.ctx.Err() != nil {
		return
	}

	vm.intentMu.Lock()
	if len(vm.pending) >= vm.intentCap {
		dropped := vm.pending[0]
		vm.pending[0] = nil
		vm.pending = vm.pending[1:]
		vm.log.Warn("intent queue full, dropped %T", dropped)
	}
	vm.pending = append(vm.pending, intent)
	vm.intentMu.Unlock()

	select {
	case vm.intentSignal <- struct{}{}:
	default:
	}
}

// State subscribes to view states. The first value is the latest state.
func (vm *ViewModel) State() *broadcast.Subscription[ViewState] {
	return vm.state.Subscribe()
}

// Effects subscribes to effects produced from now on
func (vm *ViewModel) Effects() *broadcast.Subscription[Effect] {
	return vm.effects.Subscribe()
}

// CurrentState returns the latest state
func (vm *ViewModel) CurrentState() ViewState {
	return vm.state.Latest()
}

// Close stops the pipeline, cancels running fetches and closes every
// subscription. Fetches that still complete are discarded.
func (vm *ViewModel) Close() {
	vm.closeOnce.Do(func() {
		vm.cancel()
		vm.wg.Wait()
		vm.state.Close()
		vm.effects.Close()
		vm.log.Debug("pipeline closed")
	})
}

func (vm *ViewModel) consumeIntents() {
	defer vm.wg.Done()
	for {
		intent, ok := vm.nextIntent()
		if !ok {
			return
		}
		vm.dispatch(intent)
	}
}

func (vm *ViewModel) nextIntent() (Intent, bool) {
	for {
		vm.intentMu.Lock()
		if len(vm.pending) > 0 {
			intent := vm.pending[0]
			vm.pending[0] = nil
			vm.pending = vm.pending[1:]
			vm.intentMu.Unlock()
			return intent, true
		}
		vm.intentMu.Unlock()

		select {
		case <-vm.intentSignal:
		case <-vm.ctx.Done():
			return nil, false
		}
	}
}

func (vm *ViewModel) dispatch(intent Intent) {
	switch in := intent.(type) {
	case Search:
		if vm.emit(ContentLoading{}) {
			vm.fetch(in.Query, 0)
		}
	case Paginate:
		if vm.emit(Paginating{}) {
			vm.fetch(in.Query, in.Page)
		}
	case UpdateSearchQuery:
		vm.emit(SearchBarTextChanged(in))
	case TapItem:
		vm.emit(ItemTapped(in))
	default:
		vm.log.Warn("ignoring unknown intent %T", intent)
	}
}

// emit hands r to the fold; it gives up once the pipeline is closed
func (vm *ViewModel) emit(r Result) bool {
	select {
	case vm.results <- r:
		return true
	case <-vm.ctx.Done():
		return false
	}
}

func (vm *ViewModel) fetch(query string, page int) {
	fields := []logger.Field{
		logger.F("fetch", uuid.NewString()),
		logger.Query(query),
		logger.Page(page),
	}
	vm.log.DebugWithFields("fetch started", fields)

	go func() {
		start := time.Now()
		result, err := vm.execute(query, page)
		fields = append(fields, logger.Duration(time.Since(start)))
		if err != nil {
			vm.log.WarnWithFields("fetch failed", append(fields, logger.Error(err)))
			vm.emit(LoadingError{Err: err})
			return
		}
		vm.log.DebugWithFields("fetch completed", append(fields, logger.Count(len(result.Items))))
		vm.emit(ContentLoaded{Result: *result, Query: query})
	}()
}

func (vm *ViewModel) execute(query string, page int) (result *images.NasaImagesResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("search port panicked: %v", r)
		}
	}()

	result, err = vm.port.Execute(vm.ctx, query, page)
	if err == nil && result == nil {
		err = errNilResult
	}
	return result, err
}

func (vm *ViewModel) fold() {
	defer vm.wg.Done()

	state := vm.state.Latest()
	for {
		select {
		case <-vm.ctx.Done():
			return
		case r := <-vm.results:
			if vm.ctx.Err() != nil {
				return
			}
			state = Reduce(state, r, vm.mapper)
			vm.state.Publish(state)
			vm.effects.Publish(EffectFor(r, vm.mapper))
			vm.recorder.RecordResult(resultName(r))
		}
	}
}
