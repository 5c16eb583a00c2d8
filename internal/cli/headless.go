package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yildizm/NasaLens/internal/broadcast"
	"github.com/yildizm/NasaLens/internal/formatter"
	"github.com/yildizm/NasaLens/internal/viewmodel"
)

var errPipelineClosed = errors.New("pipeline closed before the search finished")

// pipeline is what a headless run needs from the view model
type pipeline interface {
	Process(intent viewmodel.Intent)
	State() *broadcast.Subscription[viewmodel.ViewState]
	Effects() *broadcast.Subscription[viewmodel.Effect]
}

// searchPlan describes a headless run
type searchPlan struct {
	query string
	// startPage 0 or 1 starts with a fresh search, higher values paginate directly
	startPage int
	pages     int
}

// runHeadless drives p like the interactive browser would and collects the
// loaded items. Every folded result produces exactly one state and one
// effect, so the n-th state after the replayed one pairs with the n-th effect.
func runHeadless(ctx context.Context, p pipeline, plan searchPlan) (*formatter.Report, error) {
	if plan.pages < 1 {
		plan.pages = 1
	}

	states := p.State()
	defer states.Unsubscribe()
	effects := p.Effects()
	defer effects.Unsubscribe()

	// replayed state
	if _, err := receive(ctx, states); err != nil {
		return nil, err
	}

	if plan.startPage > 1 {
		p.Process(viewmodel.Paginate{Page: plan.startPage, Query: plan.query})
	} else {
		p.Process(viewmodel.Search{Query: plan.query})
	}

	var (
		seen    int
		matched int
		fetched int
	)
	for {
		state, err := receive(ctx, states)
		if err != nil {
			return nil, err
		}
		seen++
		if state.IsLoading {
			continue
		}

		var effect viewmodel.Effect
		for matched < seen {
			if effect, err = receive(ctx, effects); err != nil {
				return nil, err
			}
			matched++
		}
		if e, ok := effect.(viewmodel.ShowError); ok {
			return nil, fmt.Errorf("search %q failed: %s", plan.query, e.Message)
		}

		fetched++
		if fetched < plan.pages && state.NextPage > 0 {
			p.Process(viewmodel.Paginate{Page: state.NextPage, Query: state.CurrentQuery})
			continue
		}

		return &formatter.Report{
			Query:        state.CurrentQuery,
			Items:        state.Items,
			PagesFetched: fetched,
			NextPage:     state.NextPage,
			GeneratedAt:  time.Now(),
		}, nil
	}
}

func receive[T any](ctx context.Context, sub *broadcast.Subscription[T]) (T, error) {
	select {
	case v, ok := <-sub.C():
		if !ok {
			var zero T
			return zero, errPipelineClosed
		}
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
