package viewmodel

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/NasaLens/internal/images"
	"github.com/yildizm/NasaLens/internal/presentation"
)

func testMapper() *presentation.Mapper {
	return presentation.NewMapper(presentation.WithLocation(time.UTC))
}

func dummyResult(prefix string, nextPage int) images.NasaImagesResult {
	created := time.Date(1996, 8, 29, 17, 29, 40, 0, time.UTC)
	items := make([]images.NasaImage, 3)
	for i := range items {
		items[i] = images.NasaImage{
			Title:        prefix + " title",
			Photographer: prefix + " photographer",
			Description:  prefix + " description",
			ImageURL:     "nasa.com/" + prefix,
			DateCreated:  &created,
		}
	}
	return images.NasaImagesResult{Items: items, NextPage: nextPage}
}

func TestReduce(t *testing.T) {
	mapper := testMapper()
	loaded := ViewState{
		Items:                   []presentation.DisplayImage{{Title: "a"}, {Title: "b"}},
		SearchBarText:           "mars",
		CurrentQuery:            "mars",
		HasInitialLoadCompleted: true,
		NextPage:                2,
	}

	tests := []struct {
		name   string
		prev   ViewState
		result Result
		check  func(t *testing.T, next ViewState)
	}{
		{
			name:   "content loading clears items",
			prev:   loaded,
			result: ContentLoading{},
			check: func(t *testing.T, next ViewState) {
				assert.Empty(t, next.Items)
				assert.NotNil(t, next.Items)
				assert.True(t, next.IsLoading)
				assert.Equal(t, "mars", next.CurrentQuery)
				assert.Equal(t, 2, next.NextPage)
			},
		},
		{
			name:   "paginating keeps items",
			prev:   loaded,
			result: Paginating{},
			check: func(t *testing.T, next ViewState) {
				assert.Len(t, next.Items, 2)
				assert.True(t, next.IsLoading)
			},
		},
		{
			name:   "content loaded appends and updates paging",
			prev:   loaded,
			result: ContentLoaded{Result: dummyResult("saturn", 0), Query: "saturn"},
			check: func(t *testing.T, next ViewState) {
				require.Len(t, next.Items, 5)
				assert.Equal(t, "a", next.Items[0].Title)
				assert.Equal(t, "saturn title", next.Items[2].Title)
				assert.Equal(t, "August 29, 1996", next.Items[4].FormattedDate)
				assert.False(t, next.IsLoading)
				assert.True(t, next.HasInitialLoadCompleted)
				assert.Zero(t, next.NextPage)
				assert.Equal(t, "saturn", next.CurrentQuery)
				assert.Equal(t, "mars", next.SearchBarText)
			},
		},
		{
			name:   "loading error stops loading and keeps items",
			prev:   ViewState{IsLoading: true, Items: loaded.Items, CurrentQuery: "mars"},
			result: LoadingError{Err: errors.New("offline")},
			check: func(t *testing.T, next ViewState) {
				assert.False(t, next.IsLoading)
				assert.True(t, next.HasInitialLoadCompleted)
				assert.Len(t, next.Items, 2)
			},
		},
		{
			name:   "search bar text changed",
			prev:   loaded,
			result: SearchBarTextChanged{Text: "jupiter"},
			check: func(t *testing.T, next ViewState) {
				assert.Equal(t, "jupiter", next.SearchBarText)
				assert.Equal(t, "mars", next.CurrentQuery)
			},
		},
		{
			name:   "item tapped changes nothing",
			prev:   loaded,
			result: ItemTapped{Item: presentation.DisplayImage{Title: "a"}},
			check: func(t *testing.T, next ViewState) {
				assert.Equal(t, loaded, next)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Reduce(tt.prev, tt.result, mapper))
		})
	}
}

func TestReduceDoesNotAlias(t *testing.T) {
	prev := ViewState{Items: make([]presentation.DisplayImage, 1, 10)}
	prev.Items[0] = presentation.DisplayImage{Title: "kept"}

	next := Reduce(prev, ContentLoaded{Result: dummyResult("x", 2), Query: "x"}, testMapper())
	next.Items[0].Title = "changed"

	assert.Equal(t, "kept", prev.Items[0].Title)
	assert.Len(t, prev.Items, 1)
}

func TestReduceItemCountIsSumOfLoadedPages(t *testing.T) {
	mapper := testMapper()
	state := InitialState()

	state = Reduce(state, ContentLoading{}, mapper)
	state = Reduce(state, ContentLoaded{Result: dummyResult("p1", 2), Query: "q"}, mapper)
	for page := 2; page <= 4; page++ {
		state = Reduce(state, Paginating{}, mapper)
		state = Reduce(state, ContentLoaded{Result: dummyResult("p", page+1), Query: "q"}, mapper)
	}

	assert.Len(t, state.Items, 12)
	assert.Equal(t, 5, state.NextPage)
	assert.True(t, state.CanPaginate())
}

func TestEffectFor(t *testing.T) {
	mapper := testMapper()
	item := presentation.DisplayImage{Title: "Apollo"}

	assert.Equal(t, ShowError{Message: mapper.ErrorMessage()}, EffectFor(LoadingError{Err: errors.New("x")}, mapper))
	assert.Equal(t, OpenDetails{Item: item}, EffectFor(ItemTapped{Item: item}, mapper))

	for _, r := range []Result{ContentLoading{}, Paginating{}, ContentLoaded{}, SearchBarTextChanged{}} {
		assert.Equal(t, NoEffect{}, EffectFor(r, mapper), "%T", r)
	}
}

func TestInitialState(t *testing.T) {
	s := InitialState()

	assert.Empty(t, s.Items)
	assert.Empty(t, s.SearchBarText)
	assert.False(t, s.IsLoading)
	assert.Equal(t, "earth", s.CurrentQuery)
	assert.False(t, s.HasInitialLoadCompleted)
	assert.Zero(t, s.NextPage)
	assert.False(t, s.CanPaginate())
}
