package viewmodel

import (
	"github.com/yildizm/NasaLens/internal/images"
	"github.com/yildizm/NasaLens/internal/presentation"
)

// Intent is a user action submitted through Process
type Intent interface {
	isIntent()
}

// Search starts a fresh search, replacing the current items
type Search struct {
	Query string
}

// UpdateSearchQuery mirrors the search bar text into the state
type UpdateSearchQuery struct {
	Text string
}

// TapItem asks to open the details of an item
type TapItem struct {
	Item presentation.DisplayImage
}

// Paginate loads another page of Query and appends it
type Paginate struct {
	Page  int
	Query string
}

func (Search) isIntent()            {}
func (UpdateSearchQuery) isIntent() {}
func (TapItem) isIntent()           {}
func (Paginate) isIntent()          {}

// Result is produced from intents and folded into the state
type Result interface {
	isResult()
}

// ContentLoading marks the start of a fresh search
type ContentLoading struct{}

// Paginating marks the start of a page load
type Paginating struct{}

// ContentLoaded carries a fetched page and the query that produced it
type ContentLoaded struct {
	Result images.NasaImagesResult
	Query  string
}

// LoadingError reports a failed fetch
type LoadingError struct {
	Err error
}

// SearchBarTextChanged carries new search bar text
type SearchBarTextChanged struct {
	Text string
}

// ItemTapped carries the item the user opened
type ItemTapped struct {
	Item presentation.DisplayImage
}

func (ContentLoading) isResult()       {}
func (Paginating) isResult()           {}
func (ContentLoaded) isResult()        {}
func (LoadingError) isResult()         {}
func (SearchBarTextChanged) isResult() {}
func (ItemTapped) isResult()           {}

// Effect is a one-shot instruction for the view
type Effect interface {
	isEffect()
}

// ShowError asks the view to show Message once
type ShowError struct {
	Message string
}

// OpenDetails asks the view to navigate to Item
type OpenDetails struct {
	Item presentation.DisplayImage
}

// NoEffect is emitted for results that need no view action
type NoEffect struct{}

func (ShowError) isEffect()   {}
func (OpenDetails) isEffect() {}
func (NoEffect) isEffect()    {}

// DefaultQuery is searched when nothing else was asked for
const DefaultQuery = "earth"

// ViewState is an immutable snapshot of everything the list view renders
type ViewState struct {
	Items                   []presentation.DisplayImage
	SearchBarText           string
	IsLoading               bool
	CurrentQuery            string
	HasInitialLoadCompleted bool
	// NextPage is 0 when no further page is known
	NextPage int
}

// InitialState is the state before any result was folded
func InitialState() ViewState {
	return ViewState{
		Items:        []presentation.DisplayImage{},
		CurrentQuery: DefaultQuery,
	}
}

// CanPaginate reports whether another page may be requested now
func (s ViewState) CanPaginate() bool {
	return s.NextPage > 0 && !s.IsLoading
}

// Mapper is what the pipeline needs from the presentation layer
type Mapper interface {
	MapToPresentation(img images.NasaImage) presentation.DisplayImage
	ErrorMessage() string
}
