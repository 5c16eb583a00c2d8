package viewmodel

import "github.com/yildizm/NasaLens/internal/presentation"

// Reduce folds result into prev and returns the next snapshot. It is pure:
// prev is never modified and the returned Items never share storage with it.
func Reduce(prev ViewState, result Result, mapper Mapper) ViewState {
	next := prev

	switch r := result.(type) {
	case ContentLoading:
		next.Items = []presentation.DisplayImage{}
		next.IsLoading = true
	case Paginating:
		next.IsLoading = true
	case ContentLoaded:
		items := make([]presentation.DisplayImage, 0, len(prev.Items)+len(r.Result.Items))
		items = append(items, prev.Items...)
		for _, img := range r.Result.Items {
			items = append(items, mapper.MapToPresentation(img))
		}
		next.Items = items
		next.IsLoading = false
		next.HasInitialLoadCompleted = true
		next.NextPage = r.Result.NextPage
		next.CurrentQuery = r.Query
	case LoadingError:
		next.IsLoading = false
		next.HasInitialLoadCompleted = true
	case SearchBarTextChanged:
		next.SearchBarText = r.Text
	case ItemTapped:
		// navigation happens through the effect
	}

	return next
}

// EffectFor projects result to the effect the view should perform
func EffectFor(result Result, mapper Mapper) Effect {
	switch r := result.(type) {
	case LoadingError:
		return ShowError{Message: mapper.ErrorMessage()}
	case ItemTapped:
		return OpenDetails{Item: r.Item}
	default:
		return NoEffect{}
	}
}

func resultName(result Result) string {
	switch result.(type) {
	case ContentLoading:
		return "content_loading"
	case Paginating:
		return "paginating"
	case ContentLoaded:
		return "content_loaded"
	case LoadingError:
		return "loading_error"
	case SearchBarTextChanged:
		return "search_bar_text_changed"
	case ItemTapped:
		return "item_tapped"
	default:
		return "unknown"
	}
}
