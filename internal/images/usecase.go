package images

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyQuery is returned for blank search terms
	ErrEmptyQuery = errors.New("search query must not be empty")
	// ErrInvalidPage is returned for negative page numbers
	ErrInvalidPage = errors.New("page must not be negative")
)

// Repository fetches one page of images from a remote catalog.
// Page 0 means "first page, no explicit page parameter".
type Repository interface {
	GetImages(ctx context.Context, query string, page int) (*NasaImagesResult, error)
}

// SearchPort is the only way the view model reaches the catalog
type SearchPort interface {
	Execute(ctx context.Context, query string, page int) (*NasaImagesResult, error)
}

// SearchFunc adapts a plain function to SearchPort
type SearchFunc func(ctx context.Context, query string, page int) (*NasaImagesResult, error)

// Execute calls f
func (f SearchFunc) Execute(ctx context.Context, query string, page int) (*NasaImagesResult, error) {
	return f(ctx, query, page)
}

// UseCase is the default SearchPort. It checks its inputs and delegates to
// the repository exactly once.
type UseCase struct {
	repo Repository
}

// NewUseCase creates a search use case backed by repo
func NewUseCase(repo Repository) *UseCase {
	return &UseCase{repo: repo}
}

// Execute runs a search for query at page
func (u *UseCase) Execute(ctx context.Context, query string, page int) (*NasaImagesResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if page < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}

	result, err := u.repo.GetImages(ctx, query, page)
	if err != nil {
		return nil, fmt.Errorf("search %q page %d: %w", query, page, err)
	}
	return result, nil
}
