// Package images holds the domain model of the image catalog and the
// search boundary the view model talks to.
package images

import "time"

// NasaImage is one catalog entry
type NasaImage struct {
	Title        string
	Photographer string
	Description  string
	ImageURL     string
	// DateCreated is nil when the catalog has no date
	DateCreated *time.Time
}

// HasDate reports whether the catalog supplied a creation date
func (n NasaImage) HasDate() bool {
	return n.DateCreated != nil
}

// NasaImagesResult is one page of search results
type NasaImagesResult struct {
	Items []NasaImage
	// NextPage is the page to request next, 0 when there is none
	NextPage int
}

// HasNextPage reports whether another page can be requested
func (r *NasaImagesResult) HasNextPage() bool {
	return r != nil && r.NextPage > 0
}
