package catalog

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/yildizm/NasaLens/internal/images"
)

// SearchResponse is the body of GET /search
type SearchResponse struct {
	Collection Collection `json:"collection"`
}

// Collection holds one page of items and the paging links
type Collection struct {
	Items []Item `json:"items"`
	Links []Link `json:"links,omitempty"`
}

// Item is one catalog entry with its metadata records and asset links
type Item struct {
	Data  []Data `json:"data"`
	Links []Link `json:"links,omitempty"`
}

// Data is a metadata record of an item
type Data struct {
	Title        string   `json:"title,omitempty"`
	Photographer string   `json:"photographer,omitempty"`
	Description  string   `json:"description,omitempty"`
	DateCreated  *Instant `json:"date_created,omitempty"`
}

// instantPattern is an ISO-8601 date-time with seconds and an explicit zone
var instantPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)

// Instant is a point in time as the catalog writes it. Empty and zone-less
// values are rejected; JSON null leaves the field unset.
type Instant struct {
	strfmt.DateTime
}

// parseInstant parses s as an Instant
func parseInstant(s string) (Instant, error) {
	if !instantPattern.MatchString(s) {
		return Instant{}, fmt.Errorf("invalid instant %q: want a date-time with a zone", s)
	}
	dt, err := strfmt.ParseDateTime(s)
	if err != nil {
		return Instant{}, fmt.Errorf("invalid instant %q: %w", s, err)
	}
	return Instant{DateTime: dt}, nil
}

// UnmarshalJSON implements json.Unmarshaler
func (i *Instant) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := parseInstant(raw)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Time returns the instant as a time.Time
func (i Instant) Time() time.Time {
	return time.Time(i.DateTime)
}

// Link is a hyperlink with a relation
type Link struct {
	Href string `json:"href"`
	Rel  string `json:"rel,omitempty"`
}

// ToDomain converts the response. Only the first data record and the first
// link of an item are used.
func (r *SearchResponse) ToDomain() *images.NasaImagesResult {
	result := &images.NasaImagesResult{
		Items:    make([]images.NasaImage, 0, len(r.Collection.Items)),
		NextPage: nextPage(r.Collection.Links),
	}
	for _, item := range r.Collection.Items {
		result.Items = append(result.Items, item.toDomain())
	}
	return result
}

func (i Item) toDomain() images.NasaImage {
	var img images.NasaImage
	if len(i.Data) > 0 {
		d := i.Data[0]
		img.Title = d.Title
		img.Photographer = d.Photographer
		img.Description = d.Description
		if d.DateCreated != nil {
			created := d.DateCreated.Time()
			img.DateCreated = &created
		}
	}
	if len(i.Links) > 0 {
		img.ImageURL = i.Links[0].Href
	}
	return img
}

// nextPage reads the page parameter of the first "next" link, 0 if missing
func nextPage(links []Link) int {
	for _, link := range links {
		if link.Rel != "next" {
			continue
		}
		u, err := url.Parse(link.Href)
		if err != nil {
			return 0
		}
		page, err := strconv.Atoi(u.Query().Get("page"))
		if err != nil || page < 1 {
			return 0
		}
		return page
	}
	return 0
}
