// Package presentation turns domain images into display-ready records and
// provides the localized strings the views show.
package presentation

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/yildizm/NasaLens/internal/images"
)

// DateLayout renders dates as e.g. "August 29, 1996". The full month name
// is written in the mapper's language.
const DateLayout = "January 02, 2006"

const (
	monthToken = "January"
	monthSlot  = "\x00"
)

// DisplayImage is an image as the views render it. Empty strings mean the
// catalog had no value for that field.
type DisplayImage struct {
	Title         string `json:"title,omitempty"`
	Photographer  string `json:"photographer,omitempty"`
	Description   string `json:"description,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
	FormattedDate string `json:"date,omitempty"`
}

// IsZero reports whether no field is set
func (d DisplayImage) IsZero() bool {
	return d == DisplayImage{}
}

// Mapper converts domain images for display. It is immutable after
// construction and safe for concurrent use.
type Mapper struct {
	location *time.Location
	layout   string
	tag      language.Tag
	printer  *message.Printer
}

// Option configures a Mapper
type Option func(*Mapper)

// WithLocation formats dates in loc instead of the local zone
func WithLocation(loc *time.Location) Option {
	return func(m *Mapper) {
		if loc != nil {
			m.location = loc
		}
	}
}

// WithLanguage selects the message language; unsupported tags fall back to English
func WithLanguage(tag language.Tag) Option {
	return func(m *Mapper) {
		_, index, _ := matcher.Match(tag)
		m.tag = SupportedLanguages[index]
	}
}

// WithDateLayout overrides DateLayout
func WithDateLayout(layout string) Option {
	return func(m *Mapper) {
		if layout != "" {
			m.layout = layout
		}
	}
}

// NewMapper creates a mapper using the local time zone and English by default
func NewMapper(opts ...Option) *Mapper {
	m := &Mapper{
		location: time.Local,
		layout:   DateLayout,
		tag:      language.English,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.printer = message.NewPrinter(m.tag, message.Catalog(messages))
	return m
}

// MapToPresentation converts img. It never fails; a missing date stays empty.
func (m *Mapper) MapToPresentation(img images.NasaImage) DisplayImage {
	display := DisplayImage{
		Title:        img.Title,
		Photographer: img.Photographer,
		Description:  img.Description,
		ImageURL:     img.ImageURL,
	}
	if img.HasDate() {
		display.FormattedDate = m.formatDate(*img.DateCreated)
	}
	return display
}

func (m *Mapper) formatDate(t time.Time) string {
	t = t.In(m.location)
	if !strings.Contains(m.layout, monthToken) {
		return t.Format(m.layout)
	}
	formatted := t.Format(strings.ReplaceAll(m.layout, monthToken, monthSlot))
	return strings.ReplaceAll(formatted, monthSlot, m.printer.Sprintf(monthKey(t.Month())))
}

// ErrorMessage is the user-facing text shown for any failed fetch
func (m *Mapper) ErrorMessage() string {
	return m.printer.Sprintf(KeyListError)
}

// Text returns the localized string for key, or key itself when unknown
func (m *Mapper) Text(key string) string {
	return m.printer.Sprintf(key)
}

// Language is the language messages are rendered in
func (m *Mapper) Language() language.Tag {
	return m.tag
}
