// Package books defines the book model shared across the recommendation
// pipeline. Records arrive from the vector index with loosely typed metadata,
// so decoding is deliberately tolerant: numbers may be strings, categories may
// be a single delimited string, and empty strings count as missing.
package books

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Book is a single book record.
type Book struct {
	ID          string   `json:"id"`
	Title       string   `json:"title,omitempty"`
	Author      string   `json:"author,omitempty"`
	Description string   `json:"description,omitempty"`
	Rating      float64  `json:"rating"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Categories  []string `json:"categories"`
	Year        int      `json:"publishedYear,omitempty"`
	PageCount   int      `json:"pageCount,omitempty"`
	RatingsCount int     `json:"ratingsCount,omitempty"`
	ISBN        string   `json:"isbn,omitempty"`
	Language    string   `json:"language,omitempty"`
	Publisher   string   `json:"publisher,omitempty"`

	// Fields populated by the ranking and explanation stages, never stored.
	ConfidenceScore     float64  `json:"confidence_score,omitempty"`
	RelevanceIndicators []string `json:"relevance_indicators,omitempty"`
	Explanation         string   `json:"explanation,omitempty"`
}

// UnmarshalJSON decodes a book from index metadata, coercing mixed types.
func (b *Book) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID           flexString `json:"id"`
		Title        flexString `json:"title"`
		Author       flexString `json:"author"`
		Description  flexString `json:"description"`
		Rating       flexFloat  `json:"rating"`
		Thumbnail    flexString `json:"thumbnail"`
		Categories   flexList   `json:"categories"`
		Year         flexInt    `json:"publishedYear"`
		YearAlt      flexInt    `json:"published_year"`
		PageCount    flexInt    `json:"pageCount"`
		PageCountAlt flexInt    `json:"page_count"`
		RatingsCount flexInt    `json:"ratingsCount"`
		ISBN         flexString `json:"isbn"`
		Language     flexString `json:"language"`
		Publisher    flexString `json:"publisher"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.ID = string(raw.ID)
	b.Title = string(raw.Title)
	b.Author = string(raw.Author)
	b.Description = string(raw.Description)
	b.Rating = float64(raw.Rating)
	b.Thumbnail = string(raw.Thumbnail)
	b.Categories = raw.Categories
	b.Year = firstInt(int(raw.Year), int(raw.YearAlt))
	b.PageCount = firstInt(int(raw.PageCount), int(raw.PageCountAlt))
	b.RatingsCount = int(raw.RatingsCount)
	b.ISBN = string(raw.ISBN)
	b.Language = string(raw.Language)
	b.Publisher = string(raw.Publisher)
	return nil
}

func firstInt(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

// flexString decodes a JSON string, number, or null into a string.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	switch {
	case len(data) == 0 || string(data) == "null":
		*s = ""
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(strings.TrimSpace(v))
	default:
		*s = flexString(strings.TrimSpace(string(data)))
	}
	return nil
}

// flexFloat decodes a JSON number or numeric string into a float64.
// Unparseable values decode as zero rather than failing the record.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// flexInt decodes a JSON integer, float, or numeric string into an int.
type flexInt int

func (i *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*i = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*i = 0
		return nil
	}
	*i = flexInt(int(v))
	return nil
}

// flexList decodes a JSON array of strings or a single delimited string.
// String values split on the separators seen in the source data.
type flexList []string

func (l *flexList) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var items []flexString
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			if s := strings.TrimSpace(string(it)); s != "" {
				out = append(out, s)
			}
		}
		*l = out
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*l = splitCategories(v)
	return nil
}

func splitCategories(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.FieldsFunc(v, func(r rune) bool {
		switch r {
		case ',', ';', '|', '&':
			return true
		}
		return false
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
