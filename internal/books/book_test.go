package books

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) Book {
	t.Helper()
	var b Book
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	return b
}

func TestBook_DecodesCleanRecord(t *testing.T) {
	b := decode(t, `{
		"id": "abc",
		"title": "Dune",
		"author": "Frank Herbert",
		"rating": 4.5,
		"categories": ["Science Fiction", "Classics"],
		"publishedYear": 1965,
		"pageCount": 412
	}`)

	assert.Equal(t, "abc", b.ID)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, 4.5, b.Rating)
	assert.Equal(t, []string{"Science Fiction", "Classics"}, b.Categories)
	assert.Equal(t, 1965, b.Year)
	assert.Equal(t, 412, b.PageCount)
}

func TestBook_CoercesStringNumbers(t *testing.T) {
	b := decode(t, `{
		"id": 42,
		"rating": "4.2",
		"publishedYear": "1999",
		"pageCount": "350.0"
	}`)

	assert.Equal(t, "42", b.ID)
	assert.Equal(t, 4.2, b.Rating)
	assert.Equal(t, 1999, b.Year)
	assert.Equal(t, 350, b.PageCount)
}

func TestBook_UnparseableNumbersDecodeAsZero(t *testing.T) {
	b := decode(t, `{
		"id": "x",
		"rating": "not a number",
		"publishedYear": "unknown"
	}`)

	assert.Zero(t, b.Rating)
	assert.Zero(t, b.Year)
}

func TestBook_NullFieldsAreEmpty(t *testing.T) {
	b := decode(t, `{
		"id": "x",
		"title": null,
		"author": null,
		"rating": null,
		"categories": null
	}`)

	assert.Empty(t, b.Title)
	assert.Empty(t, b.Author)
	assert.Zero(t, b.Rating)
	assert.Nil(t, b.Categories)
}

func TestBook_SplitsDelimitedCategories(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"comma separated", `{"categories": "Fantasy, Adventure"}`, []string{"Fantasy", "Adventure"}},
		{"semicolon separated", `{"categories": "Horror; Gothic"}`, []string{"Horror", "Gothic"}},
		{"ampersand separated", `{"categories": "Mystery & Thriller"}`, []string{"Mystery", "Thriller"}},
		{"single value", `{"categories": "Poetry"}`, []string{"Poetry"}},
		{"empty string", `{"categories": ""}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := decode(t, tt.raw)
			assert.Equal(t, tt.want, b.Categories)
		})
	}
}

func TestBook_AcceptsSnakeCaseAliases(t *testing.T) {
	b := decode(t, `{
		"id": "x",
		"published_year": 2001,
		"page_count": 200
	}`)

	assert.Equal(t, 2001, b.Year)
	assert.Equal(t, 200, b.PageCount)
}

func TestBook_TrimsWhitespace(t *testing.T) {
	b := decode(t, `{
		"id": "  x  ",
		"title": "  Padded Title  ",
		"categories": [" Fantasy ", ""]
	}`)

	assert.Equal(t, "x", b.ID)
	assert.Equal(t, "Padded Title", b.Title)
	assert.Equal(t, []string{"Fantasy"}, b.Categories)
}
