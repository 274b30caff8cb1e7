package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func flexNum(v float64) *FlexNumber {
	f := FlexNumber(v)
	return &f
}

// TestNormalizeYear ensures the year of publication resolution order
// across the three sources and the current-year fallback.
func TestNormalizeYear(t *testing.T) {
	mapper := NewBookMapper(NewMockClocker())
	currentYear := NewMockClocker().Now().Year()

	testCases := []struct {
		name     string
		book     BackendBook
		expected int
	}{
		{
			"created wins when plausible",
			BackendBook{Created: "1998", PublishedYear: flexNum(2005)},
			1998,
		},
		{
			"created with spaces",
			BackendBook{Created: "  2011  "},
			2011,
		},
		{
			"created as float",
			BackendBook{Created: "1998.0"},
			1998,
		},
		{
			"created zero falls through",
			BackendBook{Created: "0", PublishedYear: flexNum(2005)},
			2005,
		},
		{
			"created garbage falls through",
			BackendBook{Created: "not-a-year", PublishedYear: flexNum(2005)},
			2005,
		},
		{
			"created too far in future falls through",
			BackendBook{Created: "3000", PublishedYear: flexNum(2005)},
			2005,
		},
		{
			"created negative falls through",
			BackendBook{Created: "-5", Publishing: flexNum(1987)},
			1987,
		},
		{
			"publishing used when publishedYear missing",
			BackendBook{Publishing: flexNum(1999)},
			1999,
		},
		{
			"publishedYear preferred over publishing",
			BackendBook{PublishedYear: flexNum(2001), Publishing: flexNum(1999)},
			2001,
		},
		{
			"everything empty falls back on current year",
			BackendBook{},
			currentYear,
		},
		{
			"all sources zero fall back on current year",
			BackendBook{Created: "", PublishedYear: flexNum(0), Publishing: flexNum(0)},
			currentYear,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, mapper.NormalizeYear(tc.book))
		})
	}
}

// TestNormalizeBook ensures defaults are applied and the output stays
// stable when normalizing the same record twice.
func TestNormalizeBook(t *testing.T) {
	mapper := NewBookMapper(NewMockClocker())

	t.Run("defaults", func(t *testing.T) {
		book := mapper.NormalizeBook(BackendBook{
			ID:            "cb8f2136-fae4-4200-85d9-3533c7f8c70d",
			Title:         "Dead Souls",
			Author:        "Nikolai Gogol",
			Created:       "1842",
			CoverImageURL: "https://img.example.com/gogol.jpg",
		})
		assert.Equal(t, "Other", book.Genre)
		assert.Equal(t, "Russian", book.Language)
		assert.Equal(t, 1842, book.PublishedYear)
		assert.True(t, book.IsAvailable)
		assert.Equal(t, "https://img.example.com/gogol.jpg", book.ImageURL)
		assert.Equal(t, "2025-07-02T00:00:00Z", book.CreatedAt)
		assert.Equal(t, "2025-07-02T00:00:00Z", book.UpdatedAt)
	})

	t.Run("explicit values kept", func(t *testing.T) {
		isAvailable := false
		book := mapper.NormalizeBook(BackendBook{
			Genre:       "Novel",
			Language:    "English",
			Price:       flexNum(12.5),
			PageCount:   flexNum(320),
			ImageURL:    "https://img.example.com/a.jpg",
			IsAvailable: &isAvailable,
		})
		assert.Equal(t, "Novel", book.Genre)
		assert.Equal(t, "English", book.Language)
		assert.Equal(t, 12.5, book.Price)
		assert.Equal(t, 320, book.PageCount)
		assert.Equal(t, "https://img.example.com/a.jpg", book.ImageURL)
		assert.False(t, book.IsAvailable)
	})

	t.Run("stable on repeated runs", func(t *testing.T) {
		raw := BackendBook{Title: "War and Peace", Created: "1869"}
		first := mapper.NormalizeBook(raw)
		second := mapper.NormalizeBook(raw)
		assert.Equal(t, first, second)
	})
}

// TestFlexNumberDecoding ensures the loose backend payloads decode
// through the flexible numeric type.
func TestFlexNumberDecoding(t *testing.T) {
	var book BackendBook
	payload := `{"title":"T","created":1984,"publishedYear":"2001","price":"12.99","pageCount":null}`
	err := json.Unmarshal([]byte(payload), &book)
	assert.NoError(t, err)
	assert.Equal(t, FlexString("1984"), book.Created)
	assert.Equal(t, FlexNumber(2001), *book.PublishedYear)
	assert.Equal(t, FlexNumber(12.99), *book.Price)
	assert.Nil(t, book.PageCount)

	// A null on a value field goes through the decoder and decays to zero.
	var line struct {
		Quantity FlexNumber `json:"quantity"`
	}
	err = json.Unmarshal([]byte(`{"quantity":null}`), &line)
	assert.NoError(t, err)
	assert.Equal(t, FlexNumber(0), line.Quantity)
}

// TestBuildBackendPayload ensures the admin form is validated and
// reshaped the way the backend expects.
func TestBuildBackendPayload(t *testing.T) {
	mapper := NewBookMapper(NewMockClocker())

	t.Run("should fail: missing title", func(t *testing.T) {
		_, err := mapper.BuildBackendPayload(BookForm{Title: "   ", Author: "A"})
		assert.EqualError(t, err, "title is required")
	})

	t.Run("should fail: missing author", func(t *testing.T) {
		_, err := mapper.BuildBackendPayload(BookForm{Title: "T", Author: ""})
		assert.EqualError(t, err, "author is required")
	})

	t.Run("year serialized into created", func(t *testing.T) {
		payload, err := mapper.BuildBackendPayload(BookForm{Title: "T", Author: "A", PublishedYear: flexNum(1998)})
		assert.NoError(t, err)
		assert.Equal(t, "1998", payload.Created)
	})

	t.Run("provided created kept", func(t *testing.T) {
		payload, err := mapper.BuildBackendPayload(BookForm{Title: "T", Author: "A", Created: "1842", PublishedYear: flexNum(1998)})
		assert.NoError(t, err)
		assert.Equal(t, "1842", payload.Created)
	})

	t.Run("current year when no year given", func(t *testing.T) {
		payload, err := mapper.BuildBackendPayload(BookForm{Title: "T", Author: "A"})
		assert.NoError(t, err)
		assert.Equal(t, "2025", payload.Created)
	})

	t.Run("availability defaults to true", func(t *testing.T) {
		payload, err := mapper.BuildBackendPayload(BookForm{Title: "T", Author: "A"})
		assert.NoError(t, err)
		assert.True(t, payload.IsAvailable)

		isAvailable := false
		payload, err = mapper.BuildBackendPayload(BookForm{Title: "T", Author: "A", IsAvailable: &isAvailable})
		assert.NoError(t, err)
		assert.False(t, payload.IsAvailable)
	})

	t.Run("price passthrough", func(t *testing.T) {
		payload, err := mapper.BuildBackendPayload(BookForm{Title: "T", Author: "A"})
		assert.NoError(t, err)
		assert.Nil(t, payload.Price)

		payload, err = mapper.BuildBackendPayload(BookForm{Title: "T", Author: "A", Price: flexNum(9.99)})
		assert.NoError(t, err)
		assert.Equal(t, 9.99, *payload.Price)
	})
}

// TestNormalizeRole ensures the polymorphic role values map onto the
// canonical names and everything else is rejected.
func TestNormalizeRole(t *testing.T) {
	testCases := []struct {
		name     string
		value    interface{}
		expected string
		wantErr  bool
	}{
		{"admin lowercase", "admin", RoleAdmin, false},
		{"admin canonical", "Admin", RoleAdmin, false},
		{"admin uppercase", "ADMIN", RoleAdmin, false},
		{"admin padded", "  Admin  ", RoleAdmin, false},
		{"user lowercase", "user", RoleUser, false},
		{"user canonical", "User", RoleUser, false},
		{"numeric one", float64(1), RoleAdmin, false},
		{"numeric zero", float64(0), RoleUser, false},
		{"string one", "1", RoleAdmin, false},
		{"string zero", "0", RoleUser, false},
		{"unknown string", "moderator", "", true},
		{"unknown number", float64(2), "", true},
		{"nil", nil, "", true},
		{"boolean", true, "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			role, err := NormalizeRole(tc.value)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, role)
		})
	}
}
