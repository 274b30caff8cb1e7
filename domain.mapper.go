package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Canonical role names the backend understands.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// BookMapper converts between the backend's loose book representation
// and the strict record used by the UI. It owns a clock because the
// year-of-publication fallback and the record timestamps depend on the
// current calendar time.
type BookMapper struct {
	clock Clocker
}

// NewBookMapper provides an instance of BookMapper.
func NewBookMapper(clock Clocker) *BookMapper {
	return &BookMapper{clock: clock}
}

// NormalizeYear resolves the year of publication from a backend record.
// The string field `created` wins when it parses to a plausible year,
// meaning a positive number not further than ten years in the future.
// Otherwise the numeric `publishedYear` then `publishing` fields are
// taken when positive. When nothing yields a valid year the current
// calendar year is used, so the result is always a positive integer.
func (m *BookMapper) NormalizeYear(b BackendBook) int {
	current := m.clock.Now().Year()

	if s := strings.TrimSpace(string(b.Created)); s != "" && s != "0" {
		if y, err := strconv.ParseFloat(s, 64); err == nil && y > 0 && y <= float64(current+10) {
			return int(y)
		}
	}

	if b.PublishedYear != nil && *b.PublishedYear > 0 {
		return int(*b.PublishedYear)
	}

	if b.Publishing != nil && *b.Publishing > 0 {
		return int(*b.Publishing)
	}

	return current
}

// NormalizeBook builds the strict book record out of a backend one.
// Missing fields get their documented defaults and the timestamps
// always reflect call time, not whatever the backend stored.
func (m *BookMapper) NormalizeBook(b BackendBook) Book {
	now := m.clock.Now().UTC().Format(time.RFC3339)

	description := b.Description
	isbn := b.ISBN

	genre := b.Genre
	if genre == "" {
		genre = "Other"
	}

	language := b.Language
	if language == "" {
		language = "Russian"
	}

	var pageCount int
	if b.PageCount != nil {
		pageCount = int(*b.PageCount)
	}

	var price float64
	if b.Price != nil {
		price = float64(*b.Price)
	}

	imageURL := b.ImageURL
	if imageURL == "" {
		imageURL = b.CoverImageURL
	}

	isAvailable := true
	if b.IsAvailable != nil {
		isAvailable = *b.IsAvailable
	}

	return Book{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Description:   description,
		ISBN:          isbn,
		PublishedYear: m.NormalizeYear(b),
		Genre:         genre,
		Language:      language,
		PageCount:     pageCount,
		Price:         price,
		ImageURL:      imageURL,
		IsAvailable:   isAvailable,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// BuildBackendPayload turns an admin form submission into the payload
// the backend expects. Title and author are mandatory after trimming.
// The effective year of publication is serialized into the string
// `created` field unless the caller already supplied one.
func (m *BookMapper) BuildBackendPayload(f BookForm) (BackendBookPayload, error) {
	var payload BackendBookPayload

	title := strings.TrimSpace(f.Title)
	if title == "" {
		return payload, missingFieldError("title")
	}

	author := strings.TrimSpace(f.Author)
	if author == "" {
		return payload, missingFieldError("author")
	}

	year := m.clock.Now().Year()
	if f.PublishedYear != nil && *f.PublishedYear > 0 {
		year = int(*f.PublishedYear)
	}

	created := f.Created
	if created == "" {
		created = strconv.Itoa(year)
	}

	var price *float64
	if f.Price != nil {
		v := float64(*f.Price)
		price = &v
	}

	genre := f.Genre
	if genre == "" {
		genre = "Other"
	}

	language := f.Language
	if language == "" {
		language = "Russian"
	}

	imageURL := f.ImageURL
	if imageURL == "" {
		imageURL = f.CoverImageURL
	}

	var pageCount int
	if f.PageCount != nil {
		pageCount = int(*f.PageCount)
	}

	return BackendBookPayload{
		Title:       title,
		Author:      author,
		Description: f.Description,
		Genre:       genre,
		Publishing:  f.Publishing,
		Created:     created,
		ImageURL:    imageURL,
		Price:       price,
		ISBN:        f.ISBN,
		Language:    language,
		PageCount:   pageCount,
		IsAvailable: f.IsAvailable == nil || *f.IsAvailable,
	}, nil
}

// NormalizeRole maps the polymorphic role value of a role-update request
// onto the canonical role names. Recognized variants are the role names
// in any casing, the numbers 1/0 and their string forms. Anything else
// is rejected instead of being coerced.
func NormalizeRole(v interface{}) (string, error) {
	var s string
	switch role := v.(type) {
	case nil:
		return "", missingFieldError("role")
	case string:
		s = strings.TrimSpace(role)
	case float64:
		s = strconv.FormatFloat(role, 'f', -1, 64)
	case int:
		s = strconv.Itoa(role)
	default:
		return "", fmt.Errorf("invalid role: %v, must be %q or %q", v, RoleAdmin, RoleUser)
	}

	switch s {
	case "1":
		return RoleAdmin, nil
	case "0":
		return RoleUser, nil
	}

	switch strings.ToLower(s) {
	case "admin":
		return RoleAdmin, nil
	case "user":
		return RoleUser, nil
	}

	return "", fmt.Errorf("invalid role: %q, must be %q or %q", s, RoleAdmin, RoleUser)
}
