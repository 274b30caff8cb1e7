package main

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexNumber absorbs backend values serialized either as JSON numbers,
// as numeric strings or as null. The backend book records are not
// consistent about it, so every numeric field coming from the wire
// goes through this type. Anything unparsable decays to zero.
type FlexNumber float64

func (f *FlexNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return err
		}
		s = strings.TrimSpace(unquoted)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexNumber(v)
	return nil
}

// FlexString absorbs values serialized either as JSON strings or as raw
// numbers. The backend year-of-publication field `created` is declared
// a string but some records carry it as a bare number.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return err
		}
		*f = FlexString(unquoted)
		return nil
	}
	*f = FlexString(s)
	return nil
}

// BackendBook is the loose representation of a book record as returned
// by the backend catalog. The year of publication is stored ambiguously
// in either the string field `created` or the numeric fields
// `publishedYear`/`publishing`. Both may be populated with conflicting
// values, which the mapper absorbs.
type BackendBook struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Author        string      `json:"author"`
	Description   string      `json:"description"`
	ISBN          string      `json:"isbn"`
	Genre         string      `json:"genre"`
	Language      string      `json:"language"`
	Created       FlexString  `json:"created"`
	PublishedYear *FlexNumber `json:"publishedYear"`
	Publishing    *FlexNumber `json:"publishing"`
	PageCount     *FlexNumber `json:"pageCount"`
	Price         *FlexNumber `json:"price"`
	ImageURL      string      `json:"imageUrl"`
	CoverImageURL string      `json:"coverImageUrl"`
	IsAvailable   *bool       `json:"isAvailable"`
}

// Book is the strict representation served to the web UI and the admin
// screens. It is rebuilt from a BackendBook on every inbound response
// and never cached, so a re-fetch is the only way to refresh it.
type Book struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Description   string  `json:"description"`
	ISBN          string  `json:"isbn"`
	PublishedYear int     `json:"publishedYear"`
	Genre         string  `json:"genre"`
	Language      string  `json:"language"`
	PageCount     int     `json:"pageCount"`
	Price         float64 `json:"price"`
	ImageURL      string  `json:"imageUrl"`
	IsAvailable   bool    `json:"isAvailable"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// BookForm is a loosely-typed admin form submission used to create or
// update a book record.
type BookForm struct {
	Title         string      `json:"title"`
	Author        string      `json:"author"`
	Description   string      `json:"description"`
	Genre         string      `json:"genre"`
	Publishing    string      `json:"publishing"`
	Created       string      `json:"created"`
	PublishedYear *FlexNumber `json:"publishedYear"`
	ImageURL      string      `json:"imageUrl"`
	CoverImageURL string      `json:"coverImageUrl"`
	Price         *FlexNumber `json:"price"`
	ISBN          string      `json:"isbn"`
	Language      string      `json:"language"`
	PageCount     *FlexNumber `json:"pageCount"`
	IsAvailable   *bool       `json:"isAvailable"`
}

// BackendBookPayload is the exact JSON shape the backend expects on
// book creation and update. The year of publication travels in the
// string field `created`.
type BackendBookPayload struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Genre       string   `json:"genre"`
	Publishing  string   `json:"publishing"`
	Created     string   `json:"created"`
	ImageURL    string   `json:"imageUrl"`
	Price       *float64 `json:"price"`
	ISBN        string   `json:"isbn"`
	Language    string   `json:"language"`
	PageCount   int      `json:"pageCount"`
	IsAvailable bool     `json:"isAvailable"`
}
