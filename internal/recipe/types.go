package recipe

import (
	"errors"
	"fmt"
)

// SearchPageSize is the number of results the search endpoint returns per page.
// Lookup draws its random index from [0, SearchPageSize).
const SearchPageSize = 30

// Sort modes accepted by the search endpoint.
const (
	SortRating   = "r"
	SortTrending = "t"
)

var (
	// ErrNoRecipe is returned when the random draw lands outside the search results.
	ErrNoRecipe = errors.New("no recipe found for ingredient")

	// ErrUnexpectedStatus is wrapped with the status code of a non-2xx API response.
	ErrUnexpectedStatus = errors.New("unexpected status from recipe API")

	// ErrMalformedResponse is returned when a 2xx body lacks the expected payload,
	// e.g. the {"error":"limit"} answer of an exhausted key.
	ErrMalformedResponse = errors.New("malformed response from recipe API")
)

// Summary is one entry of a search result page.
type Summary struct {
	ID         string  `json:"recipe_id"`
	Title      string  `json:"title"`
	Publisher  string  `json:"publisher,omitempty"`
	SourceURL  string  `json:"source_url,omitempty"`
	ImageURL   string  `json:"image_url,omitempty"`
	SocialRank float64 `json:"social_rank,omitempty"`
}

// Recipe is the full detail of a single recipe.
type Recipe struct {
	ID          string   `json:"recipe_id"`
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Publisher   string   `json:"publisher,omitempty"`
	SourceURL   string   `json:"source_url,omitempty"`
}

type searchResponse struct {
	Count   int        `json:"count"`
	Recipes *[]Summary `json:"recipes"`
	Error   string     `json:"error,omitempty"`
}

type getResponse struct {
	Recipe *Recipe `json:"recipe"`
	Error  string  `json:"error,omitempty"`
}

// malformed describes a 2xx body without the expected payload.
func malformed(apiError string) error {
	if apiError != "" {
		return fmt.Errorf("%w: api error %q", ErrMalformedResponse, apiError)
	}
	return ErrMalformedResponse
}
