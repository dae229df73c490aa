package blog

import "time"

// Config tunes search and account behaviour. Zero fields fall back to the
// defaults in the env tags.
type Config struct {
	SearchMinQuery   int           `env:"SEARCH_MIN_QUERY" envDefault:"2"`         // SearchMinQuery is the shortest sanitized query that is searched.
	SearchPerPage    int           `env:"SEARCH_PER_PAGE" envDefault:"10"`         // SearchPerPage is the default page size.
	SearchMaxPerPage int           `env:"SEARCH_MAX_PER_PAGE" envDefault:"50"`     // SearchMaxPerPage caps caller supplied page sizes.
	SuggestionLimit  int           `env:"SEARCH_SUGGESTION_LIMIT" envDefault:"5"`  // SuggestionLimit is the default number of title suggestions.
	PopularLimit     int           `env:"SEARCH_POPULAR_LIMIT" envDefault:"10"`    // PopularLimit is the default number of popular terms.
	PopularWindow    time.Duration `env:"SEARCH_POPULAR_WINDOW" envDefault:"720h"` // PopularWindow is how far back popular terms are counted.
	BcryptCost       int           `env:"BCRYPT_COST" envDefault:"10"`             // BcryptCost is the password hashing cost.
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		SearchMinQuery:   2,
		SearchPerPage:    10,
		SearchMaxPerPage: 50,
		SuggestionLimit:  5,
		PopularLimit:     10,
		PopularWindow:    30 * 24 * time.Hour,
		BcryptCost:       10,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SearchMinQuery <= 0 {
		c.SearchMinQuery = d.SearchMinQuery
	}
	if c.SearchPerPage <= 0 {
		c.SearchPerPage = d.SearchPerPage
	}
	if c.SearchMaxPerPage <= 0 {
		c.SearchMaxPerPage = d.SearchMaxPerPage
	}
	if c.SuggestionLimit <= 0 {
		c.SuggestionLimit = d.SuggestionLimit
	}
	if c.PopularLimit <= 0 {
		c.PopularLimit = d.PopularLimit
	}
	if c.PopularWindow <= 0 {
		c.PopularWindow = d.PopularWindow
	}
	if c.BcryptCost <= 0 {
		c.BcryptCost = d.BcryptCost
	}
	return c
}

// perPage clamps a requested page size into [1, SearchMaxPerPage].
func (c Config) perPage(n int) int {
	if n <= 0 {
		return c.SearchPerPage
	}
	return min(n, c.SearchMaxPerPage)
}
