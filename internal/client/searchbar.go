package client

import (
	"context"

	"github.com/and161185/streamish/internal/model"
)

// Searcher runs a search query; *Client implements it.
type Searcher interface {
	SearchVideos(ctx context.Context, q model.SearchQuery) ([]model.Video, error)
}

// SearchBar holds the current search term and sort direction.
type SearchBar struct {
	Term           string
	SortDescending bool
}

// SetTerm replaces the search term.
func (b *SearchBar) SetTerm(term string) { b.Term = term }

// ToggleSort flips the sort direction.
func (b *SearchBar) ToggleSort() { b.SortDescending = !b.SortDescending }

// Query returns the current state as a model.SearchQuery.
func (b *SearchBar) Query() model.SearchQuery {
	return model.SearchQuery{Term: b.Term, SortDescending: b.SortDescending}
}

// Search issues one query and replaces the caller's list with the result.
// setVideos is not called when the query fails.
func (b *SearchBar) Search(ctx context.Context, s Searcher, setVideos func([]model.Video)) error {
	vs, err := s.SearchVideos(ctx, b.Query())
	if err != nil {
		return err
	}
	setVideos(vs)
	return nil
}
