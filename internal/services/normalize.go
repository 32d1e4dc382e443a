package services

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is the normalized form of a list response.
//
// The server returns either a DRF pagination envelope
// {count,next,previous,results} or a bare JSON array depending on the
// endpoint; both decode into this one shape so view logic never branches
// on payload layout. For a bare array, Count is the item count and both
// cursors are absent.
type Page[T any] struct {
	Count       int
	HasNext     bool
	HasPrevious bool
	Items       []T
}

type pageEnvelope[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// UnmarshalJSON accepts either the envelope or a bare array.
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("failed to decode list response: %w", err)
		}
		*p = Page[T]{Count: len(items), Items: items}
		return nil
	}

	var env pageEnvelope[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return fmt.Errorf("failed to decode paginated response: %w", err)
	}
	*p = Page[T]{
		Count:       env.Count,
		HasNext:     env.Next != nil,
		HasPrevious: env.Previous != nil,
		Items:       env.Results,
	}
	return nil
}
