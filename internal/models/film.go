// Package models defines the domain types shared across filmwise.
package models

// Film is a catalog entry with its associated genre and actor names.
// Catalog data is read-mostly reference data; the agent never mutates it.
type Film struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Rating      float64  `json:"rating"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
	Actors      []string `json:"actors"`
}
