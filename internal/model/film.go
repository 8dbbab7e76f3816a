package model

// Film represents a movie record as stored in the `film` table.
// Poster, backdrop and trailer are opaque references (data URLs or
// external links); the server never interprets them.  Categories is
// populated from the film_category join table when a handler asks
// for film detail and is otherwise nil.
type Film struct {
	ID          uint64   `json:"id"`              // film.id
	Name        string   `json:"filmName"`        // film.film_name
	Description string   `json:"filmDescription"` // film.film_description
	Poster      string   `json:"poster"`          // film.poster
	Backdrop    string   `json:"backdrop"`        // film.backdrop
	Premiere    string   `json:"premiere"`        // film.premiere (DATE)
	Trailer     string   `json:"trailer"`         // film.trailer
	IsActive    bool     `json:"isActive"`        // film.is_active
	Categories  []string `json:"categories,omitempty"`
}
