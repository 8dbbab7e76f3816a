// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketIssuedEvent is published when a ticket purchase is stored.
// It carries enough detail for downstream consumers to log or notify
// without querying the primary database.
type TicketIssuedEvent struct {
	TicketID     uint64 `json:"ticket_id"`
	UserID       uint64 `json:"user_id"`
	ShowID       uint64 `json:"show_id"`
	FilmName     string `json:"film_name"`
	ShowDay      string `json:"show_day"`
	BeginTime    string `json:"begin_time"`
	Room         int    `json:"room"`
	TicketAmount int    `json:"ticket_amount"`
	TotalPrice   int64  `json:"total_price"`
	IssuedAt     string `json:"issued_at"`
}
