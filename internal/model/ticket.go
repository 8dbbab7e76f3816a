package model

// Ticket is the durable record of a completed booking from the
// `ticket` table.  TotalPrice is a snapshot computed at issuance
// (show price times amount) and is never recomputed when the show
// price changes later.  ShowID is nullable: hard-deleting a show
// nullifies it so ticket history survives.  FilmName, Username,
// ShowDay and ShowTime are joined decorations for list views.
type Ticket struct {
	ID         uint64  `json:"idTicket"`     // ticket.id_ticket
	UserID     uint64  `json:"idUser"`       // ticket.id_user
	ShowID     *uint64 `json:"idShow"`       // ticket.id_show (nullable)
	Amount     int     `json:"ticketAmount"` // ticket.ticket_amount
	TotalPrice int64   `json:"totalPrice"`   // ticket.total_price
	FilmName   string  `json:"filmName,omitempty"`
	Username   string  `json:"username,omitempty"`
	ShowDay    string  `json:"showDay,omitempty"`
	ShowTime   string  `json:"showTime,omitempty"`
}
