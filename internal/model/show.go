package model

// ShowSchedule represents one scheduled screening of a film in one
// room, as stored in the `show_schedule` table.  ShowDay is a calendar
// date ("2006-01-02") and BeginTime/EndTime are wall-clock times
// ("15:04:05"); the DB stores them as DATE and TIME columns.  EndTime
// is always derived from BeginTime plus the fixed show duration and is
// never supplied by a caller.  FilmName is the joined film name for
// list views and is empty elsewhere.
type ShowSchedule struct {
	ID        uint64 `json:"id"`        // show_schedule.id
	FilmID    uint64 `json:"film"`      // show_schedule.film_id
	Price     int64  `json:"showPrice"` // show_schedule.show_price
	ShowDay   string `json:"showDay"`   // show_schedule.show_day (DATE)
	BeginTime string `json:"beginTime"` // show_schedule.begin_time (TIME)
	EndTime   string `json:"endTime"`   // show_schedule.end_time (TIME)
	Room      int    `json:"room"`      // show_schedule.room
	IsActive  bool   `json:"isActive"`  // show_schedule.is_active
	FilmName  string `json:"filmName,omitempty"`
}

// Rooms is the set of room identifiers the cinema operates.  The
// conflict checker does not reject unknown rooms; the admin UI is the
// only place the range is enforced.
var Rooms = []int{1, 2, 3, 4}
