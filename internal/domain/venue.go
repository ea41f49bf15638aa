package domain

// Venue is a physical location with a fixed seating capacity.
// swagger:model Venue
type Venue struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Capacity int    `json:"capacity"`
}
