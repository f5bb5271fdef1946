package models

import "time"

// CartLine is one (product, retailer) selection. Two sites for the same
// product are two distinct lines.
type CartLine struct {
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	SelectedSite string `json:"selected_site"`
}

// Cart holds all lines for one owner. Owner is the user id, or a
// "guest:<session-id>" bucket for anonymous sessions.
type Cart struct {
	Owner     string     `json:"owner"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Count is the sum of all line quantities, recomputed on every call.
func (c *Cart) Count() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}
