package restaurant

import (
	"time"

	"wajba-be/internal/geo"
)

type Restaurant struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Address   string     `json:"address"`
	Location  *geo.Point `json:"location,omitempty"`
	IsOpen    bool       `json:"is_open"`
	CreatedAt time.Time  `json:"created_at"`
}
