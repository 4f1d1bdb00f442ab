package farmer

import (
	"time"

	"github.com/google/uuid"
)

type Farmer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	FarmName  string    `json:"farm_name" db:"farm_name"`
	Region    string    `json:"region" db:"region"`
	Rating    float64   `json:"rating" db:"rating"`
	Verified  bool      `json:"verified" db:"verified"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CanList returns true if the farmer may list products on the marketplace.
func (f *Farmer) CanList() bool {
	return f.Verified
}
