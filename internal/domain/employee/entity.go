package employee

import (
	"time"
)

type Employee struct {
	ID        string
	Code      string
	FullName  string
	Region    *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
