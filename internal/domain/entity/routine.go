package entity

import "time"

// Routine tarea de la lista de verificación diaria.
type Routine struct {
	ID        string
	Task      string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
