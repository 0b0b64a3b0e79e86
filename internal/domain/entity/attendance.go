package entity

import "time"

// Tipos de registro de asistencia.
const (
	AttendanceClockIn  = "CLOCK_IN"
	AttendanceClockOut = "CLOCK_OUT"
)

// AttendanceRecord marca de entrada o salida de un empleado.
type AttendanceRecord struct {
	ID        string
	Employee  string
	Type      string
	Date      string // YYYY-MM-DD
	Time      string // HH:MM:SS
	Timestamp time.Time
}
