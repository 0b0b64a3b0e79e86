package inventory

import (
	"sync"
	"time"
)

// LedgerClock asigna la marca de tiempo de los movimientos. Dentro del proceso es
// estrictamente creciente, así el orden "más reciente primero" coincide con el orden de emisión.
type LedgerClock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
	loc  *time.Location
}

// NewLedgerClock reloj del sistema; loc define la fecha y hora locales de los movimientos.
func NewLedgerClock(loc *time.Location) *LedgerClock {
	return NewLedgerClockWith(time.Now, loc)
}

// NewLedgerClockWith permite inyectar la fuente de tiempo (tests).
func NewLedgerClockWith(now func() time.Time, loc *time.Location) *LedgerClock {
	if loc == nil {
		loc = time.Local
	}
	return &LedgerClock{now: now, loc: loc}
}

// Next devuelve la siguiente marca, truncada a microsegundos (precisión de PostgreSQL).
func (c *LedgerClock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

// DateTime fecha (YYYY-MM-DD) y hora (HH:MM:SS) locales de t.
func (c *LedgerClock) DateTime(t time.Time) (string, string) {
	local := t.In(c.loc)
	return local.Format("2006-01-02"), local.Format("15:04:05")
}

// Location zona horaria de los movimientos.
func (c *LedgerClock) Location() *time.Location {
	return c.loc
}
