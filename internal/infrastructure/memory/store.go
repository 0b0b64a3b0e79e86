package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/logistica-api/internal/application/inventory"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store backend volátil en memoria. Cada operación es atómica por sí sola, pero una
// secuencia dentro de Run no se revierte si falla a mitad (Transactional = false).
type Store struct {
	mu sync.RWMutex

	products   map[string]*entity.Product
	barcodes   map[string]string // barcode -> product id
	movements  []*entity.Movement
	pending    map[string]*entity.PendingOutboundItem
	pendingSeq map[string]int64
	seq        int64
	routines   map[string]*entity.Routine
	attendance map[string]*entity.AttendanceRecord

	// serializa las unidades de Run entre sí; independiente de mu para no bloquear los repos
	txMu sync.Mutex
}

// NewStore crea un backend vacío.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]*entity.Product),
		barcodes:   make(map[string]string),
		pending:    make(map[string]*entity.PendingOutboundItem),
		pendingSeq: make(map[string]int64),
		routines:   make(map[string]*entity.Routine),
		attendance: make(map[string]*entity.AttendanceRecord),
	}
}

func (s *Store) Products() repository.ProductRepository      { return &ProductRepo{s: s} }
func (s *Store) Movements() repository.MovementRepository    { return &MovementRepo{s: s} }
func (s *Store) Pending() repository.PendingListRepository   { return &PendingRepo{s: s} }
func (s *Store) Routines() repository.RoutineRepository      { return &RoutineRepo{s: s} }
func (s *Store) Attendance() repository.AttendanceRepository { return &AttendanceRepo{s: s} }

// Run ejecuta fn con los repos del store. No hay rollback.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	pendingRepo repository.PendingListRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s.Products(), s.Movements(), s.Pending())
}

// Transactional siempre false: un fallo a mitad de Run deja lo ya escrito.
func (s *Store) Transactional() bool { return false }
