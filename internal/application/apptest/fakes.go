// Package apptest provee dobles en memoria de los puertos de persistencia y
// del TxRunner para probar los casos de uso sin PostgreSQL. El TxRunner falso
// toma un snapshot del estado antes de cada callback y lo restaura si el
// callback falla, reproduciendo la semántica de rollback.
package apptest

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

// Store es el estado compartido de los fakes (equivale a la base de datos).
type Store struct {
	mu        sync.Mutex
	Products  map[string]*entity.Product
	Locations map[string]*entity.Location
	Docs      map[string]*entity.Document
	Trxs      map[string]*entity.Transaction
	Entries   []*entity.StockLedgerEntry
	Stock     map[string]int64 // productID|locationType|locationID -> cantidad
	Seqs      map[string]int   // prefix|period -> último consecutivo
}

// NewStore construye un estado vacío.
func NewStore() *Store {
	return &Store{
		Products:  map[string]*entity.Product{},
		Locations: map[string]*entity.Location{},
		Docs:      map[string]*entity.Document{},
		Trxs:      map[string]*entity.Transaction{},
		Stock:     map[string]int64{},
		Seqs:      map[string]int{},
	}
}

// AddProduct registra un producto de prueba.
func (s *Store) AddProduct(p *entity.Product) { s.Products[p.ID] = p }

// AddLocation registra una ubicación de prueba.
func (s *Store) AddLocation(l *entity.Location) { s.Locations[l.ID] = l }

// StockQty lee la cantidad materializada de una llave.
func (s *Store) StockQty(productID string, key entity.LocationKey) int64 {
	return s.Stock[stockKey(productID, key)]
}

func stockKey(productID string, key entity.LocationKey) string {
	return productID + "|" + key.Type + "|" + key.ID
}

// enter toma el lock del estado salvo que el caller ya esté dentro de una
// transacción simulada (el TxRunner sostiene el lock durante todo el callback).
// Devuelve la función de salida para usar con defer.
func (s *Store) enter(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// snapshot copia el estado mutable (documentos, ventas, asientos, stock, contadores).
type snapshot struct {
	docs    map[string]*entity.Document
	trxs    map[string]*entity.Transaction
	entries []*entity.StockLedgerEntry
	stock   map[string]int64
	seqs    map[string]int
}

func (s *Store) take() snapshot {
	snap := snapshot{
		docs:    make(map[string]*entity.Document, len(s.Docs)),
		trxs:    make(map[string]*entity.Transaction, len(s.Trxs)),
		entries: append([]*entity.StockLedgerEntry(nil), s.Entries...),
		stock:   make(map[string]int64, len(s.Stock)),
		seqs:    make(map[string]int, len(s.Seqs)),
	}
	for id, doc := range s.Docs {
		snap.docs[id] = copyDocument(doc)
	}
	for id, trx := range s.Trxs {
		snap.trxs[id] = copyTransaction(trx)
	}
	for k, v := range s.Stock {
		snap.stock[k] = v
	}
	for k, v := range s.Seqs {
		snap.seqs[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.Docs = snap.docs
	s.Trxs = snap.trxs
	s.Entries = snap.entries
	s.Stock = snap.stock
	s.Seqs = snap.seqs
}

func copyDocument(doc *entity.Document) *entity.Document {
	cp := *doc
	cp.Items = append([]entity.DocumentItem(nil), doc.Items...)
	return &cp
}

func copyTransaction(trx *entity.Transaction) *entity.Transaction {
	cp := *trx
	cp.Items = append([]entity.TransactionItem(nil), trx.Items...)
	return &cp
}

// TxRunner implementa los tres puertos de transacción sobre el Store.
type TxRunner struct {
	S *Store
}

func (r *TxRunner) run(fn func() error) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	snap := r.S.take()
	if err := fn(); err != nil {
		r.S.restore(snap)
		return err
	}
	return nil
}

// Run ejecuta fn con los repos del libro de stock.
func (r *TxRunner) Run(_ context.Context, fn func(repository.LedgerRepository, repository.StockRepository) error) error {
	return r.run(func() error {
		return fn(&LedgerRepo{S: r.S, InTx: true}, &StockRepo{S: r.S, InTx: true})
	})
}

// RunWorkflow ejecuta fn con los repos del flujo documental.
func (r *TxRunner) RunWorkflow(_ context.Context, fn func(repository.DocumentRepository, repository.SequenceRepository, repository.LedgerRepository, repository.StockRepository) error) error {
	return r.run(func() error {
		return fn(&DocumentRepo{S: r.S, InTx: true}, &SequenceRepo{S: r.S, InTx: true}, &LedgerRepo{S: r.S, InTx: true}, &StockRepo{S: r.S, InTx: true})
	})
}

// RunSale ejecuta fn con los repos del checkout.
func (r *TxRunner) RunSale(_ context.Context, fn func(repository.TransactionRepository, repository.SequenceRepository, repository.LedgerRepository, repository.StockRepository) error) error {
	return r.run(func() error {
		return fn(&TransactionRepo{S: r.S, InTx: true}, &SequenceRepo{S: r.S, InTx: true}, &LedgerRepo{S: r.S, InTx: true}, &StockRepo{S: r.S, InTx: true})
	})
}

// StockRepo fake de repository.StockRepository.
type StockRepo struct {
	S    *Store
	InTx bool
}

var _ repository.StockRepository = (*StockRepo)(nil)

func (r *StockRepo) Get(productID string, key entity.LocationKey) (*entity.LocationStock, error) {
	defer r.S.enter(r.InTx)()
	return &entity.LocationStock{
		ProductID:    productID,
		LocationType: key.Type,
		LocationID:   key.ID,
		Quantity:     r.S.Stock[stockKey(productID, key)],
	}, nil
}

func (r *StockRepo) GetForUpdate(productID string, key entity.LocationKey) (*entity.LocationStock, error) {
	defer r.S.enter(r.InTx)()
	return &entity.LocationStock{
		ProductID:    productID,
		LocationType: key.Type,
		LocationID:   key.ID,
		Quantity:     r.S.Stock[stockKey(productID, key)],
	}, nil
}

func (r *StockRepo) Upsert(stock *entity.LocationStock) error {
	defer r.S.enter(r.InTx)()
	r.S.Stock[stockKey(stock.ProductID, stock.Key())] = stock.Quantity
	return nil
}

// LedgerRepo fake de repository.LedgerRepository.
type LedgerRepo struct {
	S    *Store
	InTx bool
}

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

func (r *LedgerRepo) Append(entry *entity.StockLedgerEntry) error {
	defer r.S.enter(r.InTx)()
	cp := *entry
	r.S.Entries = append(r.S.Entries, &cp)
	return nil
}

func (r *LedgerRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	defer r.S.enter(r.InTx)()
	var list []*entity.StockLedgerEntry
	for _, e := range r.S.Entries {
		if e.ProductID != productID {
			continue
		}
		if from != nil && e.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && e.CreatedAt.After(*to) {
			continue
		}
		list = append(list, e)
	}
	return list, nil
}

func (r *LedgerRepo) ListByDocument(documentID string) ([]*entity.StockLedgerEntry, error) {
	defer r.S.enter(r.InTx)()
	var list []*entity.StockLedgerEntry
	for _, e := range r.S.Entries {
		if e.DocumentID == documentID {
			list = append(list, e)
		}
	}
	return list, nil
}

func (r *LedgerRepo) SumByKey(productID string, key entity.LocationKey) (int64, error) {
	defer r.S.enter(r.InTx)()
	var sum int64
	for _, e := range r.S.Entries {
		if e.ProductID == productID && e.LocationType == key.Type && e.LocationID == key.ID {
			sum += e.Delta
		}
	}
	return sum, nil
}

// DocumentRepo fake de repository.DocumentRepository.
type DocumentRepo struct {
	S    *Store
	InTx bool
}

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

func (r *DocumentRepo) Create(doc *entity.Document) error {
	defer r.S.enter(r.InTx)()
	for _, existing := range r.S.Docs {
		if existing.Number == doc.Number {
			return domain.ErrNumberConflict
		}
	}
	r.S.Docs[doc.ID] = copyDocument(doc)
	return nil
}

func (r *DocumentRepo) GetByID(id string) (*entity.Document, error) {
	defer r.S.enter(r.InTx)()
	doc, ok := r.S.Docs[id]
	if !ok {
		return nil, nil
	}
	return copyDocument(doc), nil
}

func (r *DocumentRepo) UpdateStatus(id, fromStatus, toStatus, approverID string) (int64, error) {
	defer r.S.enter(r.InTx)()
	doc, ok := r.S.Docs[id]
	if !ok || doc.Status != fromStatus {
		return 0, nil
	}
	now := time.Now()
	doc.Status = toStatus
	doc.ApprovedBy = approverID
	doc.ApprovedAt = &now
	return 1, nil
}

func (r *DocumentRepo) List(kind, status string, limit, offset int) ([]*entity.Document, error) {
	defer r.S.enter(r.InTx)()
	var list []*entity.Document
	for _, doc := range r.S.Docs {
		if kind != "" && doc.Kind != kind {
			continue
		}
		if status != "" && doc.Status != status {
			continue
		}
		list = append(list, copyDocument(doc))
	}
	return list, nil
}

// SequenceRepo fake de repository.SequenceRepository.
type SequenceRepo struct {
	S    *Store
	InTx bool
}

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

func (r *SequenceRepo) Next(prefix, period string) (int, error) {
	defer r.S.enter(r.InTx)()
	k := prefix + "|" + period
	r.S.Seqs[k]++
	return r.S.Seqs[k], nil
}

// TransactionRepo fake de repository.TransactionRepository.
type TransactionRepo struct {
	S    *Store
	InTx bool
}

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

func (r *TransactionRepo) Create(trx *entity.Transaction) error {
	defer r.S.enter(r.InTx)()
	for _, existing := range r.S.Trxs {
		if existing.Code == trx.Code {
			return domain.ErrNumberConflict
		}
	}
	r.S.Trxs[trx.ID] = copyTransaction(trx)
	return nil
}

func (r *TransactionRepo) GetByID(id string) (*entity.Transaction, error) {
	defer r.S.enter(r.InTx)()
	trx, ok := r.S.Trxs[id]
	if !ok {
		return nil, nil
	}
	return copyTransaction(trx), nil
}

func (r *TransactionRepo) List(from, to *time.Time, limit, offset int) ([]*entity.Transaction, error) {
	defer r.S.enter(r.InTx)()
	var list []*entity.Transaction
	for _, trx := range r.S.Trxs {
		if from != nil && trx.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && trx.CreatedAt.After(*to) {
			continue
		}
		list = append(list, copyTransaction(trx))
	}
	return list, nil
}

// ProductRepo fake de repository.ProductRepository.
type ProductRepo struct {
	S    *Store
	InTx bool
}

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(product *entity.Product) error {
	defer r.S.enter(r.InTx)()
	r.S.Products[product.ID] = product
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	defer r.S.enter(r.InTx)()
	return r.S.Products[id], nil
}

func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	defer r.S.enter(r.InTx)()
	for _, p := range r.S.Products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(product *entity.Product) error {
	defer r.S.enter(r.InTx)()
	r.S.Products[product.ID] = product
	return nil
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	defer r.S.enter(r.InTx)()
	var list []*entity.Product
	for _, p := range r.S.Products {
		list = append(list, p)
	}
	return list, nil
}

// LocationRepo fake de repository.LocationRepository.
type LocationRepo struct {
	S    *Store
	InTx bool
}

var _ repository.LocationRepository = (*LocationRepo)(nil)

func (r *LocationRepo) Create(location *entity.Location) error {
	defer r.S.enter(r.InTx)()
	r.S.Locations[location.ID] = location
	return nil
}

func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	defer r.S.enter(r.InTx)()
	return r.S.Locations[id], nil
}

func (r *LocationRepo) GetByKey(key entity.LocationKey) (*entity.Location, error) {
	defer r.S.enter(r.InTx)()
	loc, ok := r.S.Locations[key.ID]
	if !ok || loc.Type != key.Type {
		return nil, nil
	}
	return loc, nil
}

func (r *LocationRepo) List(locationType string, limit, offset int) ([]*entity.Location, error) {
	defer r.S.enter(r.InTx)()
	var list []*entity.Location
	for _, l := range r.S.Locations {
		if locationType != "" && l.Type != locationType {
			continue
		}
		list = append(list, l)
	}
	return list, nil
}
