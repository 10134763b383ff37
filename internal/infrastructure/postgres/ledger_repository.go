package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación del libro de stock sobre PostgreSQL (usable con pool o tx).
// La tabla stock_ledger_entries es append-only: no existe Update ni Delete.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append inserta un asiento inmutable.
func (r *LedgerRepo) Append(entry *entity.StockLedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_ledger_entries (id, product_id, location_type, location_id, delta, reason, document_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	documentID := (*string)(nil)
	if entry.DocumentID != "" {
		documentID = &entry.DocumentID
	}
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ProductID, entry.LocationType, entry.LocationID,
		entry.Delta, entry.Reason, documentID, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// ListByProduct lista asientos de un producto en un rango de fechas.
func (r *LedgerRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	query := `
		SELECT id, product_id, location_type, location_id, delta, reason, document_id, created_at
		FROM stock_ledger_entries WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger by product: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListByDocument lista los asientos generados por un documento o venta.
func (r *LedgerRepo) ListByDocument(documentID string) ([]*entity.StockLedgerEntry, error) {
	query := `
		SELECT id, product_id, location_type, location_id, delta, reason, document_id, created_at
		FROM stock_ledger_entries WHERE document_id = $1
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list ledger by document: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// SumByKey suma los deltas del libro para una llave. Debe coincidir con la
// cantidad materializada en location_stock (verificación de consistencia).
func (r *LedgerRepo) SumByKey(productID string, key entity.LocationKey) (int64, error) {
	query := `
		SELECT COALESCE(SUM(delta), 0)
		FROM stock_ledger_entries
		WHERE product_id = $1 AND location_type = $2 AND location_id = $3`
	var sum int64
	err := r.q.QueryRow(context.Background(), query, productID, key.Type, key.ID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum ledger by key: %w", err)
	}
	return sum, nil
}

func scanEntries(rows pgx.Rows) ([]*entity.StockLedgerEntry, error) {
	var list []*entity.StockLedgerEntry
	for rows.Next() {
		var e entity.StockLedgerEntry
		var documentID *string
		if err := rows.Scan(&e.ID, &e.ProductID, &e.LocationType, &e.LocationID,
			&e.Delta, &e.Reason, &documentID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if documentID != nil {
			e.DocumentID = *documentID
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
