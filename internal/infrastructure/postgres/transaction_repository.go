package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación de TransactionRepository sobre PostgreSQL (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste cabecera y líneas de la venta. El constraint único sobre code
// convierte una colisión de consecutivo en domain.ErrNumberConflict.
func (r *TransactionRepo) Create(trx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, code, customer_name, subtotal, discount_type, discount, total, payment_type, amount_paid, change, status, cashier_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		trx.ID, trx.Code, trx.CustomerName, trx.Subtotal,
		nullable(trx.DiscountType), trx.Discount, trx.Total,
		trx.PaymentType, trx.AmountPaid, trx.Change,
		trx.Status, trx.CashierID, trx.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrNumberConflict
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	itemQuery := `
		INSERT INTO transaction_items (id, transaction_id, product_id, location_type, location_id, quantity, unit_price, discount_type, discount, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for _, item := range trx.Items {
		if _, err := r.q.Exec(context.Background(), itemQuery,
			item.ID, trx.ID, item.ProductID, item.LocationType, item.LocationID,
			item.Quantity, item.UnitPrice, nullable(item.DiscountType), item.Discount, item.Subtotal,
		); err != nil {
			return fmt.Errorf("insert transaction item: %w", err)
		}
	}
	return nil
}

// GetByID carga una venta con sus líneas; nil si no existe.
func (r *TransactionRepo) GetByID(id string) (*entity.Transaction, error) {
	query := `
		SELECT id, code, customer_name, subtotal, discount_type, discount, total, payment_type, amount_paid, change, status, cashier_id, created_at
		FROM transactions WHERE id = $1`
	trx, err := r.scanTransaction(r.q.QueryRow(context.Background(), query, id))
	if err != nil || trx == nil {
		return nil, err
	}
	if err := r.loadItems(trx); err != nil {
		return nil, err
	}
	return trx, nil
}

// List lista ventas en un rango de fechas, con sus líneas.
func (r *TransactionRepo) List(from, to *time.Time, limit, offset int) ([]*entity.Transaction, error) {
	query := `
		SELECT id, code, customer_name, subtotal, discount_type, discount, total, payment_type, amount_paid, change, status, cashier_id, created_at
		FROM transactions WHERE 1=1`
	args := []any{}
	pos := 1
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
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var list []*entity.Transaction
	for rows.Next() {
		trx, err := r.scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, trx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, trx := range list {
		if err := r.loadItems(trx); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *TransactionRepo) scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var t entity.Transaction
	var discountType *string
	err := row.Scan(
		&t.ID, &t.Code, &t.CustomerName, &t.Subtotal,
		&discountType, &t.Discount, &t.Total,
		&t.PaymentType, &t.AmountPaid, &t.Change,
		&t.Status, &t.CashierID, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	if discountType != nil {
		t.DiscountType = *discountType
	}
	return &t, nil
}

func (r *TransactionRepo) loadItems(trx *entity.Transaction) error {
	query := `
		SELECT id, transaction_id, product_id, location_type, location_id, quantity, unit_price, discount_type, discount, subtotal
		FROM transaction_items WHERE transaction_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, trx.ID)
	if err != nil {
		return fmt.Errorf("list transaction items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.TransactionItem
		var discountType *string
		if err := rows.Scan(&item.ID, &item.TransactionID, &item.ProductID, &item.LocationType, &item.LocationID,
			&item.Quantity, &item.UnitPrice, &discountType, &item.Discount, &item.Subtotal); err != nil {
			return fmt.Errorf("scan transaction item: %w", err)
		}
		if discountType != nil {
			item.DiscountType = *discountType
		}
		trx.Items = append(trx.Items, item)
	}
	return rows.Err()
}
