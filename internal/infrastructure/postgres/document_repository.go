package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository sobre PostgreSQL (usable con pool o tx).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// Create persiste cabecera y líneas. El constraint único sobre number
// convierte una colisión de consecutivo en domain.ErrNumberConflict.
func (r *DocumentRepo) Create(doc *entity.Document) error {
	query := `
		INSERT INTO documents (id, kind, number, status, source_type, source_id, destination_type, destination_id, adjustment_type, date, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	sourceType := nullable(doc.SourceType)
	sourceID := nullable(doc.SourceID)
	adjustmentType := nullable(doc.AdjustmentType)
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.Kind, doc.Number, doc.Status,
		sourceType, sourceID, doc.DestinationType, doc.DestinationID,
		adjustmentType, doc.Date, doc.Notes, doc.CreatedBy, doc.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrNumberConflict
		}
		return fmt.Errorf("insert document: %w", err)
	}
	itemQuery := `
		INSERT INTO document_items (id, document_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)`
	for _, item := range doc.Items {
		if _, err := r.q.Exec(context.Background(), itemQuery, item.ID, doc.ID, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("insert document item: %w", err)
		}
	}
	return nil
}

// GetByID carga cabecera y líneas; nil si no existe.
func (r *DocumentRepo) GetByID(id string) (*entity.Document, error) {
	query := `
		SELECT id, kind, number, status, source_type, source_id, destination_type, destination_id, adjustment_type, date, notes, created_by, created_at, approved_by, approved_at
		FROM documents WHERE id = $1`
	doc, err := r.scanDocument(r.q.QueryRow(context.Background(), query, id))
	if err != nil || doc == nil {
		return nil, err
	}
	if err := r.loadItems(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateStatus es la compuerta de concurrencia del documento: cambia el estado
// solo si el actual coincide con fromStatus. Cero filas cambiadas significa que
// otro caller ya resolvió el documento.
func (r *DocumentRepo) UpdateStatus(id, fromStatus, toStatus, approverID string) (int64, error) {
	query := `
		UPDATE documents
		SET status = $3, approved_by = $4, approved_at = now()
		WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(context.Background(), query, id, fromStatus, toStatus, approverID)
	if err != nil {
		return 0, fmt.Errorf("update document status: %w", err)
	}
	return tag.RowsAffected(), nil
}

// List lista documentos filtrando por tipo y estado (vacío = sin filtro), con sus líneas.
func (r *DocumentRepo) List(kind, status string, limit, offset int) ([]*entity.Document, error) {
	query := `
		SELECT id, kind, number, status, source_type, source_id, destination_type, destination_id, adjustment_type, date, notes, created_by, created_at, approved_by, approved_at
		FROM documents WHERE 1=1`
	args := []any{}
	pos := 1
	if kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", pos)
		args = append(args, kind)
		pos++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var list []*entity.Document
	for rows.Next() {
		doc, err := r.scanDocument(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, doc := range list {
		if err := r.loadItems(doc); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *DocumentRepo) scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	var sourceType, sourceID, adjustmentType, approvedBy *string
	err := row.Scan(
		&d.ID, &d.Kind, &d.Number, &d.Status,
		&sourceType, &sourceID, &d.DestinationType, &d.DestinationID,
		&adjustmentType, &d.Date, &d.Notes, &d.CreatedBy, &d.CreatedAt,
		&approvedBy, &d.ApprovedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	if sourceType != nil {
		d.SourceType = *sourceType
	}
	if sourceID != nil {
		d.SourceID = *sourceID
	}
	if adjustmentType != nil {
		d.AdjustmentType = *adjustmentType
	}
	if approvedBy != nil {
		d.ApprovedBy = *approvedBy
	}
	return &d, nil
}

func (r *DocumentRepo) loadItems(doc *entity.Document) error {
	query := `
		SELECT id, document_id, product_id, quantity
		FROM document_items WHERE document_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, doc.ID)
	if err != nil {
		return fmt.Errorf("list document items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.DocumentItem
		if err := rows.Scan(&item.ID, &item.DocumentID, &item.ProductID, &item.Quantity); err != nil {
			return fmt.Errorf("scan document item: %w", err)
		}
		doc.Items = append(doc.Items, item)
	}
	return rows.Err()
}

// nullable convierte "" en NULL para columnas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
