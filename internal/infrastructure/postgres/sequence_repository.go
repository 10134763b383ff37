package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contador transaccional de consecutivos por (prefijo, periodo)
// sobre PostgreSQL. El UPDATE del upsert toma el bloqueo de fila del contador,
// así que dos callers concurrentes del mismo (prefijo, periodo) se serializan
// y nunca reciben el mismo número. Reemplaza al patrón leer-máximo-e-insertar,
// que es carrera conocida.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Usar siempre atado a la tx del
// documento o la venta, para que el consecutivo consumido se revierta junto
// con la operación si esta falla.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el siguiente consecutivo para (prefijo, periodo).
func (r *SequenceRepo) Next(prefix, period string) (int, error) {
	query := `
		INSERT INTO document_sequences (prefix, period, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (prefix, period)
		DO UPDATE SET last_number = document_sequences.last_number + 1
		RETURNING last_number`
	var n int
	if err := r.q.QueryRow(context.Background(), query, prefix, period).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence %s-%s: %w", prefix, period, err)
	}
	return n, nil
}
