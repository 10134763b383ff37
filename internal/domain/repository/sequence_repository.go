package repository

// SequenceRepository define el contador transaccional de consecutivos por
// (prefijo, periodo). Next debe ser libre de colisiones bajo llamadas
// concurrentes: el UPDATE del contador serializa a los escritores de la misma
// llave (bloqueo de fila).
type SequenceRepository interface {
	Next(prefix, period string) (int, error)
}
