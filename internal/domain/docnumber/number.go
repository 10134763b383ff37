// Package docnumber formatea los consecutivos legibles de documentos y ventas.
// La asignación del entero consecutivo es responsabilidad del contador
// transaccional (repository.SequenceRepository); aquí solo vive el formato.
package docnumber

import (
	"fmt"
	"time"
)

// GlobalPeriod es el periodo usado para secuencias globales (sin corte mensual),
// como el consecutivo de ventas TRX.
const GlobalPeriod = "global"

// Period devuelve el periodo mensual YYYYMM usado como llave del contador.
func Period(now time.Time) string {
	return now.Format("200601")
}

// Format arma el consecutivo de documento PREFIX-YYYYMM-NNNN (NNNN a 4 dígitos).
func Format(prefix string, now time.Time, n int) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, Period(now), n)
}

// FormatTransactionCode arma el consecutivo de venta TRXNNN (NNN a 3 dígitos,
// secuencia global). Con más de 999 ventas el número sigue creciendo sin truncar.
func FormatTransactionCode(n int) string {
	return fmt.Sprintf("TRX%03d", n)
}
