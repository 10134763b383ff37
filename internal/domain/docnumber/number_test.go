package docnumber_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/docnumber"
)

func TestFormat_ConsecutivoDeDocumento(t *testing.T) {
	enero := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "PN-202601-0001", docnumber.Format("PN", enero, 1))
	assert.Equal(t, "SJ-202601-0042", docnumber.Format("SJ", enero, 42))
	assert.Equal(t, "ADJ-202601-0007", docnumber.Format("ADJ", enero, 7))
}

func TestFormat_CuatroDigitosYDesborde(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "PN-202603-0999", docnumber.Format("PN", now, 999))
	// Pasados 9999 el consecutivo crece sin truncarse
	assert.Equal(t, "PN-202603-10001", docnumber.Format("PN", now, 10001))
}

func TestPeriod_CorteMensual(t *testing.T) {
	finDeMes := time.Date(2026, time.January, 31, 23, 59, 59, 0, time.UTC)
	inicioDeMes := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "202601", docnumber.Period(finDeMes))
	assert.Equal(t, "202602", docnumber.Period(inicioDeMes))
	// El cambio de mes reinicia el periodo del contador, no el formato
	assert.NotEqual(t, docnumber.Period(finDeMes), docnumber.Period(inicioDeMes))
}

func TestFormatTransactionCode_SecuenciaGlobal(t *testing.T) {
	assert.Equal(t, "TRX001", docnumber.FormatTransactionCode(1))
	assert.Equal(t, "TRX045", docnumber.FormatTransactionCode(45))
	assert.Equal(t, "TRX999", docnumber.FormatTransactionCode(999))
	// Con más de 999 ventas el código sigue creciendo
	assert.Equal(t, "TRX1000", docnumber.FormatTransactionCode(1000))
}
