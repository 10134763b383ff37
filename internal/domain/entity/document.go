package entity

import "time"

// Tipos de documento del flujo de aprobación.
const (
	DocumentKindGoodsReceipt = "goods_receipt" // penerimaan / recepción de mercancía (prefijo PN)
	DocumentKindDeliveryNote = "delivery_note" // surat jalan / nota de traslado (prefijo SJ)
	DocumentKindAdjustment   = "adjustment"    // solicitud de ajuste de stock (prefijo ADJ)
)

// Estados del documento. Draft es el inicial; Approved y Rejected son terminales.
const (
	DocumentStatusDraft    = "draft"
	DocumentStatusApproved = "approved"
	DocumentStatusRejected = "rejected" // solo solicitudes de ajuste
)

// Dirección de una solicitud de ajuste. Las cantidades de los ítems siempre son
// magnitudes positivas; el signo lo decide esta bandera al crear el documento.
const (
	AdjustmentIncrease = "increase"
	AdjustmentDecrease = "decrease"
)

// Prefijos de numeración por tipo de documento.
const (
	PrefixGoodsReceipt = "PN"
	PrefixDeliveryNote = "SJ"
	PrefixAdjustment   = "ADJ"
)

// NumberPrefix devuelve el prefijo de numeración para un tipo de documento.
func NumberPrefix(kind string) string {
	switch kind {
	case DocumentKindGoodsReceipt:
		return PrefixGoodsReceipt
	case DocumentKindDeliveryNote:
		return PrefixDeliveryNote
	case DocumentKindAdjustment:
		return PrefixAdjustment
	}
	return ""
}

// Document es la cabecera de un documento del flujo de stock
// (recepción, traslado o ajuste) con su estado de ciclo de vida.
type Document struct {
	ID   string
	Kind string
	// Number es el consecutivo legible PREFIX-YYYYMM-NNNN.
	Number string
	Status string

	// Ubicaciones según el tipo:
	//   goods_receipt: DestinationType/ID (bodega que recibe)
	//   delivery_note: SourceType/ID (bodega origen) y DestinationType/ID (bodega o tienda)
	//   adjustment:    DestinationType/ID (tienda objetivo)
	SourceType      string
	SourceID        string
	DestinationType string
	DestinationID   string

	// AdjustmentType solo aplica a solicitudes de ajuste: increase | decrease.
	AdjustmentType string

	Date  time.Time
	Notes string

	CreatedBy string
	CreatedAt time.Time
	// ApprovedBy y ApprovedAt registran quién resolvió el documento y cuándo,
	// tanto al aprobar como al rechazar una solicitud de ajuste. Vacíos/nil
	// mientras el documento sigue en draft.
	ApprovedBy string
	ApprovedAt *time.Time

	Items []DocumentItem
}

// IsDraft indica si el documento todavía admite cambios y aprobación.
func (d *Document) IsDraft() bool { return d.Status == DocumentStatusDraft }

// DocumentItem es una línea del documento. Quantity siempre es una magnitud
// positiva; el tipo del documento (y AdjustmentType) interpretan el signo.
// Las líneas son mutables solo mientras el documento está en draft.
type DocumentItem struct {
	ID         string
	DocumentID string
	ProductID  string
	Quantity   int64
}
