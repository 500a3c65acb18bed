package entity

import "time"

// Shop es la tienda (tenant). Todo recurso pertenece a exactamente una tienda
// y cada operación valida la pertenencia antes de mutar.
type Shop struct {
	ID                 string
	Name               string
	Address            string
	GSTIN              string // número de registro GST de la tienda
	InvoiceTitle       string
	InvoiceFooter      string
	InvoiceAccentColor string
	PaymentsEnabled    bool // true cuando la tienda configuró cobros en línea
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
