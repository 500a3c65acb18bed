package dto

// ShopSettingsRequest actualización de los datos de la tienda.
type ShopSettingsRequest struct {
	Name               string `json:"name"`
	Address            string `json:"address"`
	GSTIN              string `json:"gstin"`
	InvoiceTitle       string `json:"invoice_title"`
	InvoiceFooter      string `json:"invoice_footer"`
	InvoiceAccentColor string `json:"invoice_accent_color"`
}

// ShopResponse datos de la tienda.
type ShopResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Address            string `json:"address"`
	GSTIN              string `json:"gstin"`
	InvoiceTitle       string `json:"invoice_title"`
	InvoiceFooter      string `json:"invoice_footer"`
	InvoiceAccentColor string `json:"invoice_accent_color"`
	PaymentsEnabled    bool   `json:"payments_enabled"`
}
