package dto

import "time"

// RecurringInvoiceRequest creación/actualización de un perfil recurrente.
// Las fechas son de día completo (YYYY-MM-DD a medianoche).
type RecurringInvoiceRequest struct {
	CustomerID    string                `json:"customer_id"`
	Frequency     string                `json:"frequency"` // DAILY | WEEKLY | MONTHLY | YEARLY
	StartDate     time.Time             `json:"start_date"`
	EndDate       *time.Time            `json:"end_date,omitempty"`
	AutoSendEmail bool                  `json:"auto_send_email"`
	Items         []DocumentItemRequest `json:"items"`
}

// RecurringInvoiceResponse perfil recurrente con su cursor actual.
type RecurringInvoiceResponse struct {
	ID            string                `json:"id"`
	CustomerID    string                `json:"customer_id"`
	CustomerName  string                `json:"customer_name"`
	Frequency     string                `json:"frequency"`
	StartDate     time.Time             `json:"start_date"`
	EndDate       *time.Time            `json:"end_date,omitempty"`
	NextIssueDate time.Time             `json:"next_issue_date"`
	AutoSendEmail bool                  `json:"auto_send_email"`
	Items         []DocumentItemRequest `json:"items"`
}
