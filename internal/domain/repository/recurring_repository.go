package repository

import (
	"time"

	"github.com/invogen/billing-api/internal/domain/entity"
)

// RecurringInvoiceRepository define el puerto para perfiles recurrentes.
// Los Get/List cargan las líneas de plantilla del perfil.
type RecurringInvoiceRepository interface {
	Create(profile *entity.RecurringInvoice) error
	// Update reemplaza cabecera y líneas de plantilla.
	Update(profile *entity.RecurringInvoice) error
	Delete(id string) error
	GetByID(id string) (*entity.RecurringInvoice, error)
	ListByShop(shopID string) ([]*entity.RecurringInvoice, error)
	// FindDue devuelve los perfiles con NextIssueDate <= asOf.
	FindDue(asOf time.Time) ([]*entity.RecurringInvoice, error)
	// AdvanceCursor persiste solo el nuevo NextIssueDate del perfil.
	AdvanceCursor(id string, nextIssueDate time.Time) error
}
