package http

import (
	"github.com/gofiber/fiber/v2"

	appauth "github.com/invogen/billing-api/internal/application/auth"
	"github.com/invogen/billing-api/internal/application/billing"
	"github.com/invogen/billing-api/internal/application/reporting"
	"github.com/invogen/billing-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *appauth.AuthUseCase
	ShopUC      *usecase.ShopUseCase
	CustomerUC  *usecase.CustomerUseCase
	ProductUC   *usecase.ProductUseCase
	ExpenseUC   *usecase.ExpenseUseCase
	InvoiceUC   *billing.InvoiceUseCase
	QuoteUC     *billing.QuoteUseCase
	RecurringUC *billing.RecurringUseCase
	ReportUC    *reporting.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Webhooks (público, autenticado por firma)
	webhookHandler := NewWebhookHandler(deps.InvoiceUC)
	api.Post("/webhooks/razorpay", webhookHandler.Razorpay)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Shop (protegido)
	shops := protected.Group("/shops")
	shopHandler := NewShopHandler(deps.ShopUC)
	shops.Get("/me", shopHandler.Get)
	shops.Put("/me", shopHandler.UpdateSettings)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Products y categorías (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/categories", productHandler.CreateCategory)
	products.Get("/categories", productHandler.ListCategories)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Invoices (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/payments", invoiceHandler.RecordPayment)
	invoices.Patch("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Post("/:id/payment-link", invoiceHandler.CreatePaymentLink)
	invoices.Post("/:id/email", invoiceHandler.Email)

	// Quotes (protegido)
	quotes := protected.Group("/quotes")
	quoteHandler := NewQuoteHandler(deps.QuoteUC)
	quotes.Post("/", quoteHandler.Create)
	quotes.Get("/", quoteHandler.List)
	quotes.Get("/:id", quoteHandler.GetByID)
	quotes.Patch("/:id/status", quoteHandler.UpdateStatus)
	quotes.Post("/:id/convert", quoteHandler.Convert)

	// Recurring invoices (protegido)
	recurring := protected.Group("/recurring-invoices")
	recurringHandler := NewRecurringHandler(deps.RecurringUC)
	recurring.Post("/", recurringHandler.Create)
	recurring.Get("/", recurringHandler.List)
	recurring.Get("/:id", recurringHandler.GetByID)
	recurring.Put("/:id", recurringHandler.Update)
	recurring.Delete("/:id", recurringHandler.Delete)

	// Expenses (protegido)
	expenses := protected.Group("/expenses")
	expenseHandler := NewExpenseHandler(deps.ExpenseUC)
	expenses.Post("/", expenseHandler.Create)
	expenses.Get("/", expenseHandler.List)
	expenses.Put("/:id", expenseHandler.Update)
	expenses.Delete("/:id", expenseHandler.Delete)

	// Reports (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/payment-summary", reportHandler.PaymentSummary)
	reports.Get("/revenue-by-customer", reportHandler.RevenueByCustomer)
	reports.Get("/sales-by-product", reportHandler.SalesByProduct)
	reports.Get("/profit-and-loss", reportHandler.ProfitAndLoss)
}
