package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"

	appauth "github.com/invogen/billing-api/internal/application/auth"
	"github.com/invogen/billing-api/internal/application/billing"
	"github.com/invogen/billing-api/internal/application/reporting"
	"github.com/invogen/billing-api/internal/application/scheduler"
	"github.com/invogen/billing-api/internal/application/usecase"
	infraemail "github.com/invogen/billing-api/internal/infrastructure/email"
	infrapdf "github.com/invogen/billing-api/internal/infrastructure/pdf"
	"github.com/invogen/billing-api/internal/infrastructure/postgres"
	infrarazorpay "github.com/invogen/billing-api/internal/infrastructure/razorpay"
	httpRouter "github.com/invogen/billing-api/internal/interfaces/http"
	"github.com/invogen/billing-api/pkg/config"
	"github.com/invogen/billing-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios sobre el pool; las mutaciones financieras corren sobre
	// transacciones vía TxRunner.
	shopRepo := postgres.NewShopRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	creditRepo := postgres.NewCustomerCreditRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	quoteRepo := postgres.NewQuoteRepository(pool)
	recurringRepo := postgres.NewRecurringInvoiceRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	reportingRepo := postgres.NewReportingRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	pdfRenderer := infrapdf.NewMarotoRenderer()
	notifier := infraemail.NewSendGridNotifier(cfg.SendGrid)
	gateway := infrarazorpay.NewGateway(cfg.Razorpay)

	invoiceUC := billing.NewInvoiceUseCase(
		txRunner, shopRepo, customerRepo, creditRepo,
		productRepo, invoiceRepo, paymentRepo,
		pdfRenderer, notifier, gateway, log,
	)
	quoteUC := billing.NewQuoteUseCase(txRunner, quoteRepo, customerRepo, productRepo, log)
	recurringUC := billing.NewRecurringUseCase(recurringRepo, customerRepo, productRepo, log)
	customerUC := usecase.NewCustomerUseCase(customerRepo, creditRepo)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo)
	expenseUC := usecase.NewExpenseUseCase(expenseRepo)
	shopUC := usecase.NewShopUseCase(shopRepo)
	reportUC := reporting.NewUseCase(reportingRepo, expenseRepo)
	authUC := appauth.NewAuthUseCase(userRepo, shopRepo, appauth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Scheduler: facturación recurrente y recordatorios de pago.
	sched := scheduler.New(recurringRepo, invoiceRepo, customerRepo, invoiceUC, notifier, log)
	cronRunner := cron.New()
	if _, err := cronRunner.AddFunc(cfg.Scheduler.RecurringCron, func() {
		sched.ProcessRecurringInvoices(context.Background())
	}); err != nil {
		log.Fatal().Err(err).Msg("cron de facturación recurrente")
	}
	if _, err := cronRunner.AddFunc(cfg.Scheduler.ReminderCron, func() {
		sched.ProcessPaymentReminders(context.Background())
	}); err != nil {
		log.Fatal().Err(err).Msg("cron de recordatorios")
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	// Corrida inicial: pone al día los perfiles vencidos tras una caída.
	go sched.ProcessRecurringInvoices(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ShopUC:      shopUC,
		CustomerUC:  customerUC,
		ProductUC:   productUC,
		ExpenseUC:   expenseUC,
		InvoiceUC:   invoiceUC,
		QuoteUC:     quoteUC,
		RecurringUC: recurringUC,
		ReportUC:    reportUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
