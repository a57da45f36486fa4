package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Contabilidad-api/internal/application/auth"
	"github.com/jhoicas/Contabilidad-api/internal/application/usecase"
	"github.com/jhoicas/Contabilidad-api/internal/domain/policy"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	TransactionUC  *usecase.TransactionUseCase
	PriceListUC    *usecase.PriceListUseCase
	UserUC         *usecase.UserUseCase
	ApprovalUC     *usecase.ApprovalUseCase
	NotificationUC *usecase.NotificationUseCase
	HealthChecks   map[string]HealthCheck
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	health := NewHealthHandler(deps.HealthChecks)
	app.Get("/health", health.Live)
	app.Get("/health/ready", health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.AuthUC)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)
	authGroup.Get("/me", requireAuth, authHandler.Me)
	authGroup.Put("/profile", requireAuth, authHandler.UpdateProfile)

	// Transactions
	txHandler := NewTransactionHandler(deps.TransactionUC)
	txs := api.Group("/transactions", requireAuth)
	txs.Get("/", Authorize(policy.Transactions, policy.Read), txHandler.List)
	txs.Post("/", Authorize(policy.Transactions, policy.Create), txHandler.Create)
	txs.Get("/:id", Authorize(policy.Transactions, policy.Read), txHandler.GetByID)
	txs.Put("/:id", Authorize(policy.Transactions, policy.Update), txHandler.UpdateQuantity)
	txs.Delete("/:id", Authorize(policy.Transactions, policy.Delete), txHandler.Delete)

	// Price list
	priceHandler := NewPriceListHandler(deps.PriceListUC)
	prices := api.Group("/price-list", requireAuth)
	prices.Get("/", Authorize(policy.PriceList, policy.Read), priceHandler.List)
	prices.Post("/", Authorize(policy.PriceList, policy.Create), priceHandler.Create)
	prices.Get("/:id", Authorize(policy.PriceList, policy.Read), priceHandler.GetByID)
	prices.Put("/:id", Authorize(policy.PriceList, policy.Update), priceHandler.Update)
	prices.Delete("/:id", Authorize(policy.PriceList, policy.Delete), priceHandler.Delete)
	prices.Post("/:id/sale", Authorize(policy.PriceList, policy.Sale), priceHandler.Sale)
	prices.Post("/:id/restock", Authorize(policy.PriceList, policy.Restock), priceHandler.Restock)

	// Users (owner)
	userHandler := NewUserHandler(deps.UserUC)
	users := api.Group("/users", requireAuth)
	users.Get("/", Authorize(policy.Users, policy.Read), userHandler.List)
	users.Get("/:id", Authorize(policy.Users, policy.Read), userHandler.GetByID)
	users.Put("/:id", Authorize(policy.Users, policy.Update), userHandler.Update)
	users.Delete("/:id", Authorize(policy.Users, policy.Delete), userHandler.Delete)

	// Approvals (owner)
	approvalHandler := NewApprovalHandler(deps.ApprovalUC)
	approvals := api.Group("/approvals", requireAuth)
	approvals.Get("/", Authorize(policy.Approvals, policy.Read), approvalHandler.List)
	approvals.Post("/:id/approve", Authorize(policy.Approvals, policy.Approve), approvalHandler.Approve)
	approvals.Delete("/:id/reject", Authorize(policy.Approvals, policy.Reject), approvalHandler.Reject)

	// Notifications (propias)
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications := api.Group("/notifications", requireAuth)
	notifications.Get("/", Authorize(policy.Notifications, policy.Read), notificationHandler.List)
	notifications.Post("/read-all", Authorize(policy.Notifications, policy.Update), notificationHandler.MarkAllRead)
	notifications.Post("/:id/read", Authorize(policy.Notifications, policy.Update), notificationHandler.MarkRead)
	notifications.Delete("/:id", Authorize(policy.Notifications, policy.Delete), notificationHandler.Delete)
}
