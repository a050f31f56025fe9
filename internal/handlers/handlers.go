package handlers

import (
	"PassVault/internal/config"
	"PassVault/internal/middleware"
	"PassVault/internal/service"
	"PassVault/internal/token"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	vaultService *service.VaultService,
	broker *token.Broker,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)

	// Handlers
	userHandler := NewUserHandler(userService, logger, config)
	credentialHandler := NewCredentialHandler(vaultService, logger)
	tokenHandler := NewTokenHandler(broker, logger)

	// Выдача по токену доступна с любого origin: потребитель — отдельный
	// привилегированный контекст агента, а не origin дашборда. Единственная
	// защита — невоспроизводимость самого токена и его TTL.
	r.Group(func(r chi.Router) {
		r.Use(cors.AllowAll().Handler)
		r.Get("/api/passwords/get-credentials/{token}", tokenHandler.Claim)
	})

	// Остальной API — только для origin дашборда, с cookie.
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{config.FrontendOrigin},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
		}))
		r.Use(middleware.WithAuth(config.AuthSecret))

		// User routes
		r.Post("/api/user/register", userHandler.Register)
		r.Post("/api/user/login", userHandler.Login)
		r.Post("/api/user/test", userHandler.Status)

		// Vault routes
		r.Get("/api/passwords", credentialHandler.List)
		r.Post("/api/passwords", credentialHandler.Create)
		r.Put("/api/passwords/{id}", credentialHandler.Update)
		r.Put("/api/passwords/{id}/pin", credentialHandler.TogglePin)
		r.Delete("/api/passwords/{id}", credentialHandler.Delete)

		// Autofill token issuance
		r.Post("/api/passwords/generate-token", tokenHandler.Generate)
	})

	return &Handler{Router: r}
}
