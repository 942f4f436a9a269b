package api

import (
	"net/http"

	"gatepass/db"
	_ "gatepass/docs"
	"gatepass/service/security"
	"gatepass/service/ticketing"
	"gatepass/service/worker"
	"gatepass/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Server struct, holds the router, dependencies and system config
type Server struct {
	// API router
	router *gin.Engine

	// Queries
	queries *db.Queries

	// Dependencies
	config      *util.Config
	jwtService  *security.JWTService
	tickets     *ticketing.Service
	distributor worker.TaskDistributor
}

// Constructor method for server struct
func NewServer(
	config *util.Config,
	queries *db.Queries,
	jwtService *security.JWTService,
	tickets *ticketing.Service,
	distributor worker.TaskDistributor,
) *Server {
	server := &Server{
		router:      gin.Default(),
		queries:     queries,
		config:      config,
		jwtService:  jwtService,
		tickets:     tickets,
		distributor: distributor,
	}
	server.RegisterHandler()
	return server
}

// Helper method to register handler for API
func (server *Server) RegisterHandler() {
	server.router.Use(server.CORSMiddleware())

	// Scanned QR codes open this page when the verify URL points at the API
	server.router.GET("/verify", server.VerifyPage)

	server.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	server.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := server.router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, SuccessMessage{"ok"})
		})

		api.POST("/tickets", server.CreateTicket)
		api.GET("/tickets/:token", server.GetTicketStatus)

		admin := api.Group("/admin")
		{
			admin.POST("/login", server.Login)
			admin.POST("/refresh", server.RefreshToken)
			admin.POST("/logout", server.Logout)

			// Open to everyone, only operators get ticket details
			admin.POST("/verify", server.OptionalAuthMiddleware(), server.Verify)

			protected := admin.Group("", server.AuthMiddleware())
			{
				protected.GET("/tickets", server.ListTickets)
				protected.GET("/tickets/:id", server.GetTicket)
				protected.POST("/tickets/:id/approve", server.ApproveTicket)
				protected.POST("/tickets/:id/cancel", server.CancelTicket)
				protected.POST("/tickets/:id/resend", server.ResendTicket)
				protected.GET("/stats", server.Stats)
			}
		}
	}
}

// Start server
func (server *Server) Start() error {
	return server.router.Run(":" + server.config.Port)
}

// The router as a plain http.Handler
func (server *Server) Handler() http.Handler {
	return server.router
}

// Error response struct
type ErrorResponse struct {
	Message string `json:"error"`
}

// Success message struct
type SuccessMessage struct {
	Message string `json:"message"`
}
