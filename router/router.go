package router

import (
	"time"

	"expense-tracker/api"
	"expense-tracker/config"
	_ "expense-tracker/docs"
	"expense-tracker/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter sets up the HTTP routes
func SetupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	r.Use(CORSMiddleware())

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/api/health", api.Health)

	// Credential endpoints, no bearer token required
	authHandler := api.NewAuthHandler(cfg)
	resetHandler := api.NewPasswordResetHandler(cfg)
	auth := r.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/signin", middleware.RateLimit(10, time.Minute), authHandler.Signin)
		auth.POST("/forgot-password", resetHandler.ForgotPassword)
		auth.POST("/send-otp", middleware.RateLimit(5, time.Minute), resetHandler.SendOTP)
		auth.POST("/verify-otp", resetHandler.VerifyOTP)
		auth.POST("/reset-password-with-otp", resetHandler.ResetPassword)
	}

	// Everything below requires a valid access token
	authorized := r.Group("")
	authorized.Use(middleware.JWTAuth())
	{
		dashboardHandler := api.NewDashboardHandler()
		authorized.GET("/dashboard", dashboardHandler.Summary)

		expenseHandler := api.NewExpenseHandler()
		expenses := authorized.Group("/api/expenses")
		{
			exportHandler := api.NewExportHandler()
			expenses.GET("/export/csv", exportHandler.ExportCSV)
			expenses.GET("/export/excel", exportHandler.ExportExcel)

			expenses.POST("", expenseHandler.Create)
			expenses.GET("", expenseHandler.List)
			expenses.GET("/:id", expenseHandler.Get)
			expenses.PUT("/:id", expenseHandler.Update)
			expenses.DELETE("/:id", expenseHandler.Delete)
		}

		incomeHandler := api.NewIncomeHandler()
		incomes := authorized.Group("/api/incomes")
		{
			incomes.POST("", incomeHandler.Create)
			incomes.GET("", incomeHandler.List)
			incomes.GET("/:id", incomeHandler.Get)
			incomes.PUT("/:id", incomeHandler.Update)
			incomes.DELETE("/:id", incomeHandler.Delete)
		}
	}

	return r
}

// CORSMiddleware permissive CORS for the SPA frontend
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
