package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"orbita/backend/config"
	"orbita/backend/database"
	"orbita/backend/routes"
)

func main() {
	cfg := config.Load()
	database.Connect(cfg.DatabaseURL)
	defer database.Close()
	database.EnsureSchema()

	r := gin.Default()
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "orbita-backend"})
	})
	routes.Register(r, cfg)
	log.Printf("server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
