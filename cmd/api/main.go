package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careclinic/clinic-scheduler/internal/config"
	dbpkg "github.com/careclinic/clinic-scheduler/internal/db"
	"github.com/careclinic/clinic-scheduler/internal/handlers"
	"github.com/careclinic/clinic-scheduler/internal/middleware"
	"github.com/careclinic/clinic-scheduler/internal/routes"
	"github.com/careclinic/clinic-scheduler/internal/tokenstore"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	tokens, err := tokenstore.New(cfg.RedisURL, handlers.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, tokens)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
