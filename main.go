package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "warehouse/internal/config"
	"warehouse/internal/dataservice"
	router "warehouse/internal/http"
	"warehouse/internal/http/handlers"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()

	fc, err := intconfig.LoadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}
	fc.Apply(&env)

	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db := intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	client := func(family string) *dataservice.Client {
		return dataservice.NewClient(fc.UpstreamFor(family, env.UpstreamBaseURL))
	}

	var inventory dataservice.InventoryService
	if fc.InventoryMode == "mysql" {
		inventory = dataservice.InventorySQL{DB: db}
	} else {
		inventory = dataservice.NewInventoryService(client("inventory"))
	}

	h := &handlers.Handler{
		Env:       env,
		DB:        db,
		Orders:    dataservice.NewOrderService(client("orders")),
		Packing:   dataservice.NewPackingService(client("packing")),
		Workers:   dataservice.NewWorkerService(client("workers")),
		Inventory: inventory,
		Chatbot:   dataservice.NewChatbotService(client("chatbot")),
	}

	r := router.NewRouter(env, h)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly.")
}
