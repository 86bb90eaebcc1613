package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"satellite-agent/internal/adapter/httpapi"
	"satellite-agent/internal/di"
)

func main() {
	c, err := di.NewContainer("server")
	if err != nil {
		log.Fatalf("init failed: %v", err)
	}
	defer c.Close()

	port := c.Config.GetInt("PORT", 8080)
	api := httpapi.NewServer(c.Agent, c.Logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: api.Handler(),
		// Search and download hold the request open while the browser works.
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      20 * time.Minute,
		IdleTimeout:       time.Minute,
	}

	c.Logger.Info("http server listening", "port", port)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
