package main

import (
	"context"
	"log"

	"notescraft-be/internal/bootstrap"
	"notescraft-be/internal/config"
	"notescraft-be/internal/server"
	"notescraft-be/internal/tracer"
	"notescraft-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	srv := server.New(cfg, container)

	log.Fatal(srv.Run())
}
