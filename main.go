package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/rakadenta/wholesale-catalog/app/cmd"
	"github.com/rakadenta/wholesale-catalog/app/configs"
	"github.com/rakadenta/wholesale-catalog/app/routes"
	"github.com/rakadenta/wholesale-catalog/app/storage"
)

func main() {

	env := configs.LoadEnv()
	if len(os.Args) > 1 {
		cmd.RunCli(env)
		return
	}

	// Missing required config is fatal: nothing renders without it.
	if err := env.ValidateRequired(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	keys, err := configs.LoadSessionKeysFromEnv(env)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	db, err := configs.OpenConnection(env)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	log.Println("Database connected.")

	blob, err := storage.FromEnv(context.Background(), env)
	if err != nil {
		log.Fatalf("Blob store setup failed: %v", err)
	}
	log.Println("Blob store ready.")

	router, err := routes.NewRouter(routes.Deps{
		DB:   db,
		Env:  env,
		Keys: keys,
		Blob: blob,
	})
	if err != nil {
		log.Fatalf("Router setup failed: %v", err)
	}

	server := http.Server{
		Addr:    env.Port,
		Handler: router,
	}

	log.Printf("Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Println("failed to start the server:", err)
	}
}
