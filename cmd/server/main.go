// cmd/server/main.go
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/Sannikov1993/PosResto-sub000/internal/attendance"
	"github.com/Sannikov1993/PosResto-sub000/internal/routes"
	"github.com/Sannikov1993/PosResto-sub000/internal/storage"
)

func main() {
	_ = godotenv.Load()

	db := storage.OpenDB()
	svc := attendance.NewService(db)
	r := routes.NewRouter(db, svc)

	// The reaper also runs lazily on read paths; the cron pass catches
	// tenants nobody is looking at.
	c := cron.New()
	if _, err := c.AddFunc("@every 10m", func() { svc.ReapStale(0) }); err != nil {
		log.Fatal(err)
	}
	c.Start()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	addr := ":" + port
	log.Printf("Server running on %s", addr)

	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
