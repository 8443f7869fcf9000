// Command planstore serves floor plans from a SQLite file for local
// development. It speaks the same document protocol the editor syncs with.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ha1tch/floorplan/pkg/config"
	"github.com/ha1tch/floorplan/pkg/devstore"
)

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Printf("[STORE] %v (using defaults)", err)
	}
	listen := flag.String("listen", cfg.Store.Listen, "address to listen on")
	dbPath := flag.String("db", cfg.Store.Database, "SQLite database file")
	quiet := flag.Bool("quiet", false, "do not log requests")
	flag.Parse()

	db, err := devstore.OpenSQLite(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", *dbPath, err)
		os.Exit(1)
	}
	defer db.Close()

	repo := devstore.New(db)
	if err := repo.Init(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing schema: %v\n", err)
		os.Exit(1)
	}

	app := devstore.NewApp(repo, devstore.Options{
		AppName:    "planstore",
		LogRequest: !*quiet,
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Printf("[STORE] shutting down")
		if err := app.Shutdown(); err != nil {
			log.Printf("[STORE] shutdown: %v", err)
		}
	}()

	log.Printf("[STORE] serving %s on %s", *dbPath, *listen)
	if err := app.Listen(*listen); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
