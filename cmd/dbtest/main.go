package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/gnemet/dbadmin"
	"github.com/gnemet/dbadmin/database/pgpool"
	"github.com/joho/godotenv"
)

// Connects with the same env settings as the server and dumps the schema
// cache, so a broken introspection setup is visible before deployment.
func main() {
	_ = godotenv.Load()

	cfg := pgpool.Config{
		Host:        os.Getenv("DB_HOST"),
		Port:        os.Getenv("DB_PORT"),
		User:        os.Getenv("DB_USER"),
		Password:    os.Getenv("DB_PASSWORD"),
		Database:    os.Getenv("DB_NAME"),
		Schema:      os.Getenv("DB_SCHEMA"),
		MaxConns:    2,
		IdleTimeout: 5 * time.Minute,
		MaxLifetime: time.Hour,
	}

	db, err := pgpool.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer db.Close()

	cache, err := dbadmin.LoadSchemaCache(context.Background(), db)
	if err != nil {
		log.Fatalf("Failed to load schema cache: %v", err)
	}

	fmt.Printf("Routines: %d\n", len(cache.Routines))
	routineNames := make([]string, 0, len(cache.Routines))
	for name := range cache.Routines {
		routineNames = append(routineNames, string(name))
	}
	sort.Strings(routineNames)
	for _, name := range routineNames {
		fmt.Printf("  %s(", name)
		for i, p := range cache.Routines[dbadmin.RoutineName(name)] {
			if i > 0 {
				fmt.Print(", ")
			}
			fmt.Printf("%s %s", p.Name, p.Type)
		}
		fmt.Println(")")
	}

	fmt.Printf("Views: %d\n", len(cache.Views))
	viewNames := make([]string, 0, len(cache.Views))
	for name := range cache.Views {
		viewNames = append(viewNames, string(name))
	}
	sort.Strings(viewNames)
	for _, name := range viewNames {
		fields := cache.Views[dbadmin.ViewName(name)]
		fieldNames := make([]string, 0, len(fields))
		for f := range fields {
			fieldNames = append(fieldNames, string(f))
		}
		sort.Strings(fieldNames)
		fmt.Printf("  %s:", name)
		for _, f := range fieldNames {
			fmt.Printf(" %s %s", f, fields[dbadmin.FieldName(f)])
		}
		fmt.Println()
	}
}
