package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gnemet/dbadmin"
	"github.com/gnemet/dbadmin/database/pgpool"
	"github.com/gnemet/dbadmin/internal/catalog"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Application struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"application"`

	Server struct {
		Port   string `yaml:"port"`
		Prefix string `yaml:"prefix"`
	} `yaml:"server"`

	Database []struct {
		Name     string `yaml:"name"`
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
		Schema   string `yaml:"schema"`
		Default  bool   `yaml:"default"`
	} `yaml:"database"`

	Pool struct {
		MaxConns    int `yaml:"max_conns"`
		IdleMinutes int `yaml:"idle_minutes"`
		LifeMinutes int `yaml:"life_minutes"`
	} `yaml:"pool"`

	Templates struct {
		Path string `yaml:"path"`
	} `yaml:"templates"`

	Static struct {
		Path string `yaml:"path"`
	} `yaml:"static"`

	Catalog struct {
		Path string `yaml:"path"`
	} `yaml:"catalog"`
}

func loadConfig() (*Config, error) {
	_ = godotenv.Load() // Ignore error as it might not exist in prod

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, err
	}

	// Expand env vars in YAML
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	poolCfg := pgpool.Config{
		MaxConns:    cfg.Pool.MaxConns,
		IdleTimeout: time.Duration(cfg.Pool.IdleMinutes) * time.Minute,
		MaxLifetime: time.Duration(cfg.Pool.LifeMinutes) * time.Minute,
	}
	for _, d := range cfg.Database {
		if d.Default {
			poolCfg.Host = d.Host
			poolCfg.Port = d.Port
			poolCfg.User = d.User
			poolCfg.Password = d.Password
			poolCfg.Database = d.Database
			poolCfg.Schema = d.Schema
			break
		}
	}

	db, err := pgpool.New(poolCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// The cache must be complete before the listener binds; serving with a
	// partial cache would mis-build routine calls.
	cache, err := dbadmin.LoadSchemaCache(context.Background(), db)
	if err != nil {
		log.Fatalf("Failed to load schema cache: %v", err)
	}
	slog.Info("schema cache loaded", "routines", len(cache.Routines), "views", len(cache.Views))

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	store := &dbadmin.TemplateStore{Root: cfg.Templates.Path}

	r := mux.NewRouter()
	r.Use(requestLogger)

	prefix := cfg.Server.Prefix
	if prefix == "" {
		prefix = "/" + cat.Scope + "_admin"
	}
	r.PathPrefix(prefix + "/css/").Handler(
		http.StripPrefix(prefix+"/css/", http.FileServer(http.Dir(cfg.Static.Path))))

	scoped := r.PathPrefix(prefix + "/" + cat.Scope).Subrouter()
	cat.Register(scoped, db, cache, store)

	fmt.Printf("%s %s starting at http://localhost:%s%s\n",
		cfg.Application.Name, cfg.Application.Version, cfg.Server.Port, prefix)
	log.Fatal(http.ListenAndServe(":"+cfg.Server.Port, r))
}

// requestLogger tags every request with a short correlation id and logs it
// with its duration, the same epoch-style trail the error boundary writes.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.New().String()[:8]
		next.ServeHTTP(w, r)
		slog.Info("request", "id", id, "method", r.Method, "path", r.URL.Path, "dur", time.Since(start))
	})
}
