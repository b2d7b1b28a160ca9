package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"github.com/anuragkelkar1/onesignal-app/internal/api"
	"github.com/anuragkelkar1/onesignal-app/internal/config"
	"github.com/anuragkelkar1/onesignal-app/internal/db"
	"github.com/anuragkelkar1/onesignal-app/internal/feed"
	"github.com/anuragkelkar1/onesignal-app/internal/repository"
	"github.com/anuragkelkar1/onesignal-app/internal/service"
)

func main() {
	godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	conn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := conn.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	repo := repository.NewReservationRepository(conn)
	jobRepo := repository.NewJobRepository(conn)

	push := service.PushFromEnv()
	notifier := service.NewNotifyService(cfg, push)
	svc := service.NewReservationService(repo, notifier)
	jobSvc := service.NewJobService(jobRepo, cfg.PurgePendingAfter)

	listener := feed.NewListener(cfg.DatabaseURL)
	go func() {
		if err := listener.Run(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Feed listener stopped: %v", err)
		}
	}()

	c := cron.New()
	c.AddFunc("@daily", func() {
		if err := jobSvc.PurgeStalePending(); err != nil {
			log.Printf("%v", err)
		}
	})
	c.Start()

	userHandler := api.NewUserReservationHandler(svc)
	adminHandler := api.NewAdminHandler(svc)
	streamHandler := api.NewStreamHandler(svc, listener.Hub())

	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := conn.Ping(); err != nil {
			http.Error(w, "db unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public endpoints
	r.HandleFunc("/api/reservations", userHandler.CreateReservation).Methods("POST")
	r.HandleFunc("/api/reservations", userHandler.ListReservations).Methods("GET")
	r.HandleFunc("/api/reservations/stream", streamHandler.UserStream).Methods("GET")
	r.HandleFunc("/api/party-sizes", userHandler.PartySizes).Methods("GET")

	// Admin endpoints
	admin := r.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/reservations", adminHandler.ListPending).Methods("GET")
	admin.HandleFunc("/reservations/{id}/confirm", adminHandler.ConfirmReservation).Methods("PUT")
	admin.HandleFunc("/reservations/stream", streamHandler.AdminStream).Methods("GET")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	log.Printf("Server running on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handlers.LoggingHandler(os.Stdout, cors(r))))
}
