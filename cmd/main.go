package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"google.golang.org/api/option"

	"tradeBack/internal/config"
	"tradeBack/utils"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
	cfg := config.LoadConfig()

	addrDefault := cfg.Server.Address
	if port := os.Getenv("PORT"); port != "" {
		addrDefault = ":" + port
	}
	addr := flag.String("addr", addrDefault, "HTTP network address")
	flag.Parse()

	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	db, err := openDB(cfg.Database.URL)
	if err != nil {
		errorLog.Fatal(err)
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	fcmClient := newFCMClient(cfg.FCM.CredentialsFile, infoLog, errorLog)

	tokenManager, err := utils.NewManager(cfg.Auth.SigningKey)
	if err != nil {
		errorLog.Fatal(err)
	}

	app := initializeApp(db, rdb, fcmClient, tokenManager, cfg.Auth.SigningKey, errorLog, infoLog)

	app.wsManager = NewWebSocketManager()
	go app.wsManager.Run()

	go app.cleanExpiredSessions()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
	})

	srv := &http.Server{
		Addr:         *addr,
		ErrorLog:     errorLog,
		Handler:      c.Handler(app.routes()),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	infoLog.Printf("Starting server on %s", *addr)
	if err := srv.ListenAndServe(); err != nil {
		errorLog.Fatal(err)
	}
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// newFCMClient returns nil when push credentials are not configured;
// notifications then stay DB-only.
func newFCMClient(credentialsFile string, infoLog, errorLog *log.Logger) *messaging.Client {
	if credentialsFile == "" {
		infoLog.Println("FCM credentials not configured, push disabled")
		return nil
	}
	if _, err := os.Stat(credentialsFile); err != nil {
		infoLog.Printf("FCM credentials file %s not found, push disabled", credentialsFile)
		return nil
	}
	app, err := firebase.NewApp(context.Background(), nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		errorLog.Printf("firebase init failed, push disabled: %v", err)
		return nil
	}
	client, err := app.Messaging(context.Background())
	if err != nil {
		errorLog.Printf("firebase messaging init failed, push disabled: %v", err)
		return nil
	}
	return client
}

// cleanExpiredSessions drops stale refresh sessions once an hour.
func (app *application) cleanExpiredSessions() {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for range t.C {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := app.userRepo.DeleteExpiredSessions(ctx, time.Now()); err != nil {
			app.errorLog.Printf("session cleanup: %v", err)
		}
		cancel()
	}
}
