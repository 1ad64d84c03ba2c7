package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"todo-auth-api/auth"
	"todo-auth-api/store"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

var (
	dataStore *store.Store
	tokens    *auth.TokenManager
	authSvc   *auth.Service
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading config from the environment")
	}

	dbSource := os.Getenv("DB_SOURCE")
	if dbSource == "" {
		log.Fatal("FATAL: DB_SOURCE environment variable is not set.")
	}

	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET_KEY environment variable is not set.")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		log.Fatal("FATAL: REDIS_ADDR environment variable is not set.")
	}

	db, err := store.Open(dbSource)
	if err != nil {
		log.Fatalf("FATAL: Could not initialize database: %v", err)
	}
	defer db.Close()

	rdb, err := store.OpenRedis(redisAddr)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to Redis: %v for %s", err, redisAddr)
	}
	defer rdb.Close()

	dataStore = &store.Store{DB: db, RDB: rdb}
	tokens = auth.NewTokenManager([]byte(jwtSecret), auth.TokenTTL)
	authSvc = auth.NewService(dataStore, auth.NewHasher(), tokens)

	http.HandleFunc("/api/auth/register", registerHandler)
	http.HandleFunc("/api/auth/login", loginHandler)
	http.HandleFunc("/api/todos", tokens.Middleware(todoHandler))
	http.HandleFunc("/api/todos/", tokens.Middleware(todoHandler))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Println("Server listening to port " + port)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("FATAL: Server failed to start: %v", err)
	}
}
