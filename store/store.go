package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"todo-auth-api/api"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrNoUser means no row matched the username.
	ErrNoUser = errors.New("no such user")
	// ErrDuplicateUsername means the users.username unique constraint fired.
	ErrDuplicateUsername = errors.New("duplicate username")
	// ErrNoTodo means the todo does not exist or belongs to another user.
	ErrNoTodo = errors.New("no such todo")
)

const todoCacheTTL = 5 * time.Minute

const createTableSQL = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS todos (
    id SERIAL PRIMARY KEY,
    task TEXT NOT NULL,
    completed BOOLEAN NOT NULL,
    user_id INTEGER NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
);`

// Store bundles the database handle and the redis cache client. RDB may be
// nil, in which case the single-todo cache is simply bypassed.
type Store struct {
	DB  *sql.DB
	RDB *redis.Client
}

// Open connects to postgres and creates the tables if they are missing.
func Open(dbSource string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dbSource)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	if _, err = db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	log.Println("Database connection successful and tables created.")
	return db, nil
}

// OpenRedis connects to redis and verifies the connection with a ping.
func OpenRedis(addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}

	log.Println("Redis connection successful.")
	return rdb, nil
}

func (s *Store) InsertUser(ctx context.Context, username, passwordHash string) (int, error) {
	var newID int
	err := s.DB.QueryRowContext(
		ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id`,
		username, passwordHash,
	).Scan(&newID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, ErrDuplicateUsername
		}
		return 0, err
	}
	return newID, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*api.User, error) {
	var u api.User
	err := s.DB.QueryRowContext(
		ctx,
		"SELECT id, username, password_hash FROM users WHERE username = $1",
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, ErrNoUser
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserTodos returns every todo owned by the user.
func (s *Store) UserTodos(ctx context.Context, userID int) ([]api.Todo, error) {
	rows, err := s.DB.QueryContext(
		ctx,
		"SELECT id, task, completed FROM todos WHERE user_id = $1",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []api.Todo

	for rows.Next() {
		var t api.Todo
		if err = rows.Scan(&t.ID, &t.Task, &t.Completed); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return todos, nil
}

func (s *Store) CreateTodo(ctx context.Context, userID int, task string, completed bool) (int, error) {
	var newID int
	err := s.DB.QueryRowContext(
		ctx,
		`INSERT INTO todos (task, completed, user_id) VALUES ($1, $2, $3) RETURNING id`,
		task, completed, userID,
	).Scan(&newID)
	if err != nil {
		return 0, err
	}
	return newID, nil
}

// UserTodo fetches a single todo, read-through cached in redis.
func (s *Store) UserTodo(ctx context.Context, userID, id int) (*api.Todo, error) {
	cacheKey := todoCacheKey(userID, id)

	if s.RDB != nil {
		if val, err := s.RDB.Get(ctx, cacheKey).Result(); err == nil {
			log.Println("CACHE HIT for key:", cacheKey)
			var t api.Todo
			if err := json.Unmarshal([]byte(val), &t); err == nil {
				return &t, nil
			}
		}
	}

	var t api.Todo
	err := s.DB.QueryRowContext(
		ctx,
		"SELECT id, task, completed FROM todos WHERE id = $1 AND user_id = $2",
		id, userID,
	).Scan(&t.ID, &t.Task, &t.Completed)
	if err == sql.ErrNoRows {
		return nil, ErrNoTodo
	}
	if err != nil {
		return nil, err
	}

	if s.RDB != nil {
		cacheData, err := json.Marshal(t)
		if err != nil {
			log.Printf("WARN: Not able to cache todo, marshalling failed: %v", err)
		} else if err = s.RDB.Set(ctx, cacheKey, cacheData, todoCacheTTL).Err(); err != nil {
			log.Printf("WARN: Failed to set the cache key %s: %v", cacheKey, err)
		}
	}

	return &t, nil
}

// UpdateTodo rewrites a todo owned by the user and drops its cache entry.
func (s *Store) UpdateTodo(ctx context.Context, userID int, todo api.Todo) error {
	res, err := s.DB.ExecContext(
		ctx,
		"UPDATE todos SET task = $1, completed = $2 WHERE id = $3 AND user_id = $4",
		todo.Task, todo.Completed, todo.ID, userID,
	)
	if err != nil {
		return err
	}

	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrNoTodo
	}

	s.invalidateTodo(ctx, userID, todo.ID)
	return nil
}

// DeleteTodo removes a todo owned by the user and drops its cache entry.
func (s *Store) DeleteTodo(ctx context.Context, userID, id int) error {
	res, err := s.DB.ExecContext(
		ctx,
		"DELETE FROM todos WHERE id = $1 AND user_id = $2",
		id, userID,
	)
	if err != nil {
		return err
	}

	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrNoTodo
	}

	s.invalidateTodo(ctx, userID, id)
	return nil
}

func (s *Store) invalidateTodo(ctx context.Context, userID, id int) {
	if s.RDB == nil {
		return
	}
	cacheKey := todoCacheKey(userID, id)
	if err := s.RDB.Del(ctx, cacheKey).Err(); err != nil {
		log.Printf("WARN: Failed to delete the cache key %s: %v", cacheKey, err)
	}
}

func todoCacheKey(userID, id int) string {
	return fmt.Sprintf("todo:%d:%d", userID, id)
}
