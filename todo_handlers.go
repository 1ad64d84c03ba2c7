package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"todo-auth-api/api"
	"todo-auth-api/auth"
	"todo-auth-api/store"
)

const dbTimeout = 3 * time.Second

// todoHandler dispatches /api/todos and /api/todos/{id} by method. It runs
// behind the auth middleware, so the user id is always in the context.
func todoHandler(w http.ResponseWriter, r *http.Request) {
	idStr := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/todos"), "/")

	if idStr == "" {
		switch r.Method {
		case http.MethodGet:
			GetTodos(w, r)
		case http.MethodPost:
			CreateTodo(w, r)
		default:
			respondMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid Todo ID")
		return
	}

	switch r.Method {
	case http.MethodGet:
		getTodo(w, r, id)
	case http.MethodPut:
		updateTodo(w, r, id)
	case http.MethodDelete:
		DeleteTodo(w, r, id)
	default:
		respondMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func GetTodos(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "No token provided")
		return
	}

	todos, err := dataStore.UserTodos(ctx, userID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			respondMessage(w, http.StatusGatewayTimeout, "Request timed out")
		} else {
			log.Printf("ERROR: Database query failed: %v", err)
			respondMessage(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	if todos == nil {
		todos = []api.Todo{}
	}
	respondJSON(w, http.StatusOK, todos)
}

func CreateTodo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "No token provided")
		return
	}

	var newTodo api.Todo
	if err := json.NewDecoder(r.Body).Decode(&newTodo); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if newTodo.Task == "" {
		respondMessage(w, http.StatusBadRequest, "The 'task' field is required")
		return
	}

	newID, err := dataStore.CreateTodo(ctx, userID, newTodo.Task, newTodo.Completed)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			respondMessage(w, http.StatusGatewayTimeout, "Request timed out")
		} else {
			log.Printf("ERROR: Error creating todo: %v", err)
			respondMessage(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	newTodo.ID = newID
	respondJSON(w, http.StatusCreated, newTodo)
}

func getTodo(w http.ResponseWriter, r *http.Request, id int) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "No token provided")
		return
	}

	todo, err := dataStore.UserTodo(ctx, userID, id)
	if err != nil {
		if errors.Is(err, store.ErrNoTodo) {
			respondMessage(w, http.StatusNotFound, "Todo not found")
		} else {
			log.Printf("ERROR: Error fetching todo: %v", err)
			respondMessage(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	respondJSON(w, http.StatusOK, todo)
}

func updateTodo(w http.ResponseWriter, r *http.Request, id int) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "No token provided")
		return
	}

	var updated api.Todo
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if updated.Task == "" {
		respondMessage(w, http.StatusBadRequest, "The 'task' field is required")
		return
	}

	updated.ID = id
	if err := dataStore.UpdateTodo(ctx, userID, updated); err != nil {
		if errors.Is(err, store.ErrNoTodo) {
			respondMessage(w, http.StatusNotFound, "Todo not found or not authorized")
		} else {
			log.Printf("ERROR: Error updating todo: %v", err)
			respondMessage(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

func DeleteTodo(w http.ResponseWriter, r *http.Request, id int) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "No token provided")
		return
	}

	if err := dataStore.DeleteTodo(ctx, userID, id); err != nil {
		if errors.Is(err, store.ErrNoTodo) {
			respondMessage(w, http.StatusNotFound, "Todo not found or not authorized")
		} else {
			log.Printf("ERROR: Error deleting todo: %v", err)
			respondMessage(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
