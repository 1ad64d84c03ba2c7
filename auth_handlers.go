package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"todo-auth-api/api"
	"todo-auth-api/auth"
)

func registerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var creds api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if creds.Username == "" || creds.Password == "" {
		respondMessage(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, err := authSvc.Register(r.Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			respondMessage(w, http.StatusConflict, "Username already taken")
			return
		}
		log.Printf("ERROR: Error during registration: %v", err)
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, api.TokenResponse{
		Message: "User registered successfully",
		Token:   token,
	})
}

func loginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var creds api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if creds.Username == "" || creds.Password == "" {
		respondMessage(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, err := authSvc.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			respondMessage(w, http.StatusNotFound, "User not found")
		case errors.Is(err, auth.ErrInvalidPassword):
			respondMessage(w, http.StatusUnauthorized, "Invalid password")
		default:
			log.Printf("ERROR: Error during login: %v", err)
			respondMessage(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, api.TokenResponse{
		Message: "Login successful",
		Token:   token,
	})
}
