package controllers

import (
	"encoding/json"
	"net/http"
)

// H is a response payload in the {success, message, ...} envelope shape.
type H map[string]interface{}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
