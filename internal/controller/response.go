package controller

import (
    "encoding/json"
    "net/http"
)

type errorResponse struct {
    Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
    writeJSON(w, status, errorResponse{Detail: detail})
}
