package helper

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"dualcam/apperror"
)

func ReturnFailure(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	var errr apperror.Apperror
	switch {
	case errors.As(err, &errr):
		code, msg := errr.StatusAndMessage()
		w.Header().Set("status", strconv.Itoa(code))
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"error": msg})
	default:
		code, msg := apperror.ServerError.StatusAndMessage()
		w.Header().Set("status", strconv.Itoa(code))
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"error": msg})
	}
}

func ReturnSuccess(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("status", strconv.Itoa(http.StatusOK))
	w.WriteHeader(http.StatusOK)

	if data == nil {
		return
	}

	json.NewEncoder(w).Encode(data)
}
