package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-collection-api/internal/model"
	"go-collection-api/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    apierror.CodeInternal,
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else if errors.Is(err, model.ErrRecordNotFound) {
		status = http.StatusNotFound
		body.Code = apierror.CodeNotFound
		body.Message = "Record not found"
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusNotFound
		body.Code = apierror.CodeNotFound
		body.Message = "User not found"
	} else if errors.Is(err, model.ErrUsernameTaken) {
		status = http.StatusConflict
		body.Code = apierror.CodeAlreadyExists
		body.Message = "Username already exists"
	} else if errors.Is(err, model.ErrInvalidCredentials) {
		status = http.StatusUnauthorized
		body.Code = apierror.CodeUnauthorized
		body.Message = "Invalid credentials"
	} else if errors.Is(err, model.ErrInvalidToken) || errors.Is(err, model.ErrUnauthorized) {
		status = http.StatusUnauthorized
		body.Code = apierror.CodeUnauthorized
		body.Message = "Authentication required"
	} else if errors.Is(err, model.ErrForbidden) {
		status = http.StatusForbidden
		body.Code = apierror.CodeForbidden
		body.Message = "Access denied"
	} else if errors.Is(err, model.ErrUnknownCollection) {
		status = http.StatusNotFound
		body.Code = apierror.CodeNotFound
		body.Message = "Unknown collection"
	} else if errors.Is(err, model.ErrInvalidCollection) || errors.Is(err, model.ErrInvalidRecordID) || errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		body.Code = apierror.CodeBadRequest
		body.Message = err.Error()
	} else {
		// Unclassified errors stay out of the body but must reach the logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, model.APIResponse{
		Success: false,
		Error:   body,
	})
}

// decodeObject reads a JSON object body. Arrays, scalars and null are rejected.
func decodeObject(r *http.Request) (map[string]any, error) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, apierror.BadRequest("invalid JSON body", "")
	}
	if payload == nil {
		return nil, apierror.BadRequest("request body must be a JSON object", "")
	}
	return payload, nil
}
