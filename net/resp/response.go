package resp

import (
	"encoding/json"
	"net/http"

	"github.com/ncobase/ncrud/ecode"
)

// Exception represents the response structure.
type Exception struct {
	Status  int    `json:"status,omitempty"`  // HTTP status
	Code    int    `json:"code,omitempty"`    // Business code
	Message string `json:"message,omitempty"` // Message
	Errors  any    `json:"errors,omitempty"`  // Validation errors
	Data    any    `json:"data,omitempty"`    // Response data
}

// Success handles success responses.
func Success(w http.ResponseWriter, data ...any) {
	WithStatusCode(w, http.StatusOK, data...)
}

// WithStatusCode handles success responses with custom status code.
func WithStatusCode(w http.ResponseWriter, statusCode int, data ...any) {
	var payload any
	if len(data) > 0 {
		payload = data[0]
	}
	if msg, ok := payload.(string); ok {
		payload = map[string]any{"message": msg}
	}
	if payload == nil {
		payload = map[string]any{"message": "ok"}
	}
	if statusCode < 200 || statusCode >= 400 {
		Fail(w, &Exception{Status: statusCode})
		return
	}
	writeJSON(w, statusCode, payload)
}

// Fail handles failure responses.
func Fail(w http.ResponseWriter, r *Exception) {
	if r == nil {
		r = &Exception{
			Status:  http.StatusInternalServerError,
			Code:    ecode.ServerErr,
			Message: ecode.Text(ecode.ServerErr),
		}
	}
	statusCode, result := buildFailureResponse(r)
	writeJSON(w, statusCode, result)
}

// FailWithError classifies err through ecode and writes the failure.
func FailWithError(w http.ResponseWriter, err error, details ...any) {
	code := ecode.FromError(err)
	r := &Exception{
		Status:  ecode.ToHTTPStatus(code),
		Code:    code,
		Message: ecode.Text(code),
	}
	if len(details) > 0 {
		r.Errors = details[0]
	}
	Fail(w, r)
}

// BadRequest writes a 400 with optional validation details.
func BadRequest(w http.ResponseWriter, message string, details ...any) {
	r := &Exception{Status: http.StatusBadRequest, Code: ecode.ParamErr, Message: message}
	if len(details) > 0 {
		r.Errors = details[0]
	}
	Fail(w, r)
}

// NotFound writes a 404.
func NotFound(w http.ResponseWriter, message ...string) {
	r := &Exception{Status: http.StatusNotFound, Code: ecode.NotFound}
	if len(message) > 0 {
		r.Message = message[0]
	}
	Fail(w, r)
}

// InternalServer writes a 500.
func InternalServer(w http.ResponseWriter, message ...string) {
	r := &Exception{Status: http.StatusInternalServerError, Code: ecode.ServerErr}
	if len(message) > 0 {
		r.Message = message[0]
	}
	Fail(w, r)
}

// buildFailureResponse builds the failure response.
func buildFailureResponse(r *Exception) (int, any) {
	status := http.StatusBadRequest
	code := ecode.RequestErr

	if r.Status != 0 {
		status = r.Status
	}
	if r.Code != 0 {
		code = r.Code
	}
	message := r.Message
	if message == "" {
		message = ecode.Text(code)
	}

	return status, &Exception{
		Code:    code,
		Message: message,
		Errors:  r.Errors,
	}
}

func writeJSON(w http.ResponseWriter, code int, res any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
	}
}
