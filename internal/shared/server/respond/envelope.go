package respond

import (
	"net/http"
	"reflect"
)

const defaultMessage = "Success"

// SuccessEnvelope is the wire shape of a successful reply.
type SuccessEnvelope struct {
	Success    bool   `json:"success"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope is the wire shape of a failed reply.
type ErrorEnvelope struct {
	Success    bool      `json:"success"`
	Error      ErrorBody `json:"error"`
	StatusCode int       `json:"statusCode"`
}

// Pagination describes the window of a paginated listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes TotalPages for the given window.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// PageData is the data member of a paginated envelope.
type PageData struct {
	Items      any `json:"items"`
	Pagination any `json:"pagination"`
}

// PaginatedEnvelope is the wire shape of a paginated listing.
type PaginatedEnvelope struct {
	Success bool     `json:"success"`
	Data    PageData `json:"data"`
	Message string   `json:"message"`
}

// NewSuccess builds a success envelope. Empty message means "Success" and a
// zero status means 200.
func NewSuccess(data any, message string, statusCode int) SuccessEnvelope {
	if message == "" {
		message = defaultMessage
	}
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	return SuccessEnvelope{
		Success:    true,
		Data:       data,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewError builds an error envelope. Nil details are left out of the JSON
// entirely; a zero status means 400.
func NewError(code, message string, details any, statusCode int) ErrorEnvelope {
	if statusCode == 0 {
		statusCode = http.StatusBadRequest
	}
	return ErrorEnvelope{
		Success: false,
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: normalizeDetails(details),
		},
		StatusCode: statusCode,
	}
}

// normalizeDetails turns typed nils (nil slices, maps, pointers) into a nil
// interface so omitempty drops the key.
func normalizeDetails(details any) any {
	if details == nil {
		return nil
	}
	v := reflect.ValueOf(details)
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	}
	return details
}

// NewPaginated builds a paginated success envelope.
func NewPaginated(items any, pagination any, message string) PaginatedEnvelope {
	if message == "" {
		message = defaultMessage
	}
	return PaginatedEnvelope{
		Success: true,
		Data: PageData{
			Items:      items,
			Pagination: pagination,
		},
		Message: message,
	}
}
