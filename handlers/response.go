package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"examhub/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Response is the envelope of every successful reply.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type PaginatedResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

func respondPage(c *gin.Context, message string, data interface{}, total int64, page services.Pagination) {
	c.JSON(http.StatusOK, PaginatedResponse{
		Success: true,
		Message: message,
		Data:    data,
		Total:   total,
		Page:    page.Page,
		Limit:   page.Limit,
	})
}

func abortDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// abortInternal replies 500 with detail. err is attached to the context for
// the request logger and never sent to the client.
func abortInternal(c *gin.Context, detail string, err error) {
	_ = c.Error(err)
	abortDetail(c, http.StatusInternalServerError, detail)
}

// abortBinding renders a binding failure as 422 with a per-field list when
// the validator produced one.
func abortBinding(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fieldPath(fe), Message: fieldMessage(fe)})
		}
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"detail": "Validation failed",
			"errors": fields,
		})
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		abortDetail(c, http.StatusUnprocessableEntity, fmt.Sprintf("Invalid value for field %q", typeErr.Field))
		return
	}
	abortDetail(c, http.StatusUnprocessableEntity, err.Error())
}

// fieldPath turns "CreateMCQRequest.Options.CorrectOption" into
// "options.correct_option" using the json names where they are known.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	var parts []string
	for _, p := range strings.Split(ns, ".") {
		if embeddedStructs[p] {
			continue
		}
		parts = append(parts, snake(p))
	}
	return strings.Join(parts, ".")
}

var embeddedStructs = map[string]bool{"QuestionBase": true, "Pagination": true}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "email":
		return "must be a valid email address"
	}
	return "failed on " + fe.Tag()
}

// uuidParam parses a path parameter, replying 422 when it is not a UUID.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		abortDetail(c, http.StatusUnprocessableEntity, fmt.Sprintf("Invalid %s: must be a UUID", name))
		return uuid.Nil, false
	}
	return id, true
}
