package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/openshelf/openshelf/internal/entities"
)

var tagNameOnce sync.Once

// registerTagNames makes validator report JSON field names instead of Go
// struct field names, so 422 responses key errors by the wire name.
func registerTagNames() {
	tagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindJSON binds and validates the request body. On validation failure it
// writes the 422 response and returns false; on malformed JSON it writes
// a 400 and returns false.
func bindJSON(c *gin.Context, obj any) bool {
	registerTagNames()

	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		respondValidationErrors(c, translateValidationErrors(verrs))
		return false
	}

	respondBadRequest(c, "invalid request body")
	return false
}

func translateValidationErrors(verrs validator.ValidationErrors) map[string][]string {
	errs := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if field == "" {
			field = strings.ToLower(fe.StructField())
		}
		errs[field] = append(errs[field], validationMessage(field, fe))
	}
	return errs
}

func validationMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param())
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("The %s is not a valid date.", field)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}

// fieldErrors accumulates semantic validation failures (dangling foreign
// keys, date ordering) that static tags cannot express.
type fieldErrors map[string][]string

func (fe fieldErrors) add(field, message string) {
	fe[field] = append(fe[field], message)
}

func (fe fieldErrors) empty() bool {
	return len(fe) == 0
}

// mustParseDate converts a tag-validated date string. The datetime tag
// has already run, so a parse failure here is a programming error.
func mustParseDate(s string) entities.Date {
	d, err := entities.ParseDate(s)
	if err != nil {
		panic(fmt.Sprintf("date %q passed validation but failed to parse: %v", s, err))
	}
	return d
}
