package web

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/adanyl0v/go-todo-lists/internal/models"
)

type registerForm struct {
	Name     string `form:"name" binding:"required,max=250"`
	Email    string `form:"email" binding:"required,email,max=100"`
	Password string `form:"password" binding:"required,max=255"`
}

type loginForm struct {
	Email    string `form:"email" binding:"required,email,max=100"`
	Password string `form:"password" binding:"required,max=255"`
}

type listForm struct {
	Name string `form:"name" binding:"required,max=50"`
}

type taskForm struct {
	Task string `form:"task" binding:"required,max=250"`
	Due  string `form:"due" binding:"omitempty,due_date"`
}

// DueDate returns the validated due date, or nil when none was entered.
func (f taskForm) DueDate() *time.Time {
	if f.Due == "" {
		return nil
	}
	due, err := time.Parse(models.DueDateLayout, f.Due)
	if err != nil {
		return nil
	}
	return &due
}

// fieldErrors maps a form field name to the message shown next to it.
type fieldErrors map[string]string

var registerValidationsOnce sync.Once

// registerFormValidations makes validation errors report the form field
// name instead of the Go struct field name and adds the due_date tag.
func registerFormValidations() {
	registerValidationsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("form"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("due_date", validateDueDate)
	})
}

// validateDueDate accepts YYYY-MM-DD dates that postgres can store as DATE.
func validateDueDate(fl validator.FieldLevel) bool {
	due, err := time.Parse(models.DueDateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	return due.Year() >= 1
}

// untrimmedFields keep their leading and trailing whitespace.
var untrimmedFields = map[string]bool{
	"password": true,
}

// bindForm trims the submitted fields, binds them into form and
// validates it. It returns nil when the form is valid.
func bindForm(c *gin.Context, form any) fieldErrors {
	if err := c.Request.ParseForm(); err != nil {
		return fieldErrors{"form": "The submitted form could not be read."}
	}
	for key, values := range c.Request.Form {
		if untrimmedFields[key] {
			continue
		}
		for i := range values {
			values[i] = strings.TrimSpace(values[i])
		}
	}

	err := c.ShouldBindWith(form, binding.Form)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fieldErrors{"form": "The submitted form could not be read."}
	}

	errs := make(fieldErrors, len(validationErrors))
	for _, fe := range validationErrors {
		if _, exists := errs[fe.Field()]; exists {
			continue
		}
		errs[fe.Field()] = validationMessage(fe)
	}
	return errs
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "due_date":
		return "Not a valid date value."
	default:
		return "Invalid value."
	}
}
