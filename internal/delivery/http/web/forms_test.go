package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newFormContext(t *testing.T, form url.Values) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	registerFormValidations()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	return c
}

func TestBindForm(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want fieldErrors
	}{
		{
			name: "valid",
			form: url.Values{"task": {"Buy milk"}, "due": {"2024-01-01"}},
			want: nil,
		},
		{
			name: "valid without due date",
			form: url.Values{"task": {"Buy milk"}},
			want: nil,
		},
		{
			name: "blank task",
			form: url.Values{"task": {"   "}},
			want: fieldErrors{"task": "This field is required."},
		},
		{
			name: "too long",
			form: url.Values{"task": {strings.Repeat("x", 251)}},
			want: fieldErrors{"task": "Field cannot be longer than 250 characters."},
		},
		{
			name: "year zero",
			form: url.Values{"task": {"Buy milk"}, "due": {"0000-01-01"}},
			want: fieldErrors{"due": "Not a valid date value."},
		},
		{
			name: "impossible date",
			form: url.Values{"task": {"Buy milk"}, "due": {"2024-02-30"}},
			want: fieldErrors{"due": "Not a valid date value."},
		},
		{
			name: "bad date",
			form: url.Values{"task": {"Buy milk"}, "due": {"01/02/2024"}},
			want: fieldErrors{"due": "Not a valid date value."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var form taskForm
			got := bindForm(newFormContext(t, tt.form), &form)
			if len(got) != len(tt.want) {
				t.Fatalf("errors: got %v, want %v", got, tt.want)
			}
			for field, message := range tt.want {
				if got[field] != message {
					t.Errorf("error for %s: got %q, want %q", field, got[field], message)
				}
			}
		})
	}
}

func TestBindFormTrimsExceptPassword(t *testing.T) {
	var form registerForm
	errs := bindForm(newFormContext(t, url.Values{
		"name":     {"  Alice  "},
		"email":    {" a@x.com "},
		"password": {" secret "},
	}), &form)
	if errs != nil {
		t.Fatalf("bindForm returned errors: %v", errs)
	}

	if form.Name != "Alice" || form.Email != "a@x.com" {
		t.Errorf("form: got name %q email %q, want trimmed values", form.Name, form.Email)
	}
	if form.Password != " secret " {
		t.Errorf("password: got %q, want it untouched", form.Password)
	}
}

func TestTaskFormDueDate(t *testing.T) {
	if due := (taskForm{}).DueDate(); due != nil {
		t.Errorf("empty due: got %v, want nil", due)
	}

	due := taskForm{Due: "2024-01-01"}.DueDate()
	if due == nil {
		t.Fatal("DueDate returned nil")
	}
	want := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !due.Equal(want) {
		t.Errorf("due: got %v, want %v", due, want)
	}
}
