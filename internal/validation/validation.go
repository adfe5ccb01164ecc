// Package validation checks request bodies before they reach the services.
// There is one function per input shape.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/MediSynth-io/todos/internal/common"
	"github.com/MediSynth-io/todos/internal/models"
)

const (
	// bcrypt ignores everything past 72 bytes
	maxPasswordBytes = 72
	// VARCHAR(255) on postgres
	maxFieldLength = 255
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Error lists the offending fields. It matches common.ErrValidation.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return strings.Join(parts, "; ")
}

func (e *Error) Is(target error) bool {
	return target == common.ErrValidation
}

type collector map[string]string

func (c collector) add(field, msg string) {
	if _, ok := c[field]; !ok {
		c[field] = msg
	}
}

func (c collector) err() error {
	if len(c) == 0 {
		return nil
	}
	return &Error{Fields: c}
}

// ValidateEmail checks if an email is valid
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email) && len(email) < 255
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func tooLong(s string) bool {
	return utf8.RuneCountInString(s) > maxFieldLength
}

var tooLongMsg = fmt.Sprintf("must be at most %d characters", maxFieldLength)

// ValidateRegister checks a registration request.
func ValidateRegister(in models.RegisterInput) error {
	c := collector{}

	if !ValidateEmail(in.Email) {
		c.add("email", "must be a valid email")
	}
	if in.Password == "" {
		c.add("password", "should not be empty")
	} else if len(in.Password) > maxPasswordBytes {
		c.add("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}
	if isBlank(in.FirstName) {
		c.add("firstName", "should not be empty")
	} else if tooLong(in.FirstName) {
		c.add("firstName", tooLongMsg)
	}
	if isBlank(in.LastName) {
		c.add("lastName", "should not be empty")
	} else if tooLong(in.LastName) {
		c.add("lastName", tooLongMsg)
	}

	return c.err()
}

// ValidateLogin checks a login request.
func ValidateLogin(in models.LoginInput) error {
	c := collector{}

	if !ValidateEmail(in.Email) {
		c.add("email", "must be a valid email")
	}
	if in.Password == "" {
		c.add("password", "should not be empty")
	}

	return c.err()
}

// ValidateCreateTodo checks a todo creation request.
func ValidateCreateTodo(in models.CreateTodoInput) error {
	c := collector{}

	if isBlank(in.Title) {
		c.add("title", "should not be empty")
	} else if tooLong(in.Title) {
		c.add("title", tooLongMsg)
	}

	return c.err()
}

// ValidateUpdateTodo checks a todo update request. Absent fields are fine.
func ValidateUpdateTodo(in models.UpdateTodoInput) error {
	c := collector{}

	if in.Title != nil {
		if isBlank(*in.Title) {
			c.add("title", "should not be empty")
		} else if tooLong(*in.Title) {
			c.add("title", tooLongMsg)
		}
	}

	return c.err()
}
