package validation

import (
	"strings"
	"testing"

	"github.com/MediSynth-io/todos/internal/common"
	"github.com/MediSynth-io/todos/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@x.com", "first.last+tag@example.co.uk", "u_1@sub.domain.io"}
	invalid := []string{"", "plain", "a@x", "@x.com", "a@.c", strings.Repeat("a", 250) + "@x.com"}

	for _, e := range valid {
		assert.True(t, ValidateEmail(e), e)
	}
	for _, e := range invalid {
		assert.False(t, ValidateEmail(e), e)
	}
}

func TestValidateRegister(t *testing.T) {
	ok := models.RegisterInput{Email: "a@x.com", Password: "pw", FirstName: "A", LastName: "B"}
	assert.NoError(t, ValidateRegister(ok))

	err := ValidateRegister(models.RegisterInput{Email: "nope", Password: "", FirstName: " ", LastName: ""})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 4)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
	assert.Contains(t, verr.Fields, "firstName")
	assert.Contains(t, verr.Fields, "lastName")

	long := ok
	long.Password = strings.Repeat("x", 73)
	err = ValidateRegister(long)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["password"], "72")
}

func TestValidateLogin(t *testing.T) {
	assert.NoError(t, ValidateLogin(models.LoginInput{Email: "a@x.com", Password: "pw"}))
	assert.NoError(t, ValidateLogin(models.LoginInput{Email: "a@x.com", Password: "pw", RememberMe: true}))

	err := ValidateLogin(models.LoginInput{Email: "a@x.com"})
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "password should not be empty", err.Error())
}

func TestValidateCreateTodo(t *testing.T) {
	assert.NoError(t, ValidateCreateTodo(models.CreateTodoInput{Title: "t"}))
	assert.NoError(t, ValidateCreateTodo(models.CreateTodoInput{Title: "t", Description: strPtr("d")}))
	assert.ErrorIs(t, ValidateCreateTodo(models.CreateTodoInput{Title: "   "}), common.ErrValidation)
}

func TestValidateUpdateTodo(t *testing.T) {
	done := true
	assert.NoError(t, ValidateUpdateTodo(models.UpdateTodoInput{}))
	assert.NoError(t, ValidateUpdateTodo(models.UpdateTodoInput{Completed: &done}))
	assert.NoError(t, ValidateUpdateTodo(models.UpdateTodoInput{Title: strPtr("new")}))
	assert.ErrorIs(t, ValidateUpdateTodo(models.UpdateTodoInput{Title: strPtr("")}), common.ErrValidation)
}

func TestErrorMessageIsStable(t *testing.T) {
	err := &Error{Fields: map[string]string{"b": "two", "a": "one"}}
	assert.Equal(t, "a one; b two", err.Error())
}

func TestFieldLengthLimits(t *testing.T) {
	atLimit := strings.Repeat("é", 255)
	overLimit := strings.Repeat("x", 256)

	tests := []struct {
		name  string
		err   error
		field string
	}{
		{"register first name", ValidateRegister(models.RegisterInput{Email: "a@x.com", Password: "pw", FirstName: overLimit, LastName: "B"}), "firstName"},
		{"register last name", ValidateRegister(models.RegisterInput{Email: "a@x.com", Password: "pw", FirstName: "A", LastName: overLimit}), "lastName"},
		{"create title", ValidateCreateTodo(models.CreateTodoInput{Title: overLimit}), "title"},
		{"update title", ValidateUpdateTodo(models.UpdateTodoInput{Title: &overLimit}), "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *Error
			require.ErrorAs(t, tt.err, &verr)
			assert.Equal(t, "must be at most 255 characters", verr.Fields[tt.field])
		})
	}

	// counted in characters, not bytes
	assert.NoError(t, ValidateCreateTodo(models.CreateTodoInput{Title: atLimit}))
	assert.NoError(t, ValidateUpdateTodo(models.UpdateTodoInput{Title: &atLimit}))
	assert.NoError(t, ValidateRegister(models.RegisterInput{Email: "a@x.com", Password: "pw", FirstName: atLimit, LastName: atLimit}))
}
