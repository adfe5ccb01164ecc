package models

import (
	"encoding/json"
	"time"
)

// Todo is an item on a user's list
type Todo struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Completed   bool      `json:"completed" db:"completed"`
	UserID      string    `json:"userId" db:"user_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateTodoInput is the body of POST /todos
type CreateTodoInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// UpdateTodoInput is the body of PATCH /todos/{id}. Nil fields are left
// unchanged, except that an explicit "description": null clears the
// description.
type UpdateTodoInput struct {
	Title          *string `json:"title,omitempty"`
	Description    *string `json:"description,omitempty"`
	Completed      *bool   `json:"completed,omitempty"`
	DescriptionSet bool    `json:"-"`
}

func (in *UpdateTodoInput) UnmarshalJSON(data []byte) error {
	type plain UpdateTodoInput
	var raw struct {
		plain
		Description json.RawMessage `json:"description"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*in = UpdateTodoInput(raw.plain)
	in.Description = nil
	in.DescriptionSet = raw.Description != nil
	if in.DescriptionSet {
		return json.Unmarshal(raw.Description, &in.Description)
	}
	return nil
}

// Apply merges the provided fields into t.
func (in UpdateTodoInput) Apply(t *Todo) {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.DescriptionSet || in.Description != nil {
		t.Description = in.Description
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
}
