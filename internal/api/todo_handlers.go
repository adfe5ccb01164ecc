package api

import (
	"net/http"

	"github.com/MediSynth-io/todos/internal/common"
	"github.com/MediSynth-io/todos/internal/models"
	"github.com/MediSynth-io/todos/internal/validation"
	"github.com/go-chi/chi/v5"
)

func (api *Api) CreateTodoHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		api.writeError(w, r, common.Errorf(common.ErrUnauthorized, "Unauthorized"))
		return
	}

	var in models.CreateTodoInput
	if err := decodeJSON(w, r, &in); err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := validation.ValidateCreateTodo(in); err != nil {
		api.writeError(w, r, err)
		return
	}

	todo, err := api.todos.Create(r.Context(), identity.UserID, in)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

func (api *Api) ListTodosHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		api.writeError(w, r, common.Errorf(common.ErrUnauthorized, "Unauthorized"))
		return
	}

	list, err := api.todos.FindAll(r.Context(), identity.UserID)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (api *Api) GetTodoHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		api.writeError(w, r, common.Errorf(common.ErrUnauthorized, "Unauthorized"))
		return
	}

	todo, err := api.todos.FindOne(r.Context(), chi.URLParam(r, "id"), identity.UserID)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (api *Api) UpdateTodoHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		api.writeError(w, r, common.Errorf(common.ErrUnauthorized, "Unauthorized"))
		return
	}

	var in models.UpdateTodoInput
	if err := decodeJSON(w, r, &in); err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := validation.ValidateUpdateTodo(in); err != nil {
		api.writeError(w, r, err)
		return
	}

	todo, err := api.todos.Update(r.Context(), chi.URLParam(r, "id"), identity.UserID, in)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// DeleteTodoHandler answers 200 with an empty body.
func (api *Api) DeleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		api.writeError(w, r, common.Errorf(common.ErrUnauthorized, "Unauthorized"))
		return
	}

	if err := api.todos.Remove(r.Context(), chi.URLParam(r, "id"), identity.UserID); err != nil {
		api.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
