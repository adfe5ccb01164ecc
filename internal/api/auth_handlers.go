package api

import (
	"net/http"

	"github.com/MediSynth-io/todos/internal/common"
	"github.com/MediSynth-io/todos/internal/models"
	"github.com/MediSynth-io/todos/internal/validation"
)

func (api *Api) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := validation.ValidateRegister(in); err != nil {
		api.writeError(w, r, err)
		return
	}

	user, err := api.auth.Register(r.Context(), in)
	if err != nil {
		api.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (api *Api) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var in models.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := validation.ValidateLogin(in); err != nil {
		api.writeError(w, r, err)
		return
	}

	res, err := api.auth.Login(r.Context(), in, clientMetadata(r))
	if err != nil {
		api.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    res.AccessToken,
		Path:     "/",
		MaxAge:   int(api.auth.SessionTTL(in.RememberMe).Seconds()),
		HttpOnly: true,
		Secure:   api.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, res.User)
}

func (api *Api) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		api.writeError(w, r, common.Errorf(common.ErrUnauthorized, "Unauthorized"))
		return
	}

	if err := api.auth.Logout(r.Context(), identity.SessionID); err != nil {
		api.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   api.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

func (api *Api) MeHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		api.writeError(w, r, common.Errorf(common.ErrUnauthorized, "Unauthorized"))
		return
	}
	writeJSON(w, http.StatusOK, identity)
}

// ProfileHandler returns the stored user record of the caller.
func (api *Api) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		api.writeError(w, r, common.Errorf(common.ErrUnauthorized, "Unauthorized"))
		return
	}

	user, err := api.users.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
