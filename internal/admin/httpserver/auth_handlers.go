package httpserver

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"elamli.org/elamli-admin/internal/admin/session"
	"elamli.org/elamli-admin/internal/admin/settings"
)

type loginData struct {
	baseData
	Email string
	Error string
}

func (h *handlers) loginPage(w http.ResponseWriter, r *http.Request) {
	// An already authenticated browser skips the form.
	if sess := h.session(r); sess.IDToken() != "" {
		http.Redirect(w, r, h.basePath+"/", http.StatusSeeOther)
		return
	}

	h.renderPage(w, "login", loginData{
		baseData: h.base(r, "Sign in", ""),
	})
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	renderError := func(msg string) {
		w.WriteHeader(http.StatusUnauthorized)
		h.renderPage(w, "login", loginData{
			baseData: h.base(r, "Sign in", ""),
			Email:    email,
			Error:    msg,
		})
	}

	if h.settings == nil {
		renderError("Sign-in is not configured.")
		return
	}
	if email == "" || password == "" {
		renderError("Email and password are required.")
		return
	}

	result, err := h.settings.SignIn(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, settings.ErrInvalidCredentials) {
			renderError("Invalid email or password.")
			return
		}
		h.logger.Error("sign-in failed", zap.Error(err))
		renderError("Sign-in is temporarily unavailable. Please try again.")
		return
	}

	sess := h.session(r)
	sess.SetUser(&session.User{UID: result.UID, Email: result.Email})
	sess.SetIDToken(result.IDToken)

	http.Redirect(w, r, h.basePath+"/", http.StatusSeeOther)
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	h.session(r).Destroy()
	http.Redirect(w, r, h.basePath+"/login", http.StatusSeeOther)
}
