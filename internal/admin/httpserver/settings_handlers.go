package httpserver

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"elamli.org/elamli-admin/internal/admin/settings"
)

const minPasswordLength = 6

type settingsData struct {
	baseData
	Email      string
	LastSignIn time.Time
	Message    string
	Error      string
}

func (h *handlers) settingsView(r *http.Request, message, errMsg string) settingsData {
	data := settingsData{
		baseData: h.base(r, "Settings", "settings"),
		Message:  message,
		Error:    errMsg,
	}
	data.Email = data.UserEmail

	if h.settings == nil {
		return data
	}

	sess := h.session(r)
	if token := sess.IDToken(); token != "" {
		account, err := h.settings.Account(r.Context(), token)
		if err != nil {
			h.logger.Warn("account lookup failed", zap.Error(err))
		} else {
			data.Email = account.Email
			data.LastSignIn = account.LastSignIn
		}
	}
	return data
}

func (h *handlers) settingsPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, "settings", h.settingsView(r, "", ""))
}

func (h *handlers) changePassword(w http.ResponseWriter, r *http.Request) {
	if h.settings == nil {
		h.renderPage(w, "settings", h.settingsView(r, "", "Password changes are not available."))
		return
	}

	current := r.PostFormValue("current_password")
	next := r.PostFormValue("new_password")
	confirm := r.PostFormValue("confirm_password")

	if len(next) < minPasswordLength {
		h.renderPage(w, "settings", h.settingsView(r, "", "New password must be at least 6 characters."))
		return
	}
	if next != confirm {
		h.renderPage(w, "settings", h.settingsView(r, "", "New password and confirmation do not match."))
		return
	}

	view := h.settingsView(r, "", "")
	err := h.settings.ChangePassword(r.Context(), settings.ChangePasswordRequest{
		Email:           view.Email,
		CurrentPassword: current,
		NewPassword:     next,
	})
	switch {
	case err == nil:
		view.Message = "Password updated."
	case errors.Is(err, settings.ErrInvalidCredentials):
		view.Error = "Current password is incorrect."
	default:
		h.logger.Error("password change failed", zap.Error(err))
		view.Error = "Could not update the password. Please try again."
	}

	h.renderPage(w, "settings", view)
}
