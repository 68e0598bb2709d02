package cli

import (
	"errors"

	"github.com/pipemene/bluehome-os/internal/adapters/httpapi"
	"github.com/pipemene/bluehome-os/internal/app"
	"github.com/pipemene/bluehome-os/internal/core/order"
)

// Hint returns a follow-up suggestion for err, or "".
func Hint(err error) string {
	switch {
	case errors.Is(err, httpapi.ErrLoginFailed):
		return "Check the username and password and try again."
	case errors.Is(err, httpapi.ErrUnauthorized):
		return "Log in first (admin or tecnico): bluehome login <username>"
	case errors.Is(err, app.ErrNoIdentity):
		return "Log in, set technician.name in the config, or pass --as <name>."
	case errors.Is(err, order.ErrNotFound):
		return "List orders with: bluehome orders list"
	}
	return ""
}
