package app

import (
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pipemene/bluehome-os/internal/ports/primary"
)

var (
	idClaims   = []string{"sub", "uid", "id"}
	nameClaims = []string{"name", "nombre", "username"}
)

// identityFromToken reads the technician identity from the credential's
// claims. The signature is not verified here; the backend checks it.
func identityFromToken(token string) (primary.Identity, bool) {
	if token == "" {
		return primary.Identity{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return primary.Identity{}, false
	}

	id := primary.Identity{
		ID:     firstClaim(claims, idClaims),
		Name:   firstClaim(claims, nameClaims),
		Role:   firstClaim(claims, []string{"role"}),
		Source: "claims",
	}
	if id.Name == "" {
		return id, false
	}
	return id, true
}

func firstClaim(claims jwt.MapClaims, names []string) string {
	for _, n := range names {
		switch v := claims[n].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
