package account

import (
	"strings"

	"travelagency/models"
	"travelagency/utils"
)

// Built-in accounts that are never stored remotely. Their passwords are fixed
// and must be disabled outside development.
var bypassAccounts = []struct {
	password string
	user     models.User
}{
	{
		password: "admin2024",
		user:     models.User{ID: "ADMIN-001", Name: "Administrator", Email: "admin@agency.local", Role: utils.RoleAdmin},
	},
	{
		password: "demo2024",
		user:     models.User{ID: "DEMO-CLIENT", Name: "Demo Client", Email: "demo@agency.local", Role: utils.RoleClient},
	},
}

func bypassLogin(email, password string) (*models.User, bool) {
	for _, b := range bypassAccounts {
		if strings.EqualFold(strings.TrimSpace(email), b.user.Email) && password == b.password {
			u := b.user
			return &u, true
		}
	}
	return nil, false
}
