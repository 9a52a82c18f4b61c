package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/43bits/mess-calender-gec/internal/core"
)

// User is the domain entity.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
}

// Profile holds the optional residence details a student fills in.
type Profile struct {
	Gender string `json:"gender,omitempty"`
	Hostel string `json:"hostel,omitempty"`
	Year   string `json:"year,omitempty"`
	Branch string `json:"branch,omitempty"`
}

var (
	genders  = []string{"boy", "girl"}
	years    = []string{"FE", "SE", "TE", "BE"}
	branches = []string{"COM", "IT", "VSLI", "CIVIL", "MECH", "ETC", "ENE", "MINING"}
)

func oneOf(field, v string, allowed []string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s: %w", field, strings.Join(allowed, ", "), core.ErrInvalidArgument)
}

func (p Profile) Validate() error {
	if err := oneOf("gender", p.Gender, genders); err != nil {
		return err
	}
	if strings.TrimSpace(p.Hostel) == "" {
		return fmt.Errorf("hostel is required: %w", core.ErrInvalidArgument)
	}
	if err := oneOf("year", p.Year, years); err != nil {
		return err
	}
	return oneOf("branch", p.Branch, branches)
}

func ValidRole(role string) bool {
	return role == core.RoleAdmin || role == core.RoleStudent
}
