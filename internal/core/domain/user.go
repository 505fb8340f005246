package domain

// Role is the closed set of user types recognised by the platform.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleTalent     Role = "TALENT"
	RoleClient     Role = "CLIENT"
)

// AllRoles lists every valid role.
var AllRoles = []Role{RoleSuperAdmin, RoleTalent, RoleClient}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// AccountStatus represents whether a user may authenticate.
type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountInactive AccountStatus = "INACTIVE"
)

// User models a registered account. Timestamps are Unix milliseconds.
type User struct {
	ID            string        `json:"id" bson:"_id,omitempty"`
	FirstName     string        `json:"first_name" bson:"first_name"`
	LastName      string        `json:"last_name" bson:"last_name"`
	Email         string        `json:"email" bson:"email"`
	CountryCode   string        `json:"country_code,omitempty" bson:"country_code,omitempty"`
	Phone         string        `json:"phone,omitempty" bson:"phone,omitempty"`
	UserType      Role          `json:"user_type" bson:"user_type"`
	AccountStatus AccountStatus `json:"account_status" bson:"account_status"`
	LastLogin     int64         `json:"last_login,omitempty" bson:"last_login,omitempty"`
	LastActive    int64         `json:"last_active,omitempty" bson:"last_active,omitempty"`
	CreatedAt     int64         `json:"created_at" bson:"created_at"`
	UpdatedAt     int64         `json:"updated_at" bson:"updated_at"`
	IsDeleted     bool          `json:"-" bson:"is_deleted"`
}
