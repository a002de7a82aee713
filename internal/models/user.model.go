package models

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "super_admin"
)

type User struct {
	BaseUUIDModel
	Email        string   `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName     string   `gorm:"type:varchar(255)"                      json:"full_name"`
	Role         UserRole `gorm:"type:varchar(16);not null;default:admin" json:"role"`
	PasswordHash string   `gorm:"type:varchar(255);not null"             json:"-"`
}

func (User) TableName() string {
	return "user_profiles"
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is what the gate remembers about a signed-in admin.
type Session struct {
	Token  string   `json:"token"`
	UserID string   `json:"userId"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
}
