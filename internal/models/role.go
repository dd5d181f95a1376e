package models

// Role ids are fixed and seeded by the migration.
const (
	RoleAdmin    uint = 1
	RoleStaff    uint = 2
	RoleCustomer uint = 3
)

// Role is an authorization tier.
type Role struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(50)"`
}

// DefaultRoles returns the rows every database starts with.
func DefaultRoles() []Role {
	return []Role{
		{ID: RoleAdmin, Name: "admin"},
		{ID: RoleStaff, Name: "staff"},
		{ID: RoleCustomer, Name: "customer"},
	}
}
