package rbac

import "platoon-pulse/internal/shared/identity"

type RolePermission struct {
	Role     string `gorm:"column:role;type:varchar(20);primaryKey"`
	Resource string `gorm:"column:resource;type:varchar(50);primaryKey"`
	Action   string `gorm:"column:action;type:varchar(50);primaryKey"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

// RoleInheritance lists (child, parent) pairs: the child gets every
// permission of the parent.
var RoleInheritance = [][2]string{
	{identity.RoleAdmin, identity.RoleCadet},
}

// DefaultPermissions is seeded on migration.
var DefaultPermissions = []RolePermission{
	{Role: identity.RoleCadet, Resource: "session", Action: "read"},
	{Role: identity.RoleCadet, Resource: "attendance", Action: "mark"},
	{Role: identity.RoleCadet, Resource: "attendance", Action: "read_own"},
	{Role: identity.RoleCadet, Resource: "cadet", Action: "read_own"},
	{Role: identity.RoleCadet, Resource: "cadet_record", Action: "read_own"},
	{Role: identity.RoleCadet, Resource: "medical", Action: "read_own"},
	{Role: identity.RoleCadet, Resource: "linking", Action: "request"},
	{Role: identity.RoleCadet, Resource: "dashboard", Action: "read"},

	{Role: identity.RoleAdmin, Resource: "session", Action: "manage"},
	{Role: identity.RoleAdmin, Resource: "attendance", Action: "read"},
	{Role: identity.RoleAdmin, Resource: "attendance", Action: "manage"},
	{Role: identity.RoleAdmin, Resource: "report", Action: "read"},
	{Role: identity.RoleAdmin, Resource: "cadet", Action: "read"},
	{Role: identity.RoleAdmin, Resource: "cadet", Action: "manage"},
	{Role: identity.RoleAdmin, Resource: "cadet_record", Action: "read"},
	{Role: identity.RoleAdmin, Resource: "cadet_record", Action: "manage"},
	{Role: identity.RoleAdmin, Resource: "medical", Action: "read"},
	{Role: identity.RoleAdmin, Resource: "medical", Action: "manage"},
	{Role: identity.RoleAdmin, Resource: "linking", Action: "review"},
	{Role: identity.RoleAdmin, Resource: "user", Action: "manage"},
	{Role: identity.RoleAdmin, Resource: "rbac", Action: "manage"},
}
