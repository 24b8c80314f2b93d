package rbac

const (
	RoleViewer  = "viewer"
	RoleAnalyst = "analyst"
	RoleAdmin   = "admin"
)

// RolePermissions is the default policy.
var RolePermissions = map[string][]string{
	RoleViewer: {
		"settings:own",
	},
	RoleAnalyst: {
		"settings:own",
		"anchors:*",
		"events:view",
	},
	RoleAdmin: {
		"*",
	},
}

func KnownRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
