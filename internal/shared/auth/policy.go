package auth

// Permission names an operation guarded by a role allow-list.
type Permission string

const (
	PermUsersManage      Permission = "users:manage"
	PermDocumentsRead    Permission = "documents:read"
	PermDocumentsWrite   Permission = "documents:write"
	PermIngestionsRead   Permission = "ingestions:read"
	PermIngestionsWrite  Permission = "ingestions:write"
	PermIngestionsDelete Permission = "ingestions:delete"
)

var allowList = map[Permission][]Role{
	PermUsersManage:      {RoleAdmin},
	PermDocumentsRead:    {RoleAdmin, RoleEditor, RoleViewer},
	PermDocumentsWrite:   {RoleAdmin, RoleEditor},
	PermIngestionsRead:   {RoleAdmin, RoleEditor},
	PermIngestionsWrite:  {RoleAdmin, RoleEditor},
	PermIngestionsDelete: {RoleAdmin},
}

// Allowed reports whether role may perform the operation. Unknown permissions deny.
func Allowed(role Role, perm Permission) bool {
	for _, r := range allowList[perm] {
		if r == role {
			return true
		}
	}
	return false
}

// AllowedRoles returns a copy of the allow-list for perm.
func AllowedRoles(perm Permission) []Role {
	return append([]Role(nil), allowList[perm]...)
}
