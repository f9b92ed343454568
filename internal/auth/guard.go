// ABOUTME: Ownership-based authorization guard for resource mutations
// ABOUTME: Update/delete require ownership; reads are shared across tenants

package auth

// Owned is implemented by resources that belong to a single user.
type Owned interface {
	OwnedBy() string
}

// CanModify reports whether the identity may update or delete the resource.
// Only the owning/creating user may mutate; any authenticated identity may
// read. Callers remap a false result to a not-found response so the existence
// of unowned resources never leaks.
func CanModify(id *Identity, resource Owned) bool {
	if id == nil {
		return false
	}
	return resource.OwnedBy() == id.UserID
}
