package auth

// Subject is the authenticated (or anonymous) principal a request acts as.
type Subject struct {
	ID      string
	IsAdmin bool
}

// Anonymous is the zero subject; it can never mutate anything.
var Anonymous = Subject{}

func (s Subject) Authenticated() bool { return s.ID != "" }

// CanMutate decides whether the subject may update or delete a resource
// owned by ownerID. Only the owner may; admins get no override on content.
func CanMutate(s Subject, ownerID string) bool {
	return s.Authenticated() && s.ID == ownerID
}

// CanManageUsers gates the user-management surface (list, delete, count).
// Admin-only, with no self-deletion special case.
func CanManageUsers(s Subject) bool {
	return s.Authenticated() && s.IsAdmin
}
