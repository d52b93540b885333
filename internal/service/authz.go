package service

import "github.com/sakif/belfast-eats/internal/auth"

// canModify is the standard ownership check for mutating someone's resource:
// the creator may, and an admin may. Restaurant update/delete and review
// update all use it.
//
// Review DELETE does not: it is owner-only, and an admin cannot delete
// another user's review even though they could edit it. That narrower rule
// is written inline at its one call site so nobody "fixes" it by accident.
func canModify(id auth.Identity, ownerID string) bool {
	return id.IsAdmin() || id.UserID == ownerID
}
