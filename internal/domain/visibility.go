package domain

// Visibility is the access-control level of a Workshop item.
type Visibility string

// Visibility levels supported by the Workshop catalog.
const (
	VisibilityPublic   Visibility = "public"
	VisibilityFriends  Visibility = "friends"
	VisibilityPrivate  Visibility = "private"
	VisibilityUnlisted Visibility = "unlisted"
)

// Platform visibility codes (ERemoteStoragePublishedFileVisibility).
const (
	remotePublic   = 0
	remoteFriends  = 1
	remotePrivate  = 2
	remoteUnlisted = 3
)

// IsValid reports whether v is one of the supported visibility levels.
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPublic, VisibilityFriends, VisibilityPrivate, VisibilityUnlisted:
		return true
	}
	return false
}

// RemoteCode translates a visibility level to its platform integer code.
// Unknown or empty visibility maps to private — never default to public.
func (v Visibility) RemoteCode() int {
	switch v {
	case VisibilityPublic:
		return remotePublic
	case VisibilityFriends:
		return remoteFriends
	case VisibilityUnlisted:
		return remoteUnlisted
	default:
		return remotePrivate
	}
}

// VisibilityFromRemoteCode translates a platform visibility code back to a
// visibility level. Unknown codes map to private.
func VisibilityFromRemoteCode(code int) Visibility {
	switch code {
	case remotePublic:
		return VisibilityPublic
	case remoteFriends:
		return VisibilityFriends
	case remoteUnlisted:
		return VisibilityUnlisted
	default:
		return VisibilityPrivate
	}
}
