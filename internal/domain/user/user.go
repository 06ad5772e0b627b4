package user

import "fmt"

// AvatarURLTemplate is the CDN location of a user avatar: user id, avatar hash.
const AvatarURLTemplate = "https://cdn.discordapp.com/avatars/%s/%s.png"

// User is a display identity for a message author.
type User struct {
	id       string
	username string
	avatar   string
	fallback bool
}

// New creates a resolved identity. avatarHash may be empty (no avatar).
func New(id, username, avatarHash string) User {
	u := User{id: id, username: username}
	if avatarHash != "" {
		u.avatar = AvatarURL(id, avatarHash)
	}
	return u
}

// Reconstruct restores a user from cached state without recomputing the avatar URL.
func Reconstruct(id, username, avatarURL string, fallback bool) User {
	return User{id: id, username: username, avatar: avatarURL, fallback: fallback}
}

// Fallback returns the deterministic identity used when the directory lookup fails:
// "User " + the last four characters of the id, no avatar.
func Fallback(id string) User {
	suffix := id
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return User{id: id, username: "User " + suffix, fallback: true}
}

// AvatarURL builds the CDN avatar URL.
func AvatarURL(id, hash string) string {
	return fmt.Sprintf(AvatarURLTemplate, id, hash)
}

// ID returns the user snowflake.
func (u *User) ID() string { return u.id }

// Username returns the display name.
func (u *User) Username() string { return u.username }

// Avatar returns the avatar URL, or "" when the user has none.
func (u *User) Avatar() string { return u.avatar }

// IsFallback reports whether this identity was synthesized after a failed lookup.
func (u *User) IsFallback() bool { return u.fallback }
