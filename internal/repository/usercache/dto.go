package usercache

import "github.com/kailas-cloud/msgsearch/internal/domain/user"

// entry is the JSON shape of a user in the shared tier.
type entry struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
	Fallback bool    `json:"fallback,omitempty"`
}

func fromDomain(u user.User) entry {
	e := entry{ID: u.ID(), Username: u.Username(), Fallback: u.IsFallback()}
	if a := u.Avatar(); a != "" {
		e.Avatar = &a
	}
	return e
}

func (e entry) toDomain() user.User {
	avatar := ""
	if e.Avatar != nil {
		avatar = *e.Avatar
	}
	return user.Reconstruct(e.ID, e.Username, avatar, e.Fallback)
}
