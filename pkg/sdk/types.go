package msgsearch

import (
	"github.com/kailas-cloud/msgsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/result"
	domstats "github.com/kailas-cloud/msgsearch/internal/domain/stats"
	domuser "github.com/kailas-cloud/msgsearch/internal/domain/user"
)

// SortOrder orders results by message timestamp.
type SortOrder string

// SortOrder constants.
const (
	SortAsc  SortOrder = SortOrder(filter.Asc)
	SortDesc SortOrder = SortOrder(filter.Desc)
)

// Query is a message search request. Empty fields are not constrained.
// Zero Sort means newest first; zero Page means the first page.
type Query struct {
	Content   string
	AuthorID  string
	ChannelID string
	GuildID   string
	Sort      SortOrder
	Page      int
}

// Message is one archived message.
type Message struct {
	ID        string
	Content   string
	AuthorID  string
	ChannelID string
	GuildID   string
	Timestamp string
}

// SearchPage is one page of search hits.
type SearchPage struct {
	Messages []Message
	Total    int
	Page     int
	HasMore  bool
}

// AuthorIDs returns the distinct author ids on the page in first-seen order.
func (p SearchPage) AuthorIDs() []string {
	seen := make(map[string]struct{}, len(p.Messages))
	ids := make([]string, 0, len(p.Messages))
	for _, m := range p.Messages {
		if m.AuthorID == "" {
			continue
		}
		if _, ok := seen[m.AuthorID]; ok {
			continue
		}
		seen[m.AuthorID] = struct{}{}
		ids = append(ids, m.AuthorID)
	}
	return ids
}

// Statistics summarizes the whole archive. Unique counts are approximate.
type Statistics struct {
	TotalMessages int64
	UniqueUsers   int64
	UniqueGuilds  int64
}

// User is a resolved author identity. Fallback identities have no avatar.
type User struct {
	ID        string
	Username  string
	AvatarURL string
	Fallback  bool
}

func pageFromDomain(p *result.Page) SearchPage {
	msgs := p.Messages()
	out := SearchPage{
		Messages: make([]Message, len(msgs)),
		Total:    p.Total(),
		Page:     p.Page(),
		HasMore:  p.HasMore(),
	}
	for i := range msgs {
		m := &msgs[i]
		out.Messages[i] = Message{
			ID:        m.ID(),
			Content:   m.Content(),
			AuthorID:  m.AuthorID(),
			ChannelID: m.ChannelID(),
			GuildID:   m.GuildID(),
			Timestamp: m.Timestamp(),
		}
	}
	return out
}

func statsFromDomain(s domstats.Statistics) Statistics {
	return Statistics{
		TotalMessages: s.TotalMessages,
		UniqueUsers:   s.UniqueUsers,
		UniqueGuilds:  s.UniqueGuilds,
	}
}

func userFromDomain(u *domuser.User) User {
	return User{
		ID:        u.ID(),
		Username:  u.Username(),
		AvatarURL: u.Avatar(),
		Fallback:  u.IsFallback(),
	}
}
