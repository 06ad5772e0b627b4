package chi

import (
	"github.com/kailas-cloud/msgsearch/internal/domain/search/result"
	domstats "github.com/kailas-cloud/msgsearch/internal/domain/stats"
	domuser "github.com/kailas-cloud/msgsearch/internal/domain/user"
	healthuc "github.com/kailas-cloud/msgsearch/internal/usecase/health"
)

// MessageResponse is one archived message.
type MessageResponse struct {
	MessageID string `json:"message_id"`
	Content   string `json:"content"`
	AuthorID  string `json:"author_id"`
	ChannelID string `json:"channel_id"`
	GuildID   string `json:"guild_id"`
	Timestamp string `json:"timestamp"`
}

// SearchResponse is returned by GET /api/search.
type SearchResponse struct {
	Messages []MessageResponse `json:"messages"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	HasMore  bool              `json:"has_more"`
}

// StatisticsResponse is returned by GET /api/stats.
type StatisticsResponse struct {
	TotalMessages int64 `json:"total_messages"`
	UniqueUsers   int64 `json:"unique_users"`
	UniqueGuilds  int64 `json:"unique_guilds"`
}

// UserResponse is returned by GET /api/user/{id}. Avatar is null when absent.
type UserResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
}

// UsersResponse is returned by GET /api/users.
type UsersResponse struct {
	Users []UserResponse `json:"users"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Field   string `json:"field,omitempty"`
}

func pageToResponse(p *result.Page) SearchResponse {
	msgs := make([]MessageResponse, 0, len(p.Messages()))
	for _, m := range p.Messages() {
		msgs = append(msgs, MessageResponse{
			MessageID: m.ID(),
			Content:   m.Content(),
			AuthorID:  m.AuthorID(),
			ChannelID: m.ChannelID(),
			GuildID:   m.GuildID(),
			Timestamp: m.Timestamp(),
		})
	}
	return SearchResponse{
		Messages: msgs,
		Total:    p.Total(),
		Page:     p.Page(),
		HasMore:  p.HasMore(),
	}
}

func statsToResponse(st domstats.Statistics) StatisticsResponse {
	return StatisticsResponse{
		TotalMessages: st.TotalMessages,
		UniqueUsers:   st.UniqueUsers,
		UniqueGuilds:  st.UniqueGuilds,
	}
}

func userToResponse(u *domuser.User) UserResponse {
	resp := UserResponse{ID: u.ID(), Username: u.Username()}
	if a := u.Avatar(); a != "" {
		resp.Avatar = &a
	}
	return resp
}

func healthToResponse(r healthuc.Report, version string) HealthResponse {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	return HealthResponse{Status: string(r.Status), Version: version, Checks: checks}
}
