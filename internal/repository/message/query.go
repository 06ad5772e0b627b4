package message

import (
	"fmt"

	"github.com/kailas-cloud/msgsearch/internal/db"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/page"
)

// Indexed message fields.
const (
	FieldMessageID = "message_id"
	FieldContent   = "content"
	FieldAuthorID  = "author_id"
	FieldChannelID = "channel_id"
	FieldGuildID   = "guild_id"
	FieldTimestamp = "timestamp"
)

// BuildQuery translates a filter into a backend query over the given partitions.
// Clause order is fixed: content, author_id, channel_id, guild_id.
// A filter with no constraints yields a match-all query.
func BuildQuery(f filter.Filter, indices []string, pageSize int) (*db.SearchQuery, error) {
	w, err := page.New(f.Page(), pageSize)
	if err != nil {
		return nil, fmt.Errorf("page window: %w", err)
	}

	order := db.SortDesc
	if f.Sort() == filter.Asc {
		order = db.SortAsc
	}

	q, err := db.NewSearch(indices...).
		Phrase(FieldContent, f.Content()).
		Term(FieldAuthorID, f.AuthorID()).
		Term(FieldChannelID, f.ChannelID()).
		Term(FieldGuildID, f.GuildID()).
		SortBy(FieldTimestamp, order).
		Page(w.From(), w.Size()).
		TrackTotalHits().
		Build()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return q, nil
}
