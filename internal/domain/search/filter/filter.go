package filter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/msgsearch/internal/domain"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/page"
)

// Filter limits.
const (
	// MaxContentLength is the maximum phrase length in runes.
	MaxContentLength = 1024
	// MaxIDLength bounds identifier filters.
	MaxIDLength = 64
	DefaultPage = 1
	// MaxPage is the deepest page the default partitions can serve.
	MaxPage = page.DefaultMaxResultWindow / page.DefaultSize
)

// Query-string keys understood by Parse.
const (
	KeyContent   = "content"
	KeyAuthorID  = "author_id"
	KeyChannelID = "channel_id"
	KeyGuildID   = "guild_id"
	KeySort      = "sort"
	KeyPage      = "page"
)

// Filter is a validated set of message search constraints.
type Filter struct {
	content   string
	authorID  string
	channelID string
	guildID   string
	sort      Sort
	page      int
}

// New validates and normalizes search filters.
// Defaults: sort=desc, page=1 (page 0 means "not set").
func New(content, authorID, channelID, guildID string, sort Sort, pageNum int) (Filter, error) {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) > MaxContentLength {
		return Filter{}, domain.NewValidationError(KeyContent,
			fmt.Sprintf("too long (max %d chars)", MaxContentLength))
	}

	ids := []struct {
		key   string
		value *string
	}{
		{KeyAuthorID, &authorID},
		{KeyChannelID, &channelID},
		{KeyGuildID, &guildID},
	}
	for _, id := range ids {
		*id.value = strings.TrimSpace(*id.value)
		if err := validateID(id.key, *id.value); err != nil {
			return Filter{}, err
		}
	}

	if sort == "" {
		sort = DefaultSort
	}
	if !sort.IsValid() {
		return Filter{}, domain.NewValidationError(KeySort,
			fmt.Sprintf("must be %q or %q, got %q", Asc, Desc, sort))
	}

	if pageNum == 0 {
		pageNum = DefaultPage
	}
	if pageNum < 1 {
		return Filter{}, domain.NewValidationError(KeyPage,
			fmt.Sprintf("must be >= 1, got %d", pageNum))
	}
	if pageNum > MaxPage {
		return Filter{}, domain.NewValidationError(KeyPage,
			fmt.Sprintf("must be <= %d, got %d", MaxPage, pageNum))
	}

	return Filter{
		content:   content,
		authorID:  authorID,
		channelID: channelID,
		guildID:   guildID,
		sort:      sort,
		page:      pageNum,
	}, nil
}

// Parse builds a Filter from raw query-string style input (e.g. url.Values).
// Only the first value of each key is used; unknown keys are ignored.
func Parse(raw map[string][]string) (Filter, error) {
	pageNum := DefaultPage
	if p := first(raw, KeyPage); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Filter{}, domain.NewValidationError(KeyPage, fmt.Sprintf("not an integer: %q", p))
		}
		if n < 1 {
			return Filter{}, domain.NewValidationError(KeyPage, fmt.Sprintf("must be >= 1, got %d", n))
		}
		pageNum = n
	}

	return New(
		first(raw, KeyContent),
		first(raw, KeyAuthorID),
		first(raw, KeyChannelID),
		first(raw, KeyGuildID),
		Sort(first(raw, KeySort)),
		pageNum,
	)
}

// Content returns the phrase to match against the message body.
func (f Filter) Content() string { return f.content }

// AuthorID returns the author snowflake.
func (f Filter) AuthorID() string { return f.authorID }

// ChannelID returns the channel snowflake.
func (f Filter) ChannelID() string { return f.channelID }

// GuildID returns the guild snowflake.
func (f Filter) GuildID() string { return f.guildID }

// Sort returns the timestamp ordering.
func (f Filter) Sort() Sort { return f.sort }

// Page returns the 1-based page number.
func (f Filter) Page() int { return f.page }

// IsEmpty reports whether no search constraint is set ("no query" state).
func (f Filter) IsEmpty() bool {
	return f.content == "" && f.authorID == "" && f.channelID == "" && f.guildID == ""
}

func validateID(key, v string) error {
	if utf8.RuneCountInString(v) > MaxIDLength {
		return domain.NewValidationError(key, fmt.Sprintf("too long (max %d chars)", MaxIDLength))
	}
	return nil
}

func first(raw map[string][]string, key string) string {
	if vs := raw[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}
