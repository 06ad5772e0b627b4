package result

// Message is a single archived Discord message, read-only.
type Message struct {
	id        string
	content   string
	authorID  string
	channelID string
	guildID   string
	timestamp string
}

// NewMessage creates a message hit. timestamp is kept verbatim (ISO-8601).
func NewMessage(id, content, authorID, channelID, guildID, timestamp string) Message {
	return Message{
		id: id, content: content,
		authorID: authorID, channelID: channelID, guildID: guildID,
		timestamp: timestamp,
	}
}

// ID returns the message snowflake.
func (m *Message) ID() string { return m.id }

// Content returns the message body.
func (m *Message) Content() string { return m.content }

// AuthorID returns the author snowflake.
func (m *Message) AuthorID() string { return m.authorID }

// ChannelID returns the channel snowflake.
func (m *Message) ChannelID() string { return m.channelID }

// GuildID returns the guild snowflake.
func (m *Message) GuildID() string { return m.guildID }

// Timestamp returns the ISO-8601 send time.
func (m *Message) Timestamp() string { return m.timestamp }

// Page is one page of an ordered message search.
type Page struct {
	messages []Message
	total    int
	page     int
	hasMore  bool
}

// NewPage creates a search result page.
func NewPage(messages []Message, total, page int, hasMore bool) Page {
	return Page{messages: messages, total: total, page: page, hasMore: hasMore}
}

// Empty returns the result of a search that was never executed.
func Empty(page int) Page {
	return Page{messages: []Message{}, page: page}
}

// Messages returns the hits in backend order.
func (p *Page) Messages() []Message { return p.messages }

// Total returns the accurate number of hits across all pages.
func (p *Page) Total() int { return p.total }

// Page returns the 1-based page number.
func (p *Page) Page() int { return p.page }

// HasMore reports whether a following page exists.
func (p *Page) HasMore() bool { return p.hasMore }

// AuthorIDs returns the distinct author ids on this page in first-seen order.
func (p *Page) AuthorIDs() []string {
	seen := make(map[string]struct{}, len(p.messages))
	ids := make([]string, 0, len(p.messages))
	for i := range p.messages {
		id := p.messages[i].authorID
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
