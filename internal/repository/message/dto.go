package message

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/msgsearch/internal/db"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/result"
)

// messageDoc is the stored document shape.
type messageDoc struct {
	MessageID snowflake `json:"message_id"`
	Content   string    `json:"content"`
	AuthorID  snowflake `json:"author_id"`
	ChannelID snowflake `json:"channel_id"`
	GuildID   snowflake `json:"guild_id"`
	Timestamp string    `json:"timestamp"`
}

// snowflake accepts ids indexed either as strings or as JSON numbers.
type snowflake string

func (s *snowflake) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = snowflake(v)
		return nil
	}
	if _, err := strconv.ParseUint(string(data), 10, 64); err != nil {
		return fmt.Errorf("invalid id %s", data)
	}
	*s = snowflake(data)
	return nil
}

func parseHits(hits []db.Hit) ([]result.Message, error) {
	msgs := make([]result.Message, 0, len(hits))
	for _, h := range hits {
		var doc messageDoc
		if len(h.Source) > 0 {
			if err := json.Unmarshal(h.Source, &doc); err != nil {
				return nil, fmt.Errorf("decode hit %s/%s: %w", h.Index, h.ID, err)
			}
		}
		id := string(doc.MessageID)
		if id == "" {
			id = h.ID
		}
		msgs = append(msgs, result.NewMessage(
			id, doc.Content,
			string(doc.AuthorID), string(doc.ChannelID), string(doc.GuildID),
			doc.Timestamp,
		))
	}
	return msgs, nil
}
