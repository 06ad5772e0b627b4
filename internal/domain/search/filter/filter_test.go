package filter

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/kailas-cloud/msgsearch/internal/domain"
)

func assertValidationField(t *testing.T, err error, field string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected validation error for %q", field)
	}
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *domain.ValidationError, got %T: %v", err, err)
	}
	if ve.Field != field {
		t.Errorf("Field = %q, want %q", ve.Field, field)
	}
}

func TestNew_Defaults(t *testing.T) {
	f, err := New("", "123", "", "", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Sort() != Desc {
		t.Errorf("Sort() = %q, want desc", f.Sort())
	}
	if f.Page() != 1 {
		t.Errorf("Page() = %d, want 1", f.Page())
	}
}

func TestNew_TrimsInput(t *testing.T) {
	f, err := New("  hello world  ", " 1 ", "", "", Asc, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Content() != "hello world" {
		t.Errorf("Content() = %q", f.Content())
	}
	if f.AuthorID() != "1" {
		t.Errorf("AuthorID() = %q", f.AuthorID())
	}
}

func TestNew_InvalidSort(t *testing.T) {
	_, err := New("x", "", "", "", Sort("random"), 1)
	assertValidationField(t, err, KeySort)
}

func TestNew_NegativePage(t *testing.T) {
	_, err := New("x", "", "", "", Desc, -1)
	assertValidationField(t, err, KeyPage)
}

func TestNew_ContentTooLong(t *testing.T) {
	_, err := New(strings.Repeat("a", MaxContentLength+1), "", "", "", Desc, 1)
	assertValidationField(t, err, KeyContent)
}

func TestNew_IDsAreOpaqueStrings(t *testing.T) {
	f, err := New("", "abc", "12x", "-1", Desc, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.AuthorID() != "abc" || f.ChannelID() != "12x" || f.GuildID() != "-1" {
		t.Errorf("unexpected filter: %+v", f)
	}
}

func TestNew_IDTooLong(t *testing.T) {
	tests := []struct {
		name                   string
		author, channel, guild string
		field                  string
	}{
		{"author", strings.Repeat("9", MaxIDLength+1), "", "", KeyAuthorID},
		{"channel", "", strings.Repeat("x", MaxIDLength+1), "", KeyChannelID},
		{"guild", "", "", strings.Repeat("é", MaxIDLength+1), KeyGuildID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("", tt.author, tt.channel, tt.guild, Desc, 1)
			assertValidationField(t, err, tt.field)
		})
	}

	if _, err := New("", strings.Repeat("9", MaxIDLength), "", "", Desc, 1); err != nil {
		t.Errorf("id at the cap must be accepted: %v", err)
	}
}

func TestNew_PageBeyondResultWindow(t *testing.T) {
	if _, err := New("x", "", "", "", Desc, MaxPage); err != nil {
		t.Fatalf("MaxPage must be accepted: %v", err)
	}
	_, err := New("x", "", "", "", Desc, MaxPage+1)
	assertValidationField(t, err, KeyPage)
}

func TestIsEmpty(t *testing.T) {
	empty, err := New("   ", "", "", "", Desc, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !empty.IsEmpty() {
		t.Error("whitespace-only content should be empty")
	}

	withGuild, _ := New("", "", "", "999", Desc, 1)
	if withGuild.IsEmpty() {
		t.Error("guild filter should not be empty")
	}
}

func TestParse_FullQuery(t *testing.T) {
	raw := url.Values{
		"content":    {"hello world"},
		"author_id":  {"123"},
		"channel_id": {"456"},
		"guild_id":   {"789"},
		"sort":       {"asc"},
		"page":       {"3"},
	}
	f, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Content() != "hello world" || f.AuthorID() != "123" ||
		f.ChannelID() != "456" || f.GuildID() != "789" {
		t.Errorf("unexpected filter: %+v", f)
	}
	if f.Sort() != Asc || f.Page() != 3 {
		t.Errorf("sort/page = %q/%d", f.Sort(), f.Page())
	}
}

func TestParse_Defaults(t *testing.T) {
	f, err := Parse(url.Values{"content": {"hi"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Sort() != Desc || f.Page() != 1 {
		t.Errorf("sort/page = %q/%d, want desc/1", f.Sort(), f.Page())
	}
}

func TestParse_InvalidPage(t *testing.T) {
	tests := []string{"0", "-3", "abc", "1.5", "10001", "92233720368547760", "99999999999999999999"}
	for _, p := range tests {
		t.Run(p, func(t *testing.T) {
			_, err := Parse(url.Values{"page": {p}})
			assertValidationField(t, err, KeyPage)
		})
	}
}

func TestParse_InvalidSort(t *testing.T) {
	_, err := Parse(url.Values{"sort": {"DESC"}})
	assertValidationField(t, err, KeySort)
}

func TestParse_UsesFirstValue(t *testing.T) {
	f, err := Parse(url.Values{"guild_id": {"1", "2"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.GuildID() != "1" {
		t.Errorf("GuildID() = %q, want 1", f.GuildID())
	}
}
