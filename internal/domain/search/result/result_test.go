package result

import "testing"

func TestNewMessage_Accessors(t *testing.T) {
	m := NewMessage("1", "hello", "2", "3", "4", "2024-01-02T03:04:05Z")
	if m.ID() != "1" || m.Content() != "hello" || m.AuthorID() != "2" ||
		m.ChannelID() != "3" || m.GuildID() != "4" || m.Timestamp() != "2024-01-02T03:04:05Z" {
		t.Errorf("unexpected message: %+v", m)
	}
}

func TestEmpty(t *testing.T) {
	p := Empty(4)
	if p.Messages() == nil {
		t.Error("Messages() should be an empty slice, not nil")
	}
	if p.Total() != 0 || p.HasMore() || p.Page() != 4 {
		t.Errorf("unexpected empty page: %+v", p)
	}
}

func TestAuthorIDs_DistinctInOrder(t *testing.T) {
	p := NewPage([]Message{
		NewMessage("m1", "", "b", "", "", ""),
		NewMessage("m2", "", "a", "", "", ""),
		NewMessage("m3", "", "b", "", "", ""),
		NewMessage("m4", "", "", "", "", ""),
		NewMessage("m5", "", "c", "", "", ""),
	}, 5, 1, false)

	got := p.AuthorIDs()
	want := []string{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("AuthorIDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AuthorIDs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
