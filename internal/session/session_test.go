package session

import (
	"errors"
	"testing"
)

func TestFromTurnsPreservesOrder(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Content: "first"},
		{Role: RoleBot, Content: "second"},
		{Role: RoleUser, Content: "third"},
	}
	s, err := FromTurns(history)
	if err != nil {
		t.Fatalf("FromTurns() error = %v", err)
	}
	got := s.Turns()
	if len(got) != 3 {
		t.Fatalf("Len() = %d, want 3", len(got))
	}
	for i := range history {
		if got[i] != history[i] {
			t.Errorf("turn %d = %+v, want %+v", i, got[i], history[i])
		}
	}
}

func TestFromTurnsRejectsUnknownRole(t *testing.T) {
	_, err := FromTurns([]Turn{{Role: "system", Content: "x"}})
	if !errors.Is(err, ErrInvalidRole) {
		t.Errorf("FromTurns() error = %v, want %v", err, ErrInvalidRole)
	}
}

func TestEmptyToActive(t *testing.T) {
	s, err := FromTurns(nil)
	if err != nil {
		t.Fatalf("FromTurns() error = %v", err)
	}
	if !s.Empty() {
		t.Error("Empty() = false for new session")
	}
	if err := s.AppendUserTurn("hello"); err != nil {
		t.Fatalf("AppendUserTurn() error = %v", err)
	}
	if s.Empty() {
		t.Error("Empty() = true after append")
	}
}

func TestAppendRejectsEmptyContent(t *testing.T) {
	s, _ := FromTurns(nil)
	if err := s.AppendUserTurn(""); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("AppendUserTurn() error = %v, want %v", err, ErrEmptyMessage)
	}
	if err := s.AppendBotTurn(""); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("AppendBotTurn() error = %v, want %v", err, ErrEmptyMessage)
	}
}

func TestTurnsReturnsCopy(t *testing.T) {
	s, _ := FromTurns([]Turn{{Role: RoleUser, Content: "a"}})
	got := s.Turns()
	got[0].Content = "mutated"
	if s.Turns()[0].Content != "a" {
		t.Error("Turns() exposes internal slice")
	}
}

func TestTailDropsOldestFirst(t *testing.T) {
	s, _ := FromTurns([]Turn{
		{Role: RoleUser, Content: "one"},
		{Role: RoleBot, Content: "two"},
		{Role: RoleUser, Content: "three"},
		{Role: RoleBot, Content: "four"},
	})
	got := s.Tail(2)
	if len(got) != 2 {
		t.Fatalf("len(Tail(2)) = %d, want 2", len(got))
	}
	if got[0].Content != "three" || got[1].Content != "four" {
		t.Errorf("Tail(2) = %+v, want newest two", got)
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d after Tail, want 4", s.Len())
	}
}

func TestTailZeroIsUnbounded(t *testing.T) {
	s, _ := FromTurns([]Turn{
		{Role: RoleUser, Content: "one"},
		{Role: RoleBot, Content: "two"},
	})
	if got := s.Tail(0); len(got) != 2 {
		t.Errorf("len(Tail(0)) = %d, want 2", len(got))
	}
}
