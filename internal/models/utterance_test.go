// ABOUTME: Tests for Utterance construction
// ABOUTME: Verifies ID format and UTC arrival time
package models

import (
	"strings"
	"testing"
	"time"
)

func TestNewUtterance(t *testing.T) {
	arrived := time.Date(2026, 10, 19, 8, 30, 0, 0, time.FixedZone("EST", -5*3600))
	u := NewUtterance("Mindmate, what's my schedule?", SenderUser, arrived)

	if !strings.HasPrefix(u.ID, "utt_20261019_083000_") {
		t.Errorf("ID = %q, want utt_20261019_083000_ prefix", u.ID)
	}
	if u.ArrivedAt.Location() != time.UTC {
		t.Errorf("ArrivedAt location = %v, want UTC", u.ArrivedAt.Location())
	}
	if !u.ArrivedAt.Equal(arrived) {
		t.Errorf("ArrivedAt = %v, want %v", u.ArrivedAt, arrived)
	}
	if u.Text != "Mindmate, what's my schedule?" {
		t.Errorf("Text = %q", u.Text)
	}
}

func TestNewUtterance_UniqueIDs(t *testing.T) {
	now := time.Now()
	a := NewUtterance("a", SenderUser, now)
	b := NewUtterance("a", SenderUser, now)
	if a.ID == b.ID {
		t.Errorf("IDs should differ, both %q", a.ID)
	}
}
