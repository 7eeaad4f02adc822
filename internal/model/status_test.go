package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatus_Next(t *testing.T) {
	tests := []struct {
		in   TicketStatus
		want TicketStatus
	}{
		{TicketStatusNew, TicketStatusInProgress},
		{TicketStatusInProgress, TicketStatusDone},
		{TicketStatusDone, TicketStatusDone},
		{"archived", TicketStatusDone},
		{"", TicketStatusDone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Next(), "Next(%q)", tt.in)
	}
}

func TestTicketStatus_NextIsIdempotentAtDone(t *testing.T) {
	assert.Equal(t, TicketStatusDone, TicketStatusNew.Next().Next().Next())
	assert.Equal(t, TicketStatusDone.Next(), TicketStatusNew.Next().Next().Next())
}

func TestTicketStatus_Label(t *testing.T) {
	assert.Equal(t, "New", TicketStatusNew.Label())
	assert.Equal(t, "In Progress", TicketStatusInProgress.Label())
	assert.Equal(t, "Done", TicketStatusDone.Label())
	assert.Equal(t, "Archived", TicketStatus("archived").Label())
	assert.Equal(t, "Über", TicketStatus("über").Label())
	assert.Equal(t, "", TicketStatus("").Label())
}

func TestTicketStatus_BadgeClass(t *testing.T) {
	seen := map[string]TicketStatus{}
	for _, s := range Statuses {
		class := s.BadgeClass()
		assert.NotEqual(t, NeutralBadgeClass, class)
		if prev, dup := seen[class]; dup {
			t.Fatalf("badge class %q shared by %q and %q", class, prev, s)
		}
		seen[class] = s
	}
	assert.Equal(t, NeutralBadgeClass, TicketStatus("archived").BadgeClass())
}

func TestStatusesAreConsistent(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.Valid())
		assert.NotEqual(t, NeutralBadgeClass, s.BadgeClass())
		assert.True(t, s.Next().Valid())
	}
	assert.False(t, TicketStatus("in-progress").Valid())
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	ts := Timestamp(mustParse(t, "2024-03-05 07:08:09"))
	b, err := ts.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `"2024-03-05 07:08:09"`, string(b))

	var back Timestamp
	assert.NoError(t, back.UnmarshalJSON(b))
	assert.Equal(t, ts.String(), back.String())
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}
