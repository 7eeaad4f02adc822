package model

import (
	"unicode"
	"unicode/utf8"
)

type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "new"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusDone       TicketStatus = "done"
)

// NeutralBadgeClass is used for statuses outside the lifecycle.
const NeutralBadgeClass = "bg-slate-100 text-slate-800"

type statusInfo struct {
	next  TicketStatus
	label string
	badge string
}

// Statuses lists the lifecycle in order: new -> in_progress -> done.
var Statuses = []TicketStatus{TicketStatusNew, TicketStatusInProgress, TicketStatusDone}

var statusTable = map[TicketStatus]statusInfo{
	TicketStatusNew:        {next: TicketStatusInProgress, label: "New", badge: "bg-amber-100 text-amber-800"},
	TicketStatusInProgress: {next: TicketStatusDone, label: "In Progress", badge: "bg-blue-100 text-blue-800"},
	TicketStatusDone:       {next: TicketStatusDone, label: "Done", badge: "bg-emerald-100 text-emerald-800"},
}

func (s TicketStatus) Valid() bool {
	_, ok := statusTable[s]
	return ok
}

// Next advances the status one step. done is terminal; unknown values
// fall through to done.
func (s TicketStatus) Next() TicketStatus {
	if info, ok := statusTable[s]; ok {
		return info.next
	}
	return TicketStatusDone
}

// Label returns the human-readable name; unknown values are returned with
// the first letter upper-cased.
func (s TicketStatus) Label() string {
	if info, ok := statusTable[s]; ok {
		return info.label
	}
	r, size := utf8.DecodeRuneInString(string(s))
	if r == utf8.RuneError {
		return string(s)
	}
	return string(unicode.ToUpper(r)) + string(s)[size:]
}

func (s TicketStatus) BadgeClass() string {
	if info, ok := statusTable[s]; ok {
		return info.badge
	}
	return NeutralBadgeClass
}
