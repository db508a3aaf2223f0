package view

import (
	"hash/fnv"
	"strings"
	"time"
	"unicode"

	"github.com/bsm-kit/ticketview-service/internal/domain"
)

// Placeholder labels substituted for absent data.
const (
	UnknownLabel    = "Unknown"
	NoDueDateLabel  = "No due date"
	UnassignedLabel = "Unassigned"
)

// avatarPalette is the fixed color set for deterministic name coloring. The
// palette size is part of the contract: the same name must map to the same
// color across sessions.
var avatarPalette = []string{
	"#ef4444", "#f97316", "#f59e0b", "#84cc16", "#22c55e",
	"#14b8a6", "#0ea5e9", "#6366f1", "#a855f7", "#ec4899",
}

// DisplayPerson is a flattened, render-ready view of a person.
type DisplayPerson struct {
	ID       string
	Name     string
	Initials string
	Color    string
}

// DisplayTicket is the flat record the filter, grouper, and projector
// operate on. Every nullable backend field is replaced with a display-safe
// value.
type DisplayTicket struct {
	DBID            string
	DisplayID       string
	Type            domain.TicketType
	Priority        domain.TicketPriority
	Status          domain.TicketStatus
	Title           string
	Description     string
	Tags            []string
	RequesterID     string
	AssigneeIDs     []string
	Requester       DisplayPerson
	Assignees       []DisplayPerson
	PrimaryAssignee *DisplayPerson
	DueDate         *time.Time
	DueDateLabel    string
	CreatedAt       time.Time
}

// Normalize flattens a raw ticket into a display record. It is pure and
// idempotent: the same input always yields the same output.
func Normalize(t domain.Ticket) DisplayTicket {
	display := DisplayTicket{
		DBID:         t.DBID,
		DisplayID:    t.DisplayID,
		Type:         t.Type,
		Priority:     t.Priority,
		Status:       t.Status,
		Title:        t.Title,
		Description:  t.Description,
		Tags:         t.Tags,
		RequesterID:  t.RequesterID,
		AssigneeIDs:  t.AssigneeIDs,
		Requester:    normalizePerson(t.RequesterID, t.Requester),
		DueDate:      t.DueDate,
		DueDateLabel: dueDateLabel(t.DueDate),
		CreatedAt:    t.CreatedAt,
	}
	if len(t.Assignees) > 0 {
		display.Assignees = make([]DisplayPerson, 0, len(t.Assignees))
		for i := range t.Assignees {
			person := t.Assignees[i]
			display.Assignees = append(display.Assignees, normalizePerson(person.ID, &person))
		}
		primary := display.Assignees[0]
		display.PrimaryAssignee = &primary
	}
	return display
}

// NormalizeAll maps a raw collection, preserving order.
func NormalizeAll(tickets []domain.Ticket) []DisplayTicket {
	result := make([]DisplayTicket, 0, len(tickets))
	for i := range tickets {
		result = append(result, Normalize(tickets[i]))
	}
	return result
}

func normalizePerson(id string, p *domain.Person) DisplayPerson {
	name := strings.TrimSpace(p.Label())
	if name == "" {
		name = UnknownLabel
	}
	return DisplayPerson{
		ID:       id,
		Name:     name,
		Initials: initials(p),
		Color:    ColorForName(name),
	}
}

// ColorForName maps a display name to a palette color deterministically.
func ColorForName(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return avatarPalette[int(h.Sum32())%len(avatarPalette)]
}

func initials(p *domain.Person) string {
	if p == nil {
		return "??"
	}
	first := strings.TrimSpace(p.FirstName)
	last := strings.TrimSpace(p.LastName)
	switch {
	case first != "" && last != "":
		return firstLetter(first) + firstLetter(last)
	case first != "":
		return firstTwoLetters(first)
	case last != "":
		return firstTwoLetters(last)
	}
	display := strings.TrimSpace(p.DisplayName)
	if display == "" {
		return "??"
	}
	words := strings.Fields(display)
	if len(words) >= 2 {
		return firstLetter(words[0]) + firstLetter(words[1])
	}
	return firstTwoLetters(words[0])
}

func firstLetter(s string) string {
	for _, r := range s {
		return string(unicode.ToUpper(r))
	}
	return ""
}

func firstTwoLetters(s string) string {
	runes := []rune(s)
	if len(runes) == 1 {
		return string(unicode.ToUpper(runes[0]))
	}
	return string(unicode.ToUpper(runes[0])) + string(unicode.ToUpper(runes[1]))
}

func dueDateLabel(due *time.Time) string {
	if due == nil {
		return NoDueDateLabel
	}
	return due.Format("2006-01-02")
}
