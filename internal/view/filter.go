package view

import (
	"strings"
	"time"

	"github.com/bsm-kit/ticketview-service/internal/domain"
)

// FacetAll is the legacy single-select sentinel meaning "no constraint".
const FacetAll = "all"

// FacetFilter captures the active view criteria. Facets combine with AND;
// values within a multi-select facet combine with OR.
//
// The Type/Priority/Status string fields are the legacy single-select form;
// the slice fields are the multi-select form and take precedence whenever
// they are non-empty.
type FacetFilter struct {
	Search string

	Type     string
	Priority string
	Status   string

	Types      []domain.TicketType
	Priorities []domain.TicketPriority
	Statuses   []domain.TicketStatus

	AssigneeIDs  []string
	RequesterIDs []string

	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// IsZero reports whether no criterion is active.
func (f FacetFilter) IsZero() bool {
	return f.Search == "" &&
		legacyInactive(f.Type) && legacyInactive(f.Priority) && legacyInactive(f.Status) &&
		len(f.Types) == 0 && len(f.Priorities) == 0 && len(f.Statuses) == 0 &&
		len(f.AssigneeIDs) == 0 && len(f.RequesterIDs) == 0 &&
		f.CreatedFrom == nil && f.CreatedTo == nil
}

// Apply returns the subset of tickets satisfying every active facet,
// preserving the input's relative order.
func Apply(tickets []DisplayTicket, f FacetFilter) []DisplayTicket {
	result := make([]DisplayTicket, 0, len(tickets))
	search := strings.ToLower(strings.TrimSpace(f.Search))
	for i := range tickets {
		if matches(&tickets[i], f, search) {
			result = append(result, tickets[i])
		}
	}
	return result
}

func matches(t *DisplayTicket, f FacetFilter, search string) bool {
	if !matchesSearch(t, search) {
		return false
	}
	if !matchesFacet(string(t.Type), f.Type, typeStrings(f.Types)) {
		return false
	}
	if !matchesFacet(string(t.Priority), f.Priority, priorityStrings(f.Priorities)) {
		return false
	}
	if !matchesFacet(string(t.Status), f.Status, statusStrings(f.Statuses)) {
		return false
	}
	if len(f.AssigneeIDs) > 0 && !anyMember(t.AssigneeIDs, f.AssigneeIDs) {
		return false
	}
	if len(f.RequesterIDs) > 0 && !member(t.RequesterID, f.RequesterIDs) {
		return false
	}
	if f.CreatedFrom != nil && t.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && t.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}

func matchesSearch(t *DisplayTicket, search string) bool {
	if search == "" {
		return true
	}
	fields := []string{t.Title, t.Description, t.DisplayID, t.Requester.Name}
	if t.PrimaryAssignee != nil {
		fields = append(fields, t.PrimaryAssignee.Name)
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// matchesFacet resolves the two facet input modes: a non-empty multi-select
// list wins; otherwise the legacy single-select applies unless it is the
// "all" sentinel (or unset).
func matchesFacet(value, legacy string, selected []string) bool {
	if len(selected) > 0 {
		return member(value, selected)
	}
	if legacyInactive(legacy) {
		return true
	}
	return value == legacy
}

func legacyInactive(legacy string) bool {
	return legacy == "" || legacy == FacetAll
}

func member(value string, set []string) bool {
	for _, candidate := range set {
		if candidate == value {
			return true
		}
	}
	return false
}

// anyMember reports whether any of values is in set. A ticket with no
// assignees therefore never matches a non-empty assignee filter.
func anyMember(values, set []string) bool {
	for _, value := range values {
		if member(value, set) {
			return true
		}
	}
	return false
}

func typeStrings(values []domain.TicketType) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		result = append(result, string(v))
	}
	return result
}

func priorityStrings(values []domain.TicketPriority) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		result = append(result, string(v))
	}
	return result
}

func statusStrings(values []domain.TicketStatus) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		result = append(result, string(v))
	}
	return result
}
