package view

// GroupKey selects the dimension for the grouped list view.
type GroupKey string

const (
	GroupByNone       GroupKey = "none"
	GroupByStatus     GroupKey = "status"
	GroupByPriority   GroupKey = "priority"
	GroupByType       GroupKey = "type"
	GroupByDueDate    GroupKey = "dueDate"
	GroupByReportedBy GroupKey = "reportedBy"
	GroupByAssignee   GroupKey = "assignee"
)

// AllTicketsLabel names the single group produced by GroupByNone.
const AllTicketsLabel = "All tickets"

// Group is one named bucket of the grouped view.
type Group struct {
	Label   string
	Tickets []DisplayTicket
}

// GroupTickets partitions tickets into labeled buckets. Groups appear in
// first-encounter order and every ticket lands in exactly one bucket;
// tickets with an absent grouping field fall into a fallback bucket instead
// of being dropped.
func GroupTickets(tickets []DisplayTicket, key GroupKey) []Group {
	groups := make([]Group, 0)
	index := make(map[string]int)
	for i := range tickets {
		label := groupLabel(&tickets[i], key)
		pos, ok := index[label]
		if !ok {
			pos = len(groups)
			index[label] = pos
			groups = append(groups, Group{Label: label})
		}
		groups[pos].Tickets = append(groups[pos].Tickets, tickets[i])
	}
	return groups
}

func groupLabel(t *DisplayTicket, key GroupKey) string {
	switch key {
	case GroupByStatus:
		return fallback(string(t.Status))
	case GroupByPriority:
		return fallback(string(t.Priority))
	case GroupByType:
		return fallback(string(t.Type))
	case GroupByDueDate:
		return t.DueDateLabel
	case GroupByReportedBy:
		return t.Requester.Name
	case GroupByAssignee:
		if t.PrimaryAssignee == nil {
			return UnassignedLabel
		}
		return t.PrimaryAssignee.Name
	default:
		return AllTicketsLabel
	}
}

func fallback(label string) string {
	if label == "" {
		return UnknownLabel
	}
	return label
}
