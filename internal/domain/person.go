package domain

// Person is a requester or assignee referenced by tickets.
type Person struct {
	ID          string
	FirstName   string
	LastName    string
	DisplayName string
	Email       string
}

// Label returns the best available human-readable name.
func (p *Person) Label() string {
	if p == nil {
		return ""
	}
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.FirstName != "" && p.LastName != "" {
		return p.FirstName + " " + p.LastName
	}
	if p.FirstName != "" {
		return p.FirstName
	}
	if p.LastName != "" {
		return p.LastName
	}
	return p.Email
}
