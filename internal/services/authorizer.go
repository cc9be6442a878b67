package services

import "strings"

// Authorizer answers whether an identity may perform administrator actions.
// Moderation depends on this capability instead of parsing the environment
// at each call site.
type Authorizer interface {
	IsAdmin(email string) bool
}

// AdminAllowList authorizes by case-insensitive membership in a fixed email
// list. An empty list authorizes nobody.
type AdminAllowList struct {
	emails map[string]struct{}
}

func NewAdminAllowList(emails []string) *AdminAllowList {
	set := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			set[email] = struct{}{}
		}
	}
	return &AdminAllowList{emails: set}
}

func (a *AdminAllowList) IsAdmin(email string) bool {
	if len(a.emails) == 0 {
		return false
	}
	_, ok := a.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
