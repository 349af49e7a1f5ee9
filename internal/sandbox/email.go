// Package sandbox generates placeholder data for sandbox organizations.
package sandbox

import "strings"

// Domain is the mail domain used by EmailOf and the configured default.
const Domain = "example.com"

// EmailOf derives a sandbox email address from a person's name:
// "Jane Doe" becomes "jane.doe@example.com". Runs of whitespace collapse
// to a single dot. An empty or blank name yields "".
func EmailOf(name string) string {
	return EmailOfDomain(name, Domain)
}

// EmailOfDomain is EmailOf with a custom mail domain.
func EmailOfDomain(name, domain string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.Join(fields, ".")) + "@" + domain
}
