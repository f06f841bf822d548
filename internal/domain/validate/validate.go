// Package validate holds the field-level checks applied when staff and
// patient records are created. Domain invariants (occupancy, gender rules,
// rosters) live in their own packages; these are input shape checks only.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRe  = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	phoneRe  = regexp.MustCompile(`^\+?[0-9][0-9 -]{7,14}$`)
	idRe     = regexp.MustCompile(`^[A-Z]{3}[0-9]{3}$`)
	dosageRe = regexp.MustCompile(`(?i)^[0-9]+(\.[0-9]+)?\s*(mg|mcg|g|ml|units?|tablets?)$`)
)

// ID checks the three-letter, three-digit record id shape (PAT001, NUR002).
func ID(id string) error {
	if !idRe.MatchString(id) {
		return fmt.Errorf("invalid id %q: expected three letters followed by three digits", id)
	}
	return nil
}

func Email(email string) error {
	if !emailRe.MatchString(email) {
		return fmt.Errorf("invalid email %q", email)
	}
	return nil
}

func Phone(phone string) error {
	if !phoneRe.MatchString(phone) {
		return fmt.Errorf("invalid phone number %q", phone)
	}
	return nil
}

// Gender accepts the two tags used by the room segregation rule.
func Gender(g string) error {
	if g != "M" && g != "F" {
		return fmt.Errorf("invalid gender %q: expected M or F", g)
	}
	return nil
}

// Dosage checks the amount-plus-unit shape, e.g. "50mg" or "2 tablets".
func Dosage(d string) error {
	if !dosageRe.MatchString(strings.TrimSpace(d)) {
		return fmt.Errorf("invalid dosage %q: expected an amount and unit such as 50mg", d)
	}
	return nil
}

// Name rejects empty or whitespace-only names.
func Name(n string) error {
	if strings.TrimSpace(n) == "" {
		return fmt.Errorf("name must not be empty")
	}
	return nil
}
