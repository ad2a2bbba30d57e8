package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"press_admin/internal/models"
	"press_admin/internal/repository"
)

type sequenceSource int

const (
	sourceUsernames sequenceSource = iota
	sourceCustomerIDs
)

// Sequence names a family of human readable identifiers such as ADMIN001.
type Sequence struct {
	Name   string
	Prefix string
	Width  int
	source sequenceSource
}

var (
	AdminUsernames    = Sequence{Name: "username:admin", Prefix: "ADMIN", Width: 3, source: sourceUsernames}
	StaffUsernames    = Sequence{Name: "username:staff", Prefix: "STAFF", Width: 3, source: sourceUsernames}
	CustomerUsernames = Sequence{Name: "username:customer", Prefix: "AOP", Width: 4, source: sourceUsernames}
	CustomerIDs       = Sequence{Name: "customer_id", Prefix: "AOP", Width: 4, source: sourceCustomerIDs}
)

func UsernameSequence(role models.Role) Sequence {
	switch role {
	case models.RoleAdmin:
		return AdminUsernames
	case models.RoleStaff:
		return StaffUsernames
	default:
		return CustomerUsernames
	}
}

func (s Sequence) Format(n int) string {
	return fmt.Sprintf("%s%0*d", s.Prefix, s.Width, n)
}

// SuffixNumber returns the number formed by the digits in id, or 0 when it
// has none.
func SuffixNumber(id string) int {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, id)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// NextIdentifier allocates the next identifier in seq. It must run inside a
// transaction: the counter row stays locked until commit, and the stored
// high-water mark keeps purged numbers from being issued again.
func NextIdentifier(ctx context.Context, tx repository.Store, seq Sequence) (string, error) {
	high, err := tx.Counters().Lock(ctx, seq.Name)
	if err != nil {
		return "", fmt.Errorf("lock sequence %s: %w", seq.Name, err)
	}

	var existing []string
	switch seq.source {
	case sourceCustomerIDs:
		existing, err = tx.Profiles().ListCustomerIDs(ctx)
	default:
		existing, err = tx.Accounts().ListUsernames(ctx, seq.Prefix)
	}
	if err != nil {
		return "", fmt.Errorf("scan sequence %s: %w", seq.Name, err)
	}

	for _, id := range existing {
		if !strings.HasPrefix(id, seq.Prefix) {
			continue
		}
		if n := SuffixNumber(id); n > high {
			high = n
		}
	}

	next := high + 1
	if err := tx.Counters().Set(ctx, seq.Name, next); err != nil {
		return "", fmt.Errorf("advance sequence %s: %w", seq.Name, err)
	}
	return seq.Format(next), nil
}
