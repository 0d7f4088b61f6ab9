package validate

import (
	"regexp"
	"strconv"
	"strings"

	"marketlane/internal/domain"
)

var (
	reEmail    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reUsername = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,30}$`)
	reStatus   = regexp.MustCompile(`^[a-z_]{1,30}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUsername.MatchString(s)
}

// Role validates the account role enum; empty falls back to buyer.
func Role(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.RoleBuyer, true
	}
	return s, s == domain.RoleBuyer || s == domain.RoleSeller
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 80 {
		return "", false
	}
	return s, true
}

// Password enforces a simple length window; credentials are otherwise a
// placeholder (no hashing).
func Password(s string) bool {
	return len(s) >= 6 && len(s) <= 72
}

// ID parses a positive integer path or query parameter.
func ID(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Qty clamps a cart quantity into a sane window. Non-positive values
// fall back to 1.
func Qty(n int) int {
	if n < 1 {
		return 1
	}
	if n > 99 {
		return 99
	}
	return n
}

// Search trims and caps a product search term at 50 runes; cutting on a
// rune boundary keeps multibyte terms valid UTF-8.
func Search(s string) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > 50 {
		s = string(r[:50])
	}
	return s
}

// OrderStatus validates a status transition value. The store accepts any
// string; the boundary restricts the shape.
func OrderStatus(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reStatus.MatchString(s)
}
