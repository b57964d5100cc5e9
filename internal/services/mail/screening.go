package mail

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/chronosync/chronosync/internal/validation"
)

// disposableDomains lists throwaway email providers rejected at signup.
var disposableDomains = []string{
	"tempmail.com",
	"guerrillamail.com",
	"mailinator.com",
	"10minutemail.com",
	"throwawaymail.com",
	"fakeinbox.com",
	"yopmail.com",
	"temp-mail.org",
	"trashmail.com",
}

// fakeLocalParts matches throwaway local parts like test7@ or demo@.
var fakeLocalParts = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^test\d*@`),
	regexp.MustCompile(`(?i)^demo\d*@`),
	regexp.MustCompile(`(?i)^fake\d*@`),
	regexp.MustCompile(`(?i)^temp\d*@`),
	regexp.MustCompile(`(?i)^admin\d*@`),
}

// ScreenAddress checks whether an email address is acceptable for signup.
// It rejects malformed addresses, disposable providers, and obviously fake
// local parts. The returned error message is safe to show to the user.
func ScreenAddress(email string) error {
	if err := validation.Validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("invalid email format")
	}

	at := strings.LastIndex(email, "@")
	domain := strings.ToLower(email[at+1:])
	for _, d := range disposableDomains {
		if strings.Contains(domain, d) {
			return fmt.Errorf("disposable email addresses are not allowed")
		}
	}

	for _, pattern := range fakeLocalParts {
		if pattern.MatchString(email) {
			return fmt.Errorf("suspicious email pattern detected")
		}
	}

	return nil
}
