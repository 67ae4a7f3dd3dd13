package models

import (
	"fmt"
	"strings"
)

// Party is the flat name/IBAN/BIC triple callers use to describe a debtor or
// a creditor before it is expanded into the ISO aggregates.
type Party struct {
	Name string `json:"name" yaml:"name" csv:"name"`
	IBAN string `json:"iban" yaml:"iban" csv:"iban"`
	BIC  string `json:"bic,omitempty" yaml:"bic,omitempty" csv:"bic"`
}

// NewParty creates a new Party instance with trimmed values.
func NewParty(name, iban, bic string) Party {
	return Party{
		Name: strings.TrimSpace(name),
		IBAN: strings.TrimSpace(iban),
		BIC:  strings.TrimSpace(bic),
	}
}

// HasName returns true if the party has a non-empty name
func (p Party) HasName() bool {
	return strings.TrimSpace(p.Name) != ""
}

// HasBIC returns true if the party carries a BIC
func (p Party) HasBIC() bool {
	return strings.TrimSpace(p.BIC) != ""
}

// NormalizedIBAN returns the IBAN in normalized format (uppercase, no spaces)
func (p Party) NormalizedIBAN() string {
	if p.IBAN == "" {
		return ""
	}
	return strings.ToUpper(strings.ReplaceAll(p.IBAN, " ", ""))
}

// FormattedIBAN returns the IBAN in a human-readable format with spaces every 4 characters
func (p Party) FormattedIBAN() string {
	normalized := p.NormalizedIBAN()
	if normalized == "" {
		return ""
	}

	var formatted strings.Builder
	for i, char := range normalized {
		if i > 0 && i%4 == 0 {
			formatted.WriteRune(' ')
		}
		formatted.WriteRune(char)
	}

	return formatted.String()
}

// String returns a string representation of the party
func (p Party) String() string {
	if p.Name != "" && p.IBAN != "" {
		return fmt.Sprintf("%s (%s)", p.Name, p.IBAN)
	}
	if p.Name != "" {
		return p.Name
	}
	return p.IBAN
}

// Identification returns the party as PartyIdentification135 (name only).
func (p Party) Identification() PartyIdentification {
	return PartyIdentification{Nm: p.Name}
}

// Account returns the party's IBAN account.
func (p Party) Account() *CashAccount {
	return NewIBANAccount(p.NormalizedIBAN())
}

// Agent returns the party's bank identified by BIC.
func (p Party) Agent() *Agent {
	return NewAgentWithBIC(p.BIC)
}
