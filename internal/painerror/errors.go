// Package painerror defines the error taxonomy shared by the schema validators
// and the payment instruction builder.
package painerror

import (
	"fmt"
	"strings"
)

// Rule identifiers carried by RuleError.
const (
	RuleChoiceRequired           = "choice-required"
	RuleNonEmpty                 = "non-empty"
	RuleIntermediaryAccount      = "intermediary-account"
	RuleIntermediaryChain        = "intermediary-chain"
	RuleChargeBearerExclusive    = "charge-bearer-exclusive"
	RuleChargesAccountAgent      = "charges-account-agent"
	RuleDebtorAgentIdentity      = "debtor-agent-identification"
	RuleDistinctTransferCurrency = "distinct-transfer-currency"
	RuleInstructionTotals        = "instruction-totals"
	RuleControlTotals            = "control-totals"
	RuleUniqueID                 = "unique-id"
)

// FieldError is a single field failing a shape, range, length or pattern constraint.
type FieldError struct {
	Path   string
	Value  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s='%s': %s", e.Path, e.Value, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// RuleError is a combination of fields violating a relational constraint.
type RuleError struct {
	Rule   string
	Paths  []string
	Reason string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", strings.Join(e.Paths, ", "), e.Rule, e.Reason)
}

// ValidationError aggregates every field and rule violation found while
// validating one subject (a debtor, a transaction, a whole document).
type ValidationError struct {
	Subject    string
	Violations []error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d validation error(s)", e.Subject, len(e.Violations))
	for _, v := range e.Violations {
		b.WriteString("\n  - ")
		b.WriteString(v.Error())
	}
	return b.String()
}

// Unwrap exposes the individual violations to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	return e.Violations
}

// Fields returns the field-level violations.
func (e *ValidationError) Fields() []*FieldError {
	var out []*FieldError
	for _, v := range e.Violations {
		if fe, ok := v.(*FieldError); ok {
			out = append(out, fe)
		}
	}
	return out
}

// Rules returns the cross-field rule violations.
func (e *ValidationError) Rules() []*RuleError {
	var out []*RuleError
	for _, v := range e.Violations {
		if re, ok := v.(*RuleError); ok {
			out = append(out, re)
		}
	}
	return out
}

// HasRule reports whether a violation of rule names path.
// An empty path matches any violation of the rule.
func (e *ValidationError) HasRule(rule, path string) bool {
	for _, re := range e.Rules() {
		if re.Rule != rule {
			continue
		}
		if path == "" {
			return true
		}
		for _, p := range re.Paths {
			if p == path {
				return true
			}
		}
	}
	return false
}

// HasPath reports whether any field violation is reported at path.
func (e *ValidationError) HasPath(path string) bool {
	for _, fe := range e.Fields() {
		if fe.Path == path {
			return true
		}
	}
	return false
}

// ResolutionError reports that the creditor BIC could not be resolved from its IBAN.
type ResolutionError struct {
	IBAN string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve BIC for IBAN '%s': %v", e.IBAN, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
