package resolver

import (
	"fmt"

	"github.com/stackb/autoloader/pkg/symbol"
)

// Status is the result class of a lookup.  Lookups never fail: a missing
// symbol is a normal outcome.
type Status int

const (
	// Resolved means the symbol is defined in the host.
	Resolved Status = iota
	// ConfirmedAbsent means no registered root declares the symbol.
	ConfirmedAbsent
	// UnresolvedWithErrors means the symbol was not found and the scan pass
	// recorded errors, so its absence cannot be trusted.
	UnresolvedWithErrors
)

// String implements fmt.Stringer
func (s Status) String() string {
	switch s {
	case Resolved:
		return "RESOLVED"
	case ConfirmedAbsent:
		return "CONFIRMED_ABSENT"
	case UnresolvedWithErrors:
		return "UNRESOLVED_WITH_ERRORS"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Outcome describes the result of a lookup.
type Outcome struct {
	// Status is the result class.
	Status Status
	// Name is the normalized symbol name.
	Name symbol.Name
	// Location is the defining file.  It is empty when the symbol was
	// resolved by another resolver in the chain.
	Location string
	// Errors holds the errors of the scan pass for UnresolvedWithErrors.
	Errors symbol.ErrorLog
}

// String implements fmt.Stringer
func (o Outcome) String() string {
	switch o.Status {
	case Resolved:
		if o.Location == "" {
			return fmt.Sprintf("%s %s (by chain)", o.Status, o.Name)
		}
		return fmt.Sprintf("%s %s -> %s", o.Status, o.Name, o.Location)
	case UnresolvedWithErrors:
		return fmt.Sprintf("%s %s (%d errors)", o.Status, o.Name, len(o.Errors))
	}
	return fmt.Sprintf("%s %s", o.Status, o.Name)
}
