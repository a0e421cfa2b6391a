package budget

import "fmt"

// Reason is the closed refusal taxonomy every domain reports through,
// mirrored across query, resolve, collapse, and expand. Shape follows the
// teacher's ErrorCode string-enum convention (consensus/errors.go).
type Reason string

const (
	ReasonNone            Reason = "NONE"
	ReasonBudget          Reason = "BUDGET"
	ReasonDomainInactive  Reason = "DOMAIN_INACTIVE"
	ReasonEntityMissing   Reason = "ENTITY_MISSING"
	ReasonPolicy          Reason = "POLICY"
	ReasonInternal        Reason = "INTERNAL"
	ReasonRegionCollapsed Reason = "REGION_COLLAPSED"
)

// EntityMissing builds a "<KIND>_MISSING" refusal reason for a specific
// entity kind, e.g. EntityMissing("FORCE") -> "FORCE_MISSING".
func EntityMissing(kind string) Reason {
	return Reason(fmt.Sprintf("%s_MISSING", kind))
}

// RefusalError is returned by internal helpers that need Go error-style
// propagation before being translated into a sample/result's meta fields.
// It is never returned across a domain boundary; see spec §7.
type RefusalError struct {
	Reason Reason
	Msg    string
}

func (e *RefusalError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Msg)
}

// Refuse constructs a RefusalError for the given reason.
func Refuse(reason Reason, msg string) error {
	return &RefusalError{Reason: reason, Msg: msg}
}
