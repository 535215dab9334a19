package auth

import "fmt"

// Policy is a capability requirement checked before an operation runs.
type Policy int

const (
	// PolicyNone admits anonymous callers.
	PolicyNone Policy = iota
	// PolicyUser requires a valid token of any role.
	PolicyUser
	// PolicyAdmin requires a valid token with the Admin role.
	PolicyAdmin
)

func (p Policy) String() string {
	switch p {
	case PolicyNone:
		return "none"
	case PolicyUser:
		return "UserPolicy"
	case PolicyAdmin:
		return "AdminPolicy"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Operation names a gated entry point.
type Operation string

const (
	OpRegister     Operation = "register"
	OpLogin        Operation = "login"
	OpIssueRead    Operation = "issue.read"
	OpIssueWrite   Operation = "issue.write"
	OpTagRead      Operation = "tag.read"
	OpTagWrite     Operation = "tag.write"
	OpProjectRead  Operation = "project.read"
	OpProjectWrite Operation = "project.write"
	OpAuditRead    Operation = "audit.read"
)

// operationPolicies is fixed at build time. Register is open by default; the
// server may tighten it to Admin through configuration.
var operationPolicies = map[Operation]Policy{
	OpRegister:     PolicyNone,
	OpLogin:        PolicyNone,
	OpIssueRead:    PolicyUser,
	OpIssueWrite:   PolicyUser,
	OpTagRead:      PolicyNone,
	OpTagWrite:     PolicyAdmin,
	OpProjectRead:  PolicyAdmin,
	OpProjectWrite: PolicyAdmin,
	OpAuditRead:    PolicyAdmin,
}

// PolicyFor returns the policy of op. Unknown operations require Admin.
func PolicyFor(op Operation) Policy {
	if p, ok := operationPolicies[op]; ok {
		return p
	}
	return PolicyAdmin
}

// Authorize checks p against policy. A nil principal fails any policy other
// than PolicyNone with ErrUnauthenticated; a principal lacking the Admin role
// fails PolicyAdmin with ErrForbidden.
func Authorize(p *Principal, policy Policy) error {
	switch policy {
	case PolicyNone:
		return nil
	case PolicyUser:
		if p == nil {
			return ErrUnauthenticated
		}
		return nil
	case PolicyAdmin:
		if p == nil {
			return ErrUnauthenticated
		}
		if !p.IsAdmin() {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}
