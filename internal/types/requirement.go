package types

import (
	"strings"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"
)

// Bound is one side of a VersionRequirement interval.
type Bound struct {
	Version   Version
	Inclusive bool
}

// VersionRequirement is a (lower?, upper?) interval over Version. A missing
// bound is unbounded on that side; both missing means "any" (spec.md §3).
type VersionRequirement struct {
	Lower *Bound
	Upper *Bound
}

// Any is the unbounded requirement matching every version.
func Any() VersionRequirement { return VersionRequirement{} }

// Contains reports whether v falls within the requirement's interval,
// respecting bound inclusivity.
func (r VersionRequirement) Contains(v Version) bool {
	if r.Lower != nil {
		c := v.Compare(r.Lower.Version)
		if r.Lower.Inclusive {
			if c < 0 {
				return false
			}
		} else if c <= 0 {
			return false
		}
	}
	if r.Upper != nil {
		c := v.Compare(r.Upper.Version)
		if r.Upper.Inclusive {
			if c > 0 {
				return false
			}
		} else if c >= 0 {
			return false
		}
	}
	return true
}

// Combine intersects two requirements, tightening each side: the resulting
// lower is the higher of the two lowers (exclusive wins ties), the resulting
// upper the lower of the two uppers (exclusive wins ties). Fails with
// RequirementConflict when the resulting interval is empty.
func (r VersionRequirement) Combine(other VersionRequirement) (VersionRequirement, error) {
	out := VersionRequirement{
		Lower: tighterLower(r.Lower, other.Lower),
		Upper: tighterUpper(r.Upper, other.Upper),
	}
	if out.Lower != nil && out.Upper != nil {
		c := out.Lower.Version.Compare(out.Upper.Version)
		if c > 0 || (c == 0 && (!out.Lower.Inclusive || !out.Upper.Inclusive)) {
			return VersionRequirement{}, errRequirementConflict(r, other)
		}
	}
	return out, nil
}

func tighterLower(a, b *Bound) *Bound {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	c := a.Version.Compare(b.Version)
	switch {
	case c > 0:
		return a
	case c < 0:
		return b
	default:
		if !a.Inclusive || !b.Inclusive {
			return &Bound{Version: a.Version, Inclusive: false}
		}
		return a
	}
}

func tighterUpper(a, b *Bound) *Bound {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	c := a.Version.Compare(b.Version)
	switch {
	case c < 0:
		return a
	case c > 0:
		return b
	default:
		if !a.Inclusive || !b.Inclusive {
			return &Bound{Version: a.Version, Inclusive: false}
		}
		return a
	}
}

// ParseVersionRequirement parses the serialized forms from spec.md §3: a
// comma-separated list of "<op><version>" clauses (op in >, >=, =, <, <=) or
// the literal "any" for an unbounded requirement. Clauses are combined left
// to right via Combine.
func ParseVersionRequirement(raw string) (VersionRequirement, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return VersionRequirement{}, errRequirementParse(raw)
	}
	if trimmed == "any" {
		return Any(), nil
	}

	result := Any()
	for _, clause := range strings.Split(trimmed, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			return VersionRequirement{}, errRequirementParse(raw)
		}
		req, err := parseRequirementClause(clause)
		if err != nil {
			return VersionRequirement{}, err
		}
		combined, err := result.Combine(req)
		if err != nil {
			return VersionRequirement{}, errRequirementParse(raw)
		}
		result = combined
	}
	return result, nil
}

// requirementOps is ordered longest-operator-first so ">=" is matched before
// ">" and "<=" before "<".
var requirementOps = []struct {
	token     string
	inclusive bool
	lower     bool
}{
	{">=", true, true},
	{"<=", true, false},
	{">", false, true},
	{"<", false, false},
	{"=", true, true}, // handled specially below: sets both bounds
}

func parseRequirementClause(clause string) (VersionRequirement, error) {
	if strings.HasPrefix(clause, "=") {
		v, err := ParseVersion(strings.TrimSpace(clause[1:]))
		if err != nil {
			return VersionRequirement{}, errRequirementParse(clause)
		}
		return VersionRequirement{
			Lower: &Bound{Version: v, Inclusive: true},
			Upper: &Bound{Version: v, Inclusive: true},
		}, nil
	}
	for _, op := range requirementOps[:4] {
		if strings.HasPrefix(clause, op.token) {
			v, err := ParseVersion(strings.TrimSpace(clause[len(op.token):]))
			if err != nil {
				return VersionRequirement{}, errRequirementParse(clause)
			}
			bound := &Bound{Version: v, Inclusive: op.inclusive}
			if op.lower {
				return VersionRequirement{Lower: bound}, nil
			}
			return VersionRequirement{Upper: bound}, nil
		}
	}
	return VersionRequirement{}, errRequirementParse(clause)
}

func errRequirementParse(input string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("requirement parse error: " + input)
}

func errRequirementConflict(a, b VersionRequirement) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("requirement conflict: combining bounds yields an empty interval")
}
