package types

import (
	"fmt"
	"strings"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"
)

// ErrMalformedIndex reports a recoverable per-paragraph parse failure
// (spec.md §7): the paragraph is skipped and the adapter continues.
func ErrMalformedIndex(ordinal int, missingField, badValue string) error {
	detail := fmt.Sprintf("paragraph %d", ordinal)
	switch {
	case missingField != "":
		detail += fmt.Sprintf(": missing field %q", missingField)
	case badValue != "":
		detail += fmt.Sprintf(": %s", badValue)
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("malformed index: " + detail)
}

// ErrMalformedArchive reports a fatal local-archive parse failure.
func ErrMalformedArchive(path, reason string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("malformed archive %s: %s", path, reason))
}

// ErrNoCandidate reports that Pool.PickBest found no feasible version.
func ErrNoCandidate(name string, req VersionRequirement) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("no candidate for %s satisfying requirement", name))
}

// ParseWarning records a recoverable per-paragraph index or archive parse
// problem that an adapter chose to skip rather than abort on (spec.md §7:
// MalformedIndex is recoverable). Collected and surfaced by the caller
// rather than logged directly, so app/cli layers can decide how to report
// them.
type ParseWarning struct {
	Ordinal int
	Message string
}

// UnsatCandidate names one member of a minimal unsat core for rendering.
type UnsatCandidate struct {
	Name    string
	Version Version
}

// CandidateExplanation names one version of a package involved in an unsat
// core together with why it is, or isn't, part of the minimal conflicting
// set (spec.md §4.7's "minimal unsat core" surfaced as the multi-candidate
// listing `original_source/src/actions/pick.rs` shows a user choosing
// among). Data only — prompting stays a CLI-layer concern.
type CandidateExplanation struct {
	Name    string
	Version string
	Reason  string
}

// ErrUnsolvable reports that the initial SAT solve was UNSAT; core holds the
// minimal unsat core computed by diagnostics.
func ErrUnsolvable(core []UnsatCandidate, diagnostic string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("unsolvable: " + diagnostic)
}

// ErrInternalSolver reports a solver result inconsistent with its own model;
// treated as fatal per spec.md §7.
func ErrInternalSolver(detail string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("internal solver error: " + detail)
}

// RenderUnsatDiagnostic produces the human text described in spec.md §4.7.
func RenderUnsatDiagnostic(core []UnsatCandidate) string {
	if len(core) == 1 {
		c := core[0]
		return fmt.Sprintf("%s(%s) cannot be installed", c.Name, c.Version.String())
	}
	parts := make([]string, len(core))
	for i, c := range core {
		parts[i] = fmt.Sprintf("%s(%s)", c.Name, c.Version.String())
	}
	return "Packages cannot be installed simultaneously: " + strings.Join(parts, ", ")
}
