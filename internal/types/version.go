package types

import (
	"strconv"
	"strings"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"
)

// upstreamSeparators is the accepted separator character set inside an
// upstream version string, in addition to alphanumerics.
const upstreamSeparators = ".-_~+"

// Version is a Debian-style package version: epoch, upstream, revision.
// Comparison follows the dpkg ordering rules (§4.1): epoch first, then the
// upstream string compared by alternating non-digit/digit runs with '~'
// sorting below everything including end-of-string, then revision.
type Version struct {
	Epoch    uint64
	Upstream string
	Revision uint64
}

// ParseVersion parses "[epoch:]upstream[-revision]" per spec.md §4.1.
func ParseVersion(input string) (Version, error) {
	if input == "" {
		return Version{}, errVersionParse(input, "empty input")
	}

	rest := input
	var epoch uint64
	if idx := strings.IndexByte(rest, ':'); idx >= 0 {
		epochStr := rest[:idx]
		if epochStr == "" || !isAllDigits(epochStr) {
			return Version{}, errVersionParse(input, "invalid epoch")
		}
		parsed, err := strconv.ParseUint(epochStr, 10, 64)
		if err != nil {
			return Version{}, errVersionParse(input, "epoch overflow")
		}
		epoch = parsed
		rest = rest[idx+1:]
	}

	upstream, revision, err := splitRevision(rest)
	if err != nil {
		return Version{}, errVersionParse(input, err.Error())
	}

	if upstream == "" {
		return Version{}, errVersionParse(input, "empty upstream")
	}
	if !isAlnum(rune(upstream[0])) {
		return Version{}, errVersionParse(input, "upstream must start alphanumeric")
	}
	for _, r := range upstream {
		if !isAlnum(r) && !strings.ContainsRune(upstreamSeparators, r) {
			return Version{}, errVersionParse(input, "upstream contains an invalid character")
		}
	}

	return Version{Epoch: epoch, Upstream: upstream, Revision: revision}, nil
}

// splitRevision detects a trailing "-<digits>" anchored to end-of-input. A
// revision is only recognized when the entire remainder after the last '-'
// is non-empty digits; otherwise '-' is treated as an ordinary upstream
// separator and the revision is 0.
func splitRevision(rest string) (upstream string, revision uint64, err error) {
	idx := strings.LastIndexByte(rest, '-')
	if idx < 0 || idx == len(rest)-1 {
		return rest, 0, nil
	}
	candidate := rest[idx+1:]
	if !isAllDigits(candidate) {
		return rest, 0, nil
	}
	parsed, perr := strconv.ParseUint(candidate, 10, 64)
	if perr != nil {
		return "", 0, perr
	}
	return rest[:idx], parsed, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// String renders the version back to its canonical textual form. A zero
// epoch is omitted; a zero revision is omitted unless the upstream itself
// ends in "-<digits>", where reparsing would otherwise read that suffix as
// the revision. This keeps parse(display(v)) == v structurally.
func (v Version) String() string {
	var b strings.Builder
	if v.Epoch != 0 {
		b.WriteString(strconv.FormatUint(v.Epoch, 10))
		b.WriteByte(':')
	}
	b.WriteString(v.Upstream)
	if up, _, err := splitRevision(v.Upstream); v.Revision != 0 || err != nil || up != v.Upstream {
		b.WriteByte('-')
		b.WriteString(strconv.FormatUint(v.Revision, 10))
	}
	return b.String()
}

// Compare returns -1, 0, or 1 per the total order in spec.md §4.1.
func (v Version) Compare(other Version) int {
	if v.Epoch != other.Epoch {
		if v.Epoch < other.Epoch {
			return -1
		}
		return 1
	}
	if c := compareUpstream(v.Upstream, other.Upstream); c != 0 {
		return c
	}
	if v.Revision != other.Revision {
		if v.Revision < other.Revision {
			return -1
		}
		return 1
	}
	return 0
}

func (v Version) Equal(other Version) bool   { return v.Compare(other) == 0 }
func (v Version) LessThan(o Version) bool    { return v.Compare(o) < 0 }
func (v Version) GreaterThan(o Version) bool { return v.Compare(o) > 0 }

// compareUpstream implements the classic dpkg alternating non-digit/digit
// comparison. Within a non-digit run, '~' orders below everything (including
// a run that has already run out of characters), letters order by their
// value and above a run that has run out, and all other separator
// characters order above letters. Separators are not skipped: they are
// compared as characters, so versions that differ only in which separator
// they use ("1.0" and "1+0") do not compare equal. The worked examples in
// version_test.go (tilde chains, epoch dominance, revision ordering) hold
// under this order.
func compareUpstream(a, b string) int {
	for len(a) > 0 || len(b) > 0 {
		aHead, aRest := splitNonDigit(a)
		bHead, bRest := splitNonDigit(b)
		if c := compareNonDigitRuns(aHead, bHead); c != 0 {
			return c
		}
		a, b = aRest, bRest

		aNum, aRest := splitDigit(a)
		bNum, bRest := splitDigit(b)
		if c := compareNumericRuns(aNum, bNum); c != 0 {
			return c
		}
		a, b = aRest, bRest
	}
	return 0
}

func splitNonDigit(s string) (head, rest string) {
	i := 0
	for i < len(s) && (s[i] < '0' || s[i] > '9') {
		i++
	}
	return s[:i], s[i:]
}

func splitDigit(s string) (head, rest string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:]
}

// charOrder gives '~' the lowest possible rank, letters their natural
// ordinal, and every other accepted separator a rank above all letters.
func charOrder(c byte) int {
	switch {
	case c == '~':
		return -1
	case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		return int(c)
	default:
		return int(c) + 256
	}
}

func compareNonDigitRuns(a, b string) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var oa, ob int
		if i < len(a) {
			oa = charOrder(a[i])
		}
		if i < len(b) {
			ob = charOrder(b[i])
		}
		if oa != ob {
			if oa < ob {
				return -1
			}
			return 1
		}
	}
	return 0
}

func compareNumericRuns(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func errVersionParse(input, reason string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("version parse error: " + reason + ": " + strconv.Quote(input))
}
