package types

// ChecksumAlgorithm tags the algorithm a Source checksum was computed with.
type ChecksumAlgorithm string

const (
	ChecksumSHA256 ChecksumAlgorithm = "sha256"
	ChecksumSHA512 ChecksumAlgorithm = "sha512"
)

// Checksum pairs a hex digest with the algorithm that produced it.
type Checksum struct {
	Algorithm ChecksumAlgorithm
	Digest    string
}

// Source is the discriminated origin of a candidate: either a remote
// repository entry (URL + download size + checksum) or a local archive path
// on disk.
type Source struct {
	Remote *RemoteSource
	Local  *LocalSource
}

// RemoteSource is the download-side provenance of a repository candidate.
type RemoteSource struct {
	URL          string
	DownloadSize int64
	Checksum     Checksum
}

// LocalSource is the on-disk path of a local .deb candidate, with a checksum
// computed directly from the file since there is no index entry to source
// it from.
type LocalSource struct {
	Path     string
	Checksum Checksum
}

// IsLocal reports whether this candidate comes from a local archive; a
// Blueprint entry with the "local" flag only accepts such candidates.
func (s Source) IsLocal() bool { return s.Local != nil }

// Relation is a single (name, requirement) entry of a relation list
// (breaks, conflicts, provides, replaces — no alternatives).
type Relation struct {
	Name        string
	Requirement VersionRequirement
}

// DependencyGroup is one comma-separated entry of a Depends/Recommends/
// Suggests field: a list of pipe-separated alternatives, any one of which
// satisfies the group (real dpkg "a | b" syntax; end-to-end scenario 5 of
// spec.md §8 requires this — a flat (name, requirement) list alone cannot
// express an OR across distinct names).
type DependencyGroup struct {
	Alternatives []Relation
}

// PackageMeta is a single candidate version of a package in the Pool.
// Immutable once added (spec.md §3 "Lifecycle").
type PackageMeta struct {
	ID          int
	Name        string
	Version     Version
	Section     string
	Description string
	InstallSize int64 // bytes
	Essential   bool
	Depends     []DependencyGroup
	Breaks      []Relation
	Conflicts   []Relation
	Provides    []Relation
	Recommends  []DependencyGroup
	Suggests    []DependencyGroup
	Replaces    []Relation
	Source      Source
}
