package adapters

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"

	"apt-resolve/internal/ports"
	"apt-resolve/internal/types"
)

// RepoIndexSourceAdapter reads a Debian-style repository index (a Packages
// file in deb822 paragraph format) and populates a Pool with one
// PackageMeta per paragraph. Paragraphs are parsed data-parallel (spec.md
// §5: "data-parallel map, insertion order must still match paragraph
// order") and inserted into the Pool sequentially in paragraph order
// afterwards.
//
// The parser is hand-rolled rather than built on pault.ag/go/debian/control:
// that library's struct-tag decoder has no way to report a per-paragraph,
// per-field MalformedIndex{ordinal, missing_field} the way spec.md §7
// requires (see DESIGN.md).
type RepoIndexSourceAdapter struct {
	// Open opens the index file or stream for baseURL. Left pluggable so
	// tests can supply an in-memory reader without touching the network;
	// the default (nil) opens baseURL as a local file path.
	Open func(ctx context.Context, baseURL string) (io.ReadCloser, error)
}

func NewRepoIndexSourceAdapter() *RepoIndexSourceAdapter {
	return &RepoIndexSourceAdapter{}
}

func (a *RepoIndexSourceAdapter) Populate(ctx context.Context, pool *types.Pool, baseURL string) ([]types.ParseWarning, error) {
	open := a.Open
	if open == nil {
		open = openLocalFile
	}
	rc, err := open(ctx, baseURL)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("repo index unreachable: " + baseURL).
			WithCause(err)
	}
	defer rc.Close()

	paragraphs, err := scanParagraphs(rc)
	if err != nil {
		return nil, err
	}

	type parseOutcome struct {
		meta    types.PackageMeta
		warning *types.ParseWarning
	}
	outcomes := make([]parseOutcome, len(paragraphs))

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, para := range paragraphs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, para deb822Paragraph) {
			defer wg.Done()
			defer func() { <-sem }()
			meta, err := parseRepoParagraph(para, i, baseURL)
			if err != nil {
				outcomes[i] = parseOutcome{warning: &types.ParseWarning{
					Ordinal: i,
					Message: types.ErrMalformedIndex(i, "", err.Error()).Error(),
				}}
				return
			}
			outcomes[i] = parseOutcome{meta: meta}
		}(i, para)
	}
	wg.Wait()

	var warnings []types.ParseWarning
	for _, oc := range outcomes {
		if oc.warning != nil {
			warnings = append(warnings, *oc.warning)
			continue
		}
		pool.Add(oc.meta)
	}
	return warnings, nil
}

func openLocalFile(_ context.Context, path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// joinBaseURL prefixes baseURL to a paragraph's Filename field (spec.md §4.3:
// "A base URL is prefixed to Filename to form the download URL"), the same
// baseURL this adapter used to open the index stream itself — the apt
// archive convention of Filename being relative to the index's own location.
func joinBaseURL(baseURL, filename string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(filename, "/")
}

// deb822Paragraph is one blank-line-delimited block of "Key: value" fields,
// with continuation lines (space/tab-prefixed) folded into the prior
// field's value separated by "\n".
type deb822Paragraph map[string]string

// scanParagraphs streams the index with bufio.Reader.ReadString('\n')
// rather than bufio.Scanner, since spec.md notes index files can run to
// tens of megabytes and Scanner's default token-size cap would truncate a
// long Description or Depends line.
func scanParagraphs(r io.Reader) ([]deb822Paragraph, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	var out []deb822Paragraph
	current := deb822Paragraph{}
	lastKey := ""

	flush := func() {
		if len(current) > 0 {
			out = append(out, current)
			current = deb822Paragraph{}
			lastKey = ""
		}
	}

	for {
		line, err := reader.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			flush()
		} else if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			if lastKey != "" {
				current[lastKey] += "\n" + strings.TrimSpace(trimmed)
			}
		} else if idx := strings.Index(trimmed, ":"); idx >= 0 {
			key := strings.TrimSpace(trimmed[:idx])
			val := strings.TrimSpace(trimmed[idx+1:])
			current[key] = val
			lastKey = key
		}
		if err != nil {
			if err == io.EOF {
				flush()
				return out, nil
			}
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("error reading repo index").
				WithCause(err)
		}
	}
}

func parseRepoParagraph(p deb822Paragraph, ordinal int, baseURL string) (types.PackageMeta, error) {
	required := []string{"Package", "Version", "Section", "Description", "Filename", "Installed-Size", "Size"}
	for _, field := range required {
		if _, ok := p[field]; !ok {
			return types.PackageMeta{}, fmt.Errorf("missing field %q", field)
		}
	}

	version, err := types.ParseVersion(p["Version"])
	if err != nil {
		return types.PackageMeta{}, fmt.Errorf("field Version: %w", err)
	}

	installedKiB, err := strconv.ParseInt(p["Installed-Size"], 10, 64)
	if err != nil {
		return types.PackageMeta{}, fmt.Errorf("field Installed-Size: %w", err)
	}

	size, err := strconv.ParseInt(p["Size"], 10, 64)
	if err != nil {
		return types.PackageMeta{}, fmt.Errorf("field Size: %w", err)
	}

	checksum, err := extractChecksum(p)
	if err != nil {
		return types.PackageMeta{}, err
	}

	depends, err := parseDependencyGroups(p["Depends"])
	if err != nil {
		return types.PackageMeta{}, fmt.Errorf("field Depends: %w", err)
	}
	recommends, err := parseDependencyGroups(p["Recommends"])
	if err != nil {
		return types.PackageMeta{}, fmt.Errorf("field Recommends: %w", err)
	}
	suggests, err := parseDependencyGroups(p["Suggests"])
	if err != nil {
		return types.PackageMeta{}, fmt.Errorf("field Suggests: %w", err)
	}
	breaks, err := parseRelationList(p["Breaks"])
	if err != nil {
		return types.PackageMeta{}, fmt.Errorf("field Breaks: %w", err)
	}
	conflicts, err := parseRelationList(p["Conflicts"])
	if err != nil {
		return types.PackageMeta{}, fmt.Errorf("field Conflicts: %w", err)
	}
	provides, err := parseRelationList(p["Provides"])
	if err != nil {
		return types.PackageMeta{}, fmt.Errorf("field Provides: %w", err)
	}
	replaces, err := parseRelationList(p["Replaces"])
	if err != nil {
		return types.PackageMeta{}, fmt.Errorf("field Replaces: %w", err)
	}

	return types.PackageMeta{
		Name:        p["Package"],
		Version:     version,
		Section:     p["Section"],
		Description: p["Description"],
		InstallSize: installedKiB * 1024,
		Essential:   strings.EqualFold(p["Essential"], "yes"),
		Depends:     depends,
		Breaks:      breaks,
		Conflicts:   conflicts,
		Provides:    provides,
		Recommends:  recommends,
		Suggests:    suggests,
		Replaces:    replaces,
		Source: types.Source{
			Remote: &types.RemoteSource{
				URL:          joinBaseURL(baseURL, p["Filename"]),
				DownloadSize: size,
				Checksum:     checksum,
			},
		},
	}, nil
}

func extractChecksum(p deb822Paragraph) (types.Checksum, error) {
	sha256, has256 := p["SHA256"]
	sha512, has512 := p["SHA512"]
	switch {
	case has256 && has512:
		return types.Checksum{}, fmt.Errorf("paragraph carries both SHA256 and SHA512")
	case has256:
		return types.Checksum{Algorithm: types.ChecksumSHA256, Digest: sha256}, nil
	case has512:
		return types.Checksum{Algorithm: types.ChecksumSHA512, Digest: sha512}, nil
	default:
		return types.Checksum{}, fmt.Errorf("missing field %q", "SHA256 or SHA512")
	}
}

// relationOps is ordered longest-match-first so ">=" isn't mistaken for ">".
var relationOps = []struct {
	token     string
	inclusive bool
	isLower   bool
}{
	{">=", true, true},
	{"<=", true, false},
	{">>", false, true},
	{"<<", false, false},
	{"=", true, true}, // lower bound; upper set identically below
}

func parseSingleRelation(raw string) (types.Relation, error) {
	raw = strings.TrimSpace(raw)
	name := raw
	var req types.VersionRequirement

	if open := strings.Index(raw, "("); open >= 0 {
		close := strings.Index(raw, ")")
		if close < open {
			return types.Relation{}, fmt.Errorf("malformed relation %q", raw)
		}
		name = strings.TrimSpace(raw[:open])
		constraint := strings.TrimSpace(raw[open+1 : close])

		matched := false
		for _, op := range relationOps {
			if strings.HasPrefix(constraint, op.token) {
				verStr := strings.TrimSpace(constraint[len(op.token):])
				v, err := types.ParseVersion(verStr)
				if err != nil {
					return types.Relation{}, fmt.Errorf("relation version: %w", err)
				}
				bound := types.Bound{Version: v, Inclusive: op.inclusive}
				if op.token == "=" {
					req = types.VersionRequirement{Lower: &bound, Upper: &types.Bound{Version: v, Inclusive: true}}
				} else if op.isLower {
					req = types.VersionRequirement{Lower: &bound}
				} else {
					req = types.VersionRequirement{Upper: &bound}
				}
				matched = true
				break
			}
		}
		if !matched {
			return types.Relation{}, fmt.Errorf("unrecognized relation operator in %q", constraint)
		}
	} else {
		req = types.VersionRequirement{}
	}

	if name == "" {
		return types.Relation{}, fmt.Errorf("relation with empty package name")
	}
	return types.Relation{Name: name, Requirement: req}, nil
}

// parseRelationList parses a comma-separated field with no alternatives
// (Breaks, Conflicts, Provides, Replaces).
func parseRelationList(field string) ([]types.Relation, error) {
	field = strings.TrimSpace(strings.ReplaceAll(field, "\n", " "))
	if field == "" {
		return nil, nil
	}
	var out []types.Relation
	for _, part := range strings.Split(field, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		rel, err := parseSingleRelation(part)
		if err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, nil
}

// parseDependencyGroups parses a comma-then-pipe field (Depends, Recommends,
// Suggests): each comma-separated entry is an AND'd group, each
// pipe-separated item within it is an OR'd alternative.
func parseDependencyGroups(field string) ([]types.DependencyGroup, error) {
	field = strings.TrimSpace(strings.ReplaceAll(field, "\n", " "))
	if field == "" {
		return nil, nil
	}
	var out []types.DependencyGroup
	for _, entry := range strings.Split(field, ",") {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		var alts []types.Relation
		for _, alt := range strings.Split(entry, "|") {
			if strings.TrimSpace(alt) == "" {
				continue
			}
			rel, err := parseSingleRelation(alt)
			if err != nil {
				return nil, err
			}
			alts = append(alts, rel)
		}
		if len(alts) > 0 {
			out = append(out, types.DependencyGroup{Alternatives: alts})
		}
	}
	return out, nil
}

var _ ports.RepoIndexSource = (*RepoIndexSourceAdapter)(nil)
