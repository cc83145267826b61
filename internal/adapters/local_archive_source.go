package adapters

import (
	"archive/tar"
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/ulikunitz/xz"

	"apt-resolve/internal/ports"
	"apt-resolve/internal/types"
)

// LocalArchiveSourceAdapter reads one on-disk .deb archive's control member
// and adds the single candidate it describes to a Pool (spec.md §4.3: "ar
// format, control.tar.xz member, ./control tar entry, single-paragraph
// control format"). A malformed archive is fatal (spec.md §7
// MalformedArchive), unlike a single bad paragraph in a repo index.
//
// No ar-archive library appears anywhere in the pack, so the ar reader below
// is hand-rolled (see DESIGN.md); tar is stdlib archive/tar and xz
// decompression is github.com/ulikunitz/xz, both already in go.mod.
type LocalArchiveSourceAdapter struct{}

func NewLocalArchiveSourceAdapter() *LocalArchiveSourceAdapter {
	return &LocalArchiveSourceAdapter{}
}

func (a *LocalArchiveSourceAdapter) PopulateOne(pool *types.Pool, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return types.ErrMalformedArchive(path, "cannot open: "+err.Error())
	}
	defer f.Close()

	controlTarXz, err := extractArMember(f, "control.tar.xz")
	if err != nil {
		return types.ErrMalformedArchive(path, err.Error())
	}

	xzReader, err := xz.NewReader(bytes.NewReader(controlTarXz))
	if err != nil {
		return types.ErrMalformedArchive(path, "invalid xz stream: "+err.Error())
	}

	controlParagraph, err := extractTarEntry(xzReader, "./control")
	if err != nil {
		return types.ErrMalformedArchive(path, err.Error())
	}

	paragraphs, err := scanParagraphs(bytes.NewReader(controlParagraph))
	if err != nil {
		return types.ErrMalformedArchive(path, "cannot parse control: "+err.Error())
	}
	if len(paragraphs) != 1 {
		return types.ErrMalformedArchive(path, fmt.Sprintf("control must be a single paragraph, found %d", len(paragraphs)))
	}

	meta, err := parseControlParagraph(paragraphs[0])
	if err != nil {
		return types.ErrMalformedArchive(path, err.Error())
	}

	info, err := os.Stat(path)
	if err != nil {
		return types.ErrMalformedArchive(path, "cannot stat: "+err.Error())
	}
	checksum, err := checksumFile(path)
	if err != nil {
		return types.ErrMalformedArchive(path, "cannot checksum: "+err.Error())
	}
	meta.Source = types.Source{Local: &types.LocalSource{Path: path, Checksum: checksum}}
	meta.InstallSize = info.Size()

	pool.Add(meta)
	return nil
}

// extractArMember returns the raw bytes of the named member of a Unix ar
// archive (the "!<arch>\n" global header followed by 60-byte member
// headers, each name/size/data triplet padded to an even byte boundary).
func extractArMember(r io.Reader, name string) ([]byte, error) {
	magic := make([]byte, 8)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("cannot read ar magic: %w", err)
	}
	if string(magic) != "!<arch>\n" {
		return nil, fmt.Errorf("not an ar archive")
	}

	br := bufio.NewReader(r)
	for {
		header := make([]byte, 60)
		if _, err := io.ReadFull(br, header); err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("member %q not found", name)
			}
			return nil, fmt.Errorf("cannot read ar member header: %w", err)
		}
		memberName := strings.TrimRight(string(header[0:16]), " ")
		memberName = strings.TrimSuffix(memberName, "/")
		sizeStr := strings.TrimSpace(string(header[48:58]))
		size, err := strconv.ParseInt(sizeStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed ar member size: %w", err)
		}

		data := make([]byte, size)
		if _, err := io.ReadFull(br, data); err != nil {
			return nil, fmt.Errorf("cannot read ar member data: %w", err)
		}
		if size%2 == 1 {
			if _, err := br.Discard(1); err != nil {
				return nil, fmt.Errorf("cannot read ar padding: %w", err)
			}
		}

		if memberName == name {
			return data, nil
		}
	}
}

func extractTarEntry(r io.Reader, name string) ([]byte, error) {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("tar entry %q not found", name)
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read tar entry: %w", err)
		}
		if hdr.Name == name {
			return io.ReadAll(tr)
		}
	}
}

func parseControlParagraph(p deb822Paragraph) (types.PackageMeta, error) {
	for _, field := range []string{"Package", "Version", "Section", "Description"} {
		if _, ok := p[field]; !ok {
			return types.PackageMeta{}, fmt.Errorf("missing field %q", field)
		}
	}
	version, err := types.ParseVersion(p["Version"])
	if err != nil {
		return types.PackageMeta{}, fmt.Errorf("field Version: %w", err)
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
		Essential:   strings.EqualFold(p["Essential"], "yes"),
		Depends:     depends,
		Breaks:      breaks,
		Conflicts:   conflicts,
		Provides:    provides,
		Recommends:  recommends,
		Suggests:    suggests,
		Replaces:    replaces,
	}, nil
}

// checksumFile streams path through sha256 since a local archive has no
// index entry to source a checksum from (SPEC_FULL.md §4.3).
func checksumFile(path string) (types.Checksum, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Checksum{}, err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return types.Checksum{}, err
	}
	return types.Checksum{Algorithm: types.ChecksumSHA256, Digest: hex.EncodeToString(h.Sum(nil))}, nil
}

var _ ports.LocalArchiveSource = (*LocalArchiveSourceAdapter)(nil)
