package vcs

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffNodes compares the snapshots of commits from and to. Paths present
// in both with identical content are omitted; the result is sorted by path.
// A missing endpoint yields a NotFoundError naming it (from is checked
// first).
func (s *Service) DiffNodes(from, to string) (*NodeDiff, error) {
	if err := s.requireCommit(from); err != nil {
		return nil, err
	}
	if err := s.requireCommit(to); err != nil {
		return nil, err
	}

	before, err := s.store.SnapshotBlobs(from)
	if err != nil {
		return nil, storageErr("loading snapshot "+from, err)
	}
	after, err := s.store.SnapshotBlobs(to)
	if err != nil {
		return nil, storageErr("loading snapshot "+to, err)
	}

	changes := classify(before, after)
	files := make([]*FileDiff, 0, len(changes))
	for _, c := range changes {
		var a, b []byte
		if c.kind != Added {
			if a, err = s.GetBlob(before[c.path]); err != nil {
				return nil, err
			}
		}
		if c.kind != Removed {
			if b, err = s.GetBlob(after[c.path]); err != nil {
				return nil, err
			}
		}
		fd, err := s.buildFileDiff(c.path, c.kind, a, b)
		if err != nil {
			return nil, err
		}
		files = append(files, fd)
	}

	s.logger.Debug("diff computed", "from", from, "to", to, "files", len(files))
	return &NodeDiff{From: from, To: to, Files: files}, nil
}

type pathChange struct {
	path string
	kind ChangeKind
}

// classify compares two path to blob id maps. Unchanged paths are dropped.
func classify(before, after map[string]string) []pathChange {
	paths := make([]string, 0, len(before)+len(after))
	for p := range before {
		paths = append(paths, p)
	}
	for p := range after {
		if _, ok := before[p]; !ok {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	var changes []pathChange
	for _, p := range paths {
		a, inBefore := before[p]
		b, inAfter := after[p]
		switch {
		case !inBefore:
			changes = append(changes, pathChange{p, Added})
		case !inAfter:
			changes = append(changes, pathChange{p, Removed})
		case a != b:
			changes = append(changes, pathChange{p, Modified})
		}
	}
	return changes
}

// buildFileDiff renders one change. before is nil for Added, after is nil
// for Removed.
func (s *Service) buildFileDiff(path string, kind ChangeKind, before, after []byte) (*FileDiff, error) {
	fd := &FileDiff{Path: path, Kind: kind}

	if (kind != Added && IsBinary(before)) || (kind != Removed && IsBinary(after)) {
		fd.IsBinary = true
		return fd, nil
	}

	if kind != Added {
		t := string(before)
		fd.BeforeText = &t
	}
	if kind != Removed {
		t := string(after)
		fd.AfterText = &t
	}

	if kind == Modified {
		u, err := s.unifiedDiff(path, *fd.BeforeText, *fd.AfterText)
		if err != nil {
			return nil, &StorageError{Op: "diffing " + path, Err: err}
		}
		fd.Unified = &u
	}
	return fd, nil
}

func (s *Service) unifiedDiff(path, before, after string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(normalizeText(before)),
		B:        splitLines(normalizeText(after)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  s.contextLines,
	})
}

// normalizeText converts CRLF to LF and guarantees a trailing newline.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text
}

// splitLines splits after each newline, keeping it. difflib.SplitLines
// appends a spurious final line, so it is not used.
func splitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
