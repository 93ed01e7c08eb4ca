package git

import (
	"encoding/hex"
	"strings"
)

// CommitID is the full hexadecimal object name of a commit.
type CommitID string

// String returns the object name.
func (id CommitID) String() string {
	return string(id)
}

// Short returns the first seven characters of the object name.
func (id CommitID) Short() string {
	if len(id) <= 7 {
		return string(id)
	}
	return string(id[:7])
}

// isFullHex reports whether s looks like a complete SHA-1 or SHA-256 object name.
func isFullHex(s string) bool {
	if len(s) != 40 && len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// CommitRange is the set of commits a bisect session between good and bad
// can stop on. It is built once and never modified.
type CommitRange struct {
	ids   []CommitID
	index map[CommitID]struct{}
}

// NewCommitRange builds a range from ids in walk order (bad first).
// Duplicate ids are kept only at their first position.
func NewCommitRange(ids ...CommitID) CommitRange {
	r := CommitRange{
		ids:   make([]CommitID, 0, len(ids)),
		index: make(map[CommitID]struct{}, len(ids)),
	}
	for _, id := range ids {
		id = CommitID(strings.ToLower(string(id)))
		if _, ok := r.index[id]; ok {
			continue
		}
		r.index[id] = struct{}{}
		r.ids = append(r.ids, id)
	}
	return r
}

// Contains reports whether id is part of the range.
func (r CommitRange) Contains(id CommitID) bool {
	_, ok := r.index[id]
	return ok
}

// Len returns the number of commits in the range.
func (r CommitRange) Len() int {
	return len(r.ids)
}

// IDs returns a copy of the range's commits, starting at bad and walking
// toward good.
func (r CommitRange) IDs() []CommitID {
	out := make([]CommitID, len(r.ids))
	copy(out, r.ids)
	return out
}

// Backend selects how the repository is read.
type Backend string

const (
	// BackendGoGit reads the object database in-process.
	BackendGoGit Backend = "go-git"
	// BackendGitCLI shells out to the git executable.
	BackendGitCLI Backend = "git"
)

// ResolveOptions configures a range resolver.
type ResolveOptions struct {
	RepoPath string
	Backend  Backend
	// GitPath is the git executable used by BackendGitCLI. Defaults to "git".
	GitPath string
}
