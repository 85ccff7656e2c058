package plumbing

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/brickster241/caf/utils"
	"github.com/brickster241/caf/utils/constants"
	"github.com/brickster241/caf/utils/types"
)

// NewSignature stamps name and email with t in t's own timezone.
func NewSignature(name, email string, t time.Time) types.Signature {
	_, offset := t.Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	return types.Signature{
		Name:     name,
		Email:    email,
		When:     t.Unix(),
		Timezone: fmt.Sprintf("%s%02d%02d", sign, offset/3600, (offset%3600)/60),
	}
}

func formatSignature(s types.Signature) string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.When, s.Timezone)
}

// parseSignature parses "Name With Spaces <email> 1700000000 +0100".
func parseSignature(s string) (types.Signature, error) {
	open := strings.LastIndexByte(s, '<')
	closing := strings.LastIndexByte(s, '>')
	if open == -1 || closing < open {
		return types.Signature{}, fmt.Errorf("malformed signature %q", s)
	}

	sig := types.Signature{
		Name:  strings.TrimSpace(s[:open]),
		Email: s[open+1 : closing],
	}
	fields := strings.Fields(s[closing+1:])
	if len(fields) == 2 {
		when, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return types.Signature{}, fmt.Errorf("malformed signature time %q", fields[0])
		}
		sig.When = when
		sig.Timezone = fields[1]
	}
	return sig, nil
}

// WriteCommit creates a commit object, writes it to the object database, and returns the commit SHA.
func WriteCommit(treeSHA [20]byte, parentsSHA [][20]byte, author, committer types.Signature, message string) ([20]byte, error) {
	var content bytes.Buffer

	fmt.Fprintf(&content, "tree %x\n", treeSHA)
	for _, parentSHA := range parentsSHA {
		fmt.Fprintf(&content, "parent %x\n", parentSHA)
	}
	fmt.Fprintf(&content, "author %s\n", formatSignature(author))
	fmt.Fprintf(&content, "committer %s\n", formatSignature(committer))

	// blank line, then the message which always ends with a newline
	content.WriteByte('\n')
	content.WriteString(strings.TrimRight(message, "\n"))
	content.WriteByte('\n')

	return WriteObject(types.CommitObject, content.Bytes())
}

// ReadCommit reads and parses a commit object from the object database.
func ReadCommit(sha [20]byte) (*types.Commit, error) {
	shaHex := hex.EncodeToString(sha[:])
	objType, data, err := ReadObject(shaHex)
	if err != nil {
		return nil, err
	}
	if objType != types.CommitObject {
		return nil, fmt.Errorf("object %s is %w", shaHex, ErrNotACommit)
	}

	headers, message, _ := strings.Cut(string(data), "\n\n")
	c := &types.Commit{Message: strings.TrimSuffix(message, "\n")}
	hasTree := false

	for _, line := range strings.Split(headers, "\n") {
		key, value, _ := strings.Cut(line, " ")
		switch key {
		case "tree":
			if c.TreeSHA, err = utils.ParseSHA(value); err != nil {
				return nil, fmt.Errorf("%w: commit %s: %v", ErrCorruptObject, shaHex, err)
			}
			hasTree = true
		case "parent":
			p, err := utils.ParseSHA(value)
			if err != nil {
				return nil, fmt.Errorf("%w: commit %s: %v", ErrCorruptObject, shaHex, err)
			}
			c.ParentsSHA = append(c.ParentsSHA, p)
		case "author":
			if c.Author, err = parseSignature(value); err != nil {
				return nil, fmt.Errorf("%w: commit %s: %v", ErrCorruptObject, shaHex, err)
			}
		case "committer":
			if c.Committer, err = parseSignature(value); err != nil {
				return nil, fmt.Errorf("%w: commit %s: %v", ErrCorruptObject, shaHex, err)
			}
		}
	}
	if !hasTree {
		return nil, fmt.Errorf("%w: commit %s: missing tree line", ErrCorruptObject, shaHex)
	}
	return c, nil
}

// resolveBase resolves the part of a revision before any ^ or ~ suffix: HEAD, a branch, a tag or an object id.
func resolveBase(base string) ([20]byte, error) {
	if base == "HEAD" {
		sha, ok, err := CurrentCommit()
		if err != nil {
			return [20]byte{}, err
		}
		if !ok {
			return [20]byte{}, ErrNoCommits
		}
		return sha, nil
	}
	if sha, ok := ReadBranchRef(base); ok {
		return sha, nil
	}
	if sha, ok := ReadTag(base); ok {
		return sha, nil
	}
	return ExpandSHA(base)
}

// ResolveCommitish resolves a commit-ish (HEAD, branch, tag or object id, optionally followed by ~N and ^N
// suffixes) to a commit id.
func ResolveCommitish(commitIsh string) ([20]byte, error) {
	idx := strings.IndexAny(commitIsh, "^~")
	if idx == -1 {
		idx = len(commitIsh)
	}

	resultSHA, err := resolveBase(commitIsh[:idx])
	if err != nil {
		return [20]byte{}, err
	}
	commit, err := ReadCommit(resultSHA)
	if err != nil {
		return [20]byte{}, err
	}

	rest := commitIsh[idx:]
	for rest != "" {
		sign := rest[0]
		rest = rest[1:]

		// Optional count after the sign, default 1
		n := 0
		for n < len(rest) && rest[n] >= '0' && rest[n] <= '9' {
			n++
		}
		num := 1
		if n > 0 {
			if num, err = strconv.Atoi(rest[:n]); err != nil {
				return [20]byte{}, fmt.Errorf("%w: %s", ErrInvalidRevision, commitIsh)
			}
		}
		rest = rest[n:]

		switch sign {
		case '~':
			// num(th) first-parent ancestor
			for range num {
				if len(commit.ParentsSHA) == 0 {
					return [20]byte{}, fmt.Errorf("%w: %s", ErrInvalidRevision, commitIsh)
				}
				resultSHA = commit.ParentsSHA[0]
				if commit, err = ReadCommit(resultSHA); err != nil {
					return [20]byte{}, err
				}
			}
		case '^':
			// num(th) parent; ^0 is the commit itself
			if num == 0 {
				continue
			}
			if num > len(commit.ParentsSHA) {
				return [20]byte{}, fmt.Errorf("%w: %s", ErrInvalidRevision, commitIsh)
			}
			resultSHA = commit.ParentsSHA[num-1]
			if commit, err = ReadCommit(resultSHA); err != nil {
				return [20]byte{}, err
			}
		default:
			return [20]byte{}, fmt.Errorf("%w: %s", ErrInvalidRevision, commitIsh)
		}
	}

	return resultSHA, nil
}

// ResolveTreeish resolves a commit-ish, a tree id, "<rev>^{tree}" or "<rev>:<path>" naming a directory to a tree id.
func ResolveTreeish(treeIsh string) ([20]byte, error) {
	if strings.Contains(treeIsh, ":") {
		entry, err := ResolveObject(treeIsh)
		if err != nil {
			return [20]byte{}, err
		}
		if entry.Type != types.TreeObject {
			return [20]byte{}, fmt.Errorf("%s: %w", treeIsh, ErrNotATree)
		}
		return entry.SHA, nil
	}
	treeIsh = strings.TrimSuffix(treeIsh, "^{tree}")

	commitSHA, err := ResolveCommitish(treeIsh)
	if err == nil {
		commit, err := ReadCommit(commitSHA)
		if err != nil {
			return [20]byte{}, err
		}
		return commit.TreeSHA, nil
	} else if errors.Is(err, ErrNoCommits) {
		return [20]byte{}, err
	}

	sha, err := ExpandSHA(treeIsh)
	if err != nil {
		return [20]byte{}, err
	}
	objType, _, err := ReadObject(hex.EncodeToString(sha[:]))
	if err != nil {
		return [20]byte{}, err
	}
	if objType != types.TreeObject {
		return [20]byte{}, fmt.Errorf("object %s is %w", treeIsh, ErrNotATree)
	}
	return sha, nil
}

// ResolveObject resolves any object name. "<tree-ish>:<path>" walks the tree to the named entry; anything else is
// tried as a commit-ish and then as a raw object id.
func ResolveObject(name string) (types.TreeEntry, error) {
	if rev, p, ok := strings.Cut(name, ":"); ok {
		if rev == "" {
			rev = "HEAD"
		}
		rootSHA, err := ResolveTreeish(rev)
		if err != nil {
			return types.TreeEntry{}, err
		}
		return ResolvePath(rootSHA, p)
	}
	if strings.HasSuffix(name, "^{tree}") {
		treeSHA, err := ResolveTreeish(name)
		if err != nil {
			return types.TreeEntry{}, err
		}
		return types.TreeEntry{Name: name, TreeRecord: types.TreeRecord{Mode: constants.ModeTree, Type: types.TreeObject, SHA: treeSHA}}, nil
	}

	if sha, err := ResolveCommitish(name); err == nil {
		return types.TreeEntry{Name: name, TreeRecord: types.TreeRecord{Type: types.CommitObject, SHA: sha}}, nil
	}

	sha, err := ExpandSHA(name)
	if err != nil {
		return types.TreeEntry{}, err
	}
	objType, _, err := ReadObject(hex.EncodeToString(sha[:]))
	if err != nil {
		return types.TreeEntry{}, err
	}
	return types.TreeEntry{Name: name, TreeRecord: types.TreeRecord{Type: objType, SHA: sha}}, nil
}

// CommitIndex writes the index as a tree, records a commit on top of HEAD and advances HEAD to it.
func CommitIndex(author, committer types.Signature, message string) ([20]byte, error) {
	if strings.TrimSpace(message) == "" {
		return [20]byte{}, errors.New("aborting commit due to empty commit message")
	}

	entries, err := LoadIndex()
	if err != nil {
		return [20]byte{}, err
	}
	treeSHA, err := WriteTreeNode(BuildTreeFromIndex(entries))
	if err != nil {
		return [20]byte{}, err
	}

	var parents [][20]byte
	parentSHA, hasParent, err := CurrentCommit()
	if err != nil {
		return [20]byte{}, err
	}
	if hasParent {
		parent, err := ReadCommit(parentSHA)
		if err != nil {
			return [20]byte{}, err
		}
		if parent.TreeSHA == treeSHA {
			return [20]byte{}, errors.New("nothing to commit, working tree clean")
		}
		parents = append(parents, parentSHA)
	} else if len(entries) == 0 {
		return [20]byte{}, errors.New("nothing to commit")
	}

	commitSHA, err := WriteCommit(treeSHA, parents, author, committer, message)
	if err != nil {
		return [20]byte{}, err
	}
	if err := AdvanceHEAD(commitSHA); err != nil {
		return [20]byte{}, fmt.Errorf("update HEAD: %w", err)
	}
	return commitSHA, nil
}
