// Package ignore builds, for any directory visited during a walk, the
// ordered rule stack that determines whether a child entry is ignored.
//
// # Design
//
// A Stack is a tree node: it holds only the patterns introduced by one
// directory, plus a pointer to its parent. A child directory's Stack is
// built by appending its own patterns on top of the parent — the parent is
// shared by reference, never copied. Rule-sets are immutable once built.
// A directory that introduces ignore files gets its own Stack node, so a
// subtree's rules never leak sideways to siblings; a directory that
// introduces none shares its parent's node.
//
// Go's garbage collector is the natural analog of releasing a rule-set by
// reference count: once the last walker goroutine holding a Stack node
// returns, the node is collected. No manual refcounting is implemented.
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Verdict is the outcome of evaluating one path against a Stack.
type Verdict int

const (
	// Neutral means no pattern in the stack matched; the hidden-file rule
	// still applies on top of a Neutral verdict.
	Neutral Verdict = iota
	// Ignored means the last matching pattern was a plain (non-negated)
	// pattern.
	Ignored
	// Included means the last matching pattern was a "!negation",
	// explicitly overriding any ancestor Ignored verdict (and overriding
	// the hidden-file rule too).
	Included
)

type pattern struct {
	glob      string // translated, doublestar-compatible, relative to dir
	negate    bool
	dirOnly   bool
}

// Stack is one node in the per-directory ignore-rule tree.
type Stack struct {
	dir      string // absolute directory this node's own patterns belong to
	parent   *Stack
	patterns []pattern
}

// Root returns the Stack in effect at a walk root: global excludes (if
// respectVCS), the repo's .git/info/exclude (if found by searching
// upward from root), and the caller's custom ignore files layered last so
// a deeper .gitignore can still override them. It has no parent.
func Root(root string, respectVCS bool, customIgnoreFiles []string) (*Stack, error) {
	s := &Stack{dir: root}

	if respectVCS {
		if p := globalExcludesPath(); p != "" {
			s.patterns = append(s.patterns, loadFile(p)...)
		}
		if gitRoot := findGitRoot(root); gitRoot != "" {
			s.patterns = append(s.patterns, loadFile(filepath.Join(gitRoot, ".git", "info", "exclude"))...)
		}
	}

	for _, f := range customIgnoreFiles {
		if _, err := os.Stat(f); err != nil {
			continue // nonexistent custom ignore file is silently skipped
		}
		s.patterns = append(s.patterns, loadFile(f)...)
	}

	return s, nil
}

// Child builds the Stack for a subdirectory of s, layering in that
// directory's own .gitignore/.ignore/.fdignore (subject to respectVCS and
// suppressDotIgnoreFiles) on top of s. If dir introduces no new ignore files, s
// itself is returned unchanged (no redundant node is allocated).
func (s *Stack) Child(dir string, respectVCS, suppressDotIgnoreFiles bool) *Stack {
	var patterns []pattern
	if respectVCS {
		patterns = append(patterns, loadFile(filepath.Join(dir, ".gitignore"))...)
	}
	if !suppressDotIgnoreFiles {
		patterns = append(patterns, loadFile(filepath.Join(dir, ".ignore"))...)
		patterns = append(patterns, loadFile(filepath.Join(dir, ".fdignore"))...)
	}
	if len(patterns) == 0 {
		return s
	}
	return &Stack{dir: dir, parent: s, patterns: patterns}
}

// Evaluate reports the verdict for path (absolute), which is known to be a
// directory iff isDir. It walks the chain from the walk root down to this
// Stack node, applying every pattern in order so that a pattern in a more
// deeply nested ignore file overrides one from an ancestor, exactly as
// git's own "last match wins" semantics require.
func (s *Stack) Evaluate(path string, isDir bool) Verdict {
	chain := s.chainFromRoot()
	verdict := Neutral
	for _, node := range chain {
		rel, err := filepath.Rel(node.dir, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		for _, p := range node.patterns {
			if p.dirOnly && !isDir {
				continue
			}
			if ok, _ := doublestar.Match(p.glob, rel); ok {
				if p.negate {
					verdict = Included
				} else {
					verdict = Ignored
				}
			}
		}
	}
	return verdict
}

// chainFromRoot returns the node chain from the walk root down to s.
func (s *Stack) chainFromRoot() []*Stack {
	var chain []*Stack
	for n := s; n != nil; n = n.parent {
		chain = append(chain, n)
	}
	// reverse in place: root last appended, so it's currently at the end
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// loadFile reads a gitignore-grammar file and returns its compiled
// patterns. A missing file yields no patterns and no error.
func loadFile(path string) []pattern {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	var out []pattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if p, ok := parseLine(line); ok {
			out = append(out, p)
		}
	}
	return out
}

// parseLine compiles one gitignore-grammar line into a pattern, or
// reports ok=false for a blank line or comment.
func parseLine(line string) (pattern, bool) {
	line = strings.TrimRight(line, " ")
	if line == "" || strings.HasPrefix(line, "#") {
		return pattern{}, false
	}

	var p pattern
	if strings.HasPrefix(line, "!") {
		p.negate = true
		line = line[1:]
	}
	// Escaped leading '#' or '!' (e.g. "\#foo") — unescape without
	// treating it as a modifier.
	line = strings.TrimPrefix(line, "\\")

	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}

	anchored := strings.HasPrefix(line, "/")
	line = strings.TrimPrefix(line, "/")
	if strings.Contains(line, "/") {
		anchored = true
	}

	if anchored {
		p.glob = line
	} else {
		p.glob = "**/" + line
	}
	return p, true
}

// globalExcludesPath returns the user's global gitignore path following
// the same environment conventions git itself uses, or "" if none is
// configured.
func globalExcludesPath() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		if p := filepath.Join(v, "git", "ignore"); fileExists(p) {
			return p
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	if p := filepath.Join(home, ".config", "git", "ignore"); fileExists(p) {
		return p
	}
	if p := filepath.Join(home, ".gitignore_global"); fileExists(p) {
		return p
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// findGitRoot searches upward from dir for a directory containing .git,
// returning "" if none is found within the filesystem root.
func findGitRoot(dir string) string {
	dir = filepath.Clean(dir)
	for {
		if fileExists(filepath.Join(dir, ".git")) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
