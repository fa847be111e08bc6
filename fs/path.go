package fs

import (
	"path"
	"strings"

	. "github.com/warpfork/go-errcat"
)

// Meta: yep, these *are not* interchangeable.
// If you *can* accept an AbsolutePath, normalize to that ASAP;
// archive entry names are always RelPath, through and through.
//
// Both types use '/' as the separator regardless of host.

type RelPath struct {
	path      string
	lastSplit int
}

func MustRelPath(p string) RelPath {
	rp, err := ParseRelPath(p)
	if err != nil {
		panic(err)
	}
	return rp
}

/*
	Parses and cleans a relative path.

	The empty string and "." both become the zero value.
	Leading slashes are rejected with ErrInvalidPath.
	Paths which climb out of their base (e.g. "../x") parse fine;
	check `GoesUp` before using them for placement.
*/
func ParseRelPath(p string) (RelPath, error) {
	if strings.HasPrefix(p, "/") {
		return RelPath{}, Errorf(ErrInvalidPath, "%q is absolute; a relative path is required", p)
	}
	p = path.Clean(p)
	if p == "." { // We can't stop people from using the zero value, so, use it.
		return RelPath{}, nil
	}
	return RelPath{p, strings.LastIndexByte(p, '/')}, nil
}

func (p RelPath) String() string {
	if p.path == "" {
		return "."
	} else if p.GoesUp() {
		return p.path
	} else {
		return "./" + p.path
	}
}

// Returns the cleaned path without the "./" prefix; the zero value is ".".
func (p RelPath) Bare() string {
	if p.path == "" {
		return "."
	}
	return p.path
}

// True if the path starts by leaving its base (a ".." segment).
func (p RelPath) GoesUp() bool {
	return p.path == ".." || strings.HasPrefix(p.path, "../")
}

func (p RelPath) Dir() RelPath {
	if p.path == "" {
		return p
	} else if p.lastSplit == -1 {
		return RelPath{}
	} else {
		p2 := p.path[0:p.lastSplit]
		return RelPath{p2, strings.LastIndexByte(p2, '/')}
	}
}

func (p RelPath) Last() string {
	if p.path == "" {
		return "."
	} else if p.lastSplit == -1 {
		return p.path
	} else {
		return p.path[p.lastSplit+1:]
	}
}

func (p RelPath) Join(p2 RelPath) RelPath {
	switch {
	case p2.path == "":
		return p
	case p.path == "":
		return p2
	default:
		return RelPath{p.path + "/" + p2.path, len(p.path) + p2.lastSplit + 1}
	}
}

/*
	Returns every strict ancestor of the path, shallowest first.
	Neither the zero value nor the path itself is included,
	so "a/b/c" yields "a" and "a/b".
*/
func (p RelPath) SplitParent() []RelPath {
	var parents []RelPath
	for dir := p.Dir(); dir.path != ""; dir = dir.Dir() {
		parents = append(parents, dir)
	}
	for i, j := 0, len(parents)-1; i < j; i, j = i+1, j-1 {
		parents[i], parents[j] = parents[j], parents[i]
	}
	return parents
}

type AbsolutePath struct {
	path      string
	lastSplit int
}

func MustAbsolutePath(p string) AbsolutePath {
	ap, err := ParseAbsolutePath(p)
	if err != nil {
		panic(err)
	}
	return ap
}

func ParseAbsolutePath(p string) (AbsolutePath, error) {
	if !strings.HasPrefix(p, "/") {
		return AbsolutePath{}, Errorf(ErrInvalidPath, "%q is not an absolute path", p)
	}
	p = path.Clean(p)
	if p == "/" { // We can't stop people from using the zero value, so, use it.
		return AbsolutePath{}, nil
	}
	return AbsolutePath{p, strings.LastIndexByte(p, '/')}, nil
}

func (p AbsolutePath) String() string {
	if p.path == "" {
		return "/"
	}
	return p.path
}

func (p AbsolutePath) Dir() AbsolutePath {
	if p.path == "" {
		return p
	} else if p.lastSplit == 0 {
		return AbsolutePath{}
	} else {
		p2 := p.path[0:p.lastSplit]
		return AbsolutePath{p2, strings.LastIndexByte(p2, '/')}
	}
}

func (p AbsolutePath) Last() string {
	if p.path == "" {
		return "/"
	} else {
		return p.path[p.lastSplit+1:]
	}
}

func (p AbsolutePath) Join(p2 RelPath) AbsolutePath {
	switch {
	case p2.path == "":
		return p
	default:
		return AbsolutePath{p.path + "/" + p2.path, len(p.path) + p2.lastSplit + 1}
	}
}

// True for the zero value, which is "/".
func (p AbsolutePath) IsRoot() bool {
	return p.path == ""
}
