/*
	A read-only fs.FS over the tree of a single git commit.

	Lets a directory be packed exactly as it was committed, ignoring
	whatever uncommitted state the working copy has.
	Git keeps no mtimes; every node reports the zero time.
*/
package gitfs

import (
	"io"
	"os"

	. "github.com/warpfork/go-errcat"
	"gopkg.in/src-d/go-git.v4"
	"gopkg.in/src-d/go-git.v4/plumbing"
	"gopkg.in/src-d/go-git.v4/plumbing/filemode"
	"gopkg.in/src-d/go-git.v4/plumbing/object"

	"github.com/polydawn/pak/fs"
)

/*
	Opens the repository at `repoPath` and resolves `rev`
	(anything git rev-parse would take: "HEAD", a branch, a hash)
	to a commit, returning its tree as an FS.

	A missing repository or unresolvable revision is fs.ErrNotExists.
*/
func Open(repoPath fs.AbsolutePath, rev string) (fs.FS, error) {
	repo, err := git.PlainOpen(repoPath.String())
	if err != nil {
		return nil, Errorf(fs.ErrNotExists, "cannot open git repository at %s: %s", repoPath, err)
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, Errorf(fs.ErrNotExists, "cannot resolve revision %q in %s: %s", rev, repoPath, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, Errorf(fs.ErrNotExists, "revision %q in %s is not a commit: %s", rev, repoPath, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, Errorf(fs.ErrMisc, "corrupt git commit %s: %s", hash, err)
	}
	return New(tree, repoPath), nil
}

func New(tree *object.Tree, basePath fs.AbsolutePath) fs.FS {
	return &gitFS{tree, basePath}
}

type gitFS struct {
	tree     *object.Tree
	basePath fs.AbsolutePath
}

func (afs *gitFS) BasePath() fs.AbsolutePath {
	return afs.basePath
}

func (afs *gitFS) OpenFile(path fs.RelPath, flag int, perms fs.Perms) (fs.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0 {
		return nil, readOnly(path)
	}
	if err := check(path); err != nil {
		return nil, err
	}
	f, err := afs.tree.File(path.Bare())
	if err != nil {
		return nil, Errorf(fs.ErrNotExists, "%s: %s", path, err)
	}
	r, err := f.Reader()
	if err != nil {
		return nil, Errorf(fs.ErrMisc, "corrupt git tree at %s: %s", path, err)
	}
	return &gitFile{path, r}, nil
}

func (afs *gitFS) Mkdir(path fs.RelPath, perms fs.Perms) error {
	return readOnly(path)
}

func (afs *gitFS) Rename(fromPath, toPath fs.RelPath) error {
	return readOnly(toPath)
}

func (afs *gitFS) Remove(path fs.RelPath) error {
	return readOnly(path)
}

// Git trees have no symlink-following notion; Stat and LStat agree.
func (afs *gitFS) Stat(path fs.RelPath) (*fs.Metadata, error) {
	return afs.LStat(path)
}

func (afs *gitFS) LStat(path fs.RelPath) (*fs.Metadata, error) {
	if err := check(path); err != nil {
		return nil, err
	}
	// Git doesn't have metadata for the tree root.
	if path == (fs.RelPath{}) {
		return &fs.Metadata{Type: fs.Type_Dir, Perms: 0755}, nil
	}
	te, err := afs.tree.FindEntry(path.Bare())
	if err != nil {
		return nil, Errorf(fs.ErrNotExists, "%s: %s", path, err)
	}
	fmeta := &fs.Metadata{Name: path}
	switch te.Mode {
	case filemode.Dir:
		fmeta.Type = fs.Type_Dir
		fmeta.Perms = 0755
	case filemode.Regular, filemode.Deprecated:
		fmeta.Type = fs.Type_File
		fmeta.Perms = 0644
	case filemode.Executable:
		fmeta.Type = fs.Type_File
		fmeta.Perms = 0755
	case filemode.Symlink:
		fmeta.Type = fs.Type_Symlink
		fmeta.Perms = 0644
	default:
		// Submodules, mostly.  They don't have content in this tree.
		fmeta.Type = fs.Type_Invalid
	}
	if fmeta.Type == fs.Type_File {
		tf, err := afs.tree.TreeEntryFile(te)
		if err != nil {
			return nil, Errorf(fs.ErrMisc, "corrupt git tree at %s: %s", path, err)
		}
		fmeta.Size = tf.Size
	}
	return fmeta, nil
}

func (afs *gitFS) ReadDirNames(path fs.RelPath) ([]string, error) {
	if err := check(path); err != nil {
		return nil, err
	}
	tr := afs.tree
	if path != (fs.RelPath{}) {
		var err error
		tr, err = afs.tree.Tree(path.Bare())
		if err != nil {
			return nil, Errorf(fs.ErrNotExists, "%s: %s", path, err)
		}
	}
	names := make([]string, len(tr.Entries))
	for i, te := range tr.Entries {
		names[i] = te.Name
	}
	return names, nil
}

func check(path fs.RelPath) error {
	if path.GoesUp() {
		return Errorf(fs.ErrBreakout, "fs: invalid path %q: must not depart basepath", path)
	}
	return nil
}

func readOnly(path fs.RelPath) error {
	return Errorf(fs.ErrPermission, "fs: cannot modify %q: git trees are read-only", path)
}

type gitFile struct {
	path fs.RelPath
	r    io.ReadCloser
}

func (f *gitFile) Read(bs []byte) (int, error) { return f.r.Read(bs) }
func (f *gitFile) Close() error                { return f.r.Close() }
func (f *gitFile) Write([]byte) (int, error)   { return 0, readOnly(f.path) }
func (f *gitFile) Seek(int64, int) (int64, error) {
	return 0, Errorf(fs.ErrMisc, "fs: %q is a git blob stream and cannot seek", f.path)
}
