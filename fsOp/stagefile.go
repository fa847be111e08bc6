package fsOp

import (
	"os"

	. "github.com/warpfork/go-errcat"

	"github.com/polydawn/pak/fs"
	"github.com/polydawn/pak/lib/guid"
)

/*
	Opens a staging file next to `finalPath`.  Write to it, then either
	`Commit` to rename it into place (atomically replacing anything there),
	or `Close` to abandon it and remove the staging file.

	Readers of `finalPath` never observe a partially written file.
*/
func StageFile(afs fs.FS, finalPath fs.RelPath, perms fs.Perms) (*StagedFile, error) {
	if finalPath == (fs.RelPath{}) || finalPath.GoesUp() {
		return nil, Errorf(fs.ErrInvalidPath, "cannot stage a file at %q", finalPath)
	}
	sf := &StagedFile{
		afs:       afs,
		stagePath: finalPath.Dir().Join(fs.MustRelPath(".tmp.pak." + finalPath.Last() + "." + guid.New())),
		finalPath: finalPath,
	}
	stream, err := afs.OpenFile(sf.stagePath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, perms)
	if err != nil {
		return nil, err
	}
	sf.stream = stream
	return sf, nil
}

type StagedFile struct {
	afs       fs.FS
	stream    fs.File    // Write to this.
	stagePath fs.RelPath // Where the bytes land while in flight.
	finalPath fs.RelPath // Where Commit moves them.
	done      bool
}

func (sf *StagedFile) Write(bs []byte) (int, error) {
	return sf.stream.Write(bs)
}

/*
	Cancel the current write.  Close the stream, and remove the staging file.
	A no-op after Commit, so it's safe to defer.
*/
func (sf *StagedFile) Close() error {
	if sf.done {
		return nil
	}
	sf.done = true
	sf.stream.Close()
	return sf.afs.Remove(sf.stagePath)
}

/*
	Closes the writer and moves the staging file to the final path.
	Invalidates any future use.  On failure the staging file is removed.
*/
func (sf *StagedFile) Commit() error {
	if sf.done {
		return Errorf(fs.ErrMisc, "staged file for %q already closed", sf.finalPath)
	}
	sf.done = true
	if err := sf.stream.Close(); err != nil {
		sf.afs.Remove(sf.stagePath)
		return fs.NormalizeIOError(err)
	}
	if err := sf.afs.Rename(sf.stagePath, sf.finalPath); err != nil {
		sf.afs.Remove(sf.stagePath)
		return err
	}
	return nil
}
