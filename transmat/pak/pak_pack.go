package paktrans

import (
	"bufio"
	"context"
	"crypto/sha512"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/polydawn/refmt/misc"
	. "github.com/warpfork/go-errcat"

	"github.com/polydawn/pak"
	"github.com/polydawn/pak/format"
	"github.com/polydawn/pak/fs"
	"github.com/polydawn/pak/fs/osfs"
	"github.com/polydawn/pak/fsOp"
	"github.com/polydawn/pak/transmat/mixins/log"
)

var (
	_ pak.PackFunc = Pack
)

func Pack(
	ctx context.Context, // Long-running call.  Cancellable.
	srcPath string, // The directory to pack (absolute path).
	opts pak.Options, // Strictness; optionally, where to write the archive.
	mon pak.Monitor, // Optionally: callbacks for progress monitoring.
) (_ string, _ pak.ArchiveID, err error) {
	if mon.Chan != nil {
		defer close(mon.Chan)
	}
	defer RequireErrorHasCategory(&err, pak.ErrorCategory(""))

	// Sanitize arguments.
	srcPath2, err := parseAbsoluteArg(srcPath, "directory to pack")
	if err != nil {
		return "", pak.ArchiveID{}, err
	}
	if srcPath2.IsRoot() {
		return "", pak.ArchiveID{}, Errorf(pak.ErrUsage, "refusing to pack the root directory")
	}
	stat, err := osfs.New(srcPath2.Dir()).Stat(fs.MustRelPath(srcPath2.Last()))
	switch Category(err) {
	case nil:
		// pass
	case fs.ErrNotExists:
		return "", pak.ArchiveID{}, Errorf(pak.ErrNotFound, "file not found: %s", srcPath2)
	default:
		return "", pak.ArchiveID{}, Errorf(pak.ErrIO, "cannot read %s: %s", srcPath2, err)
	}
	if stat.Type != fs.Type_Dir {
		return "", pak.ArchiveID{}, Errorf(pak.ErrUsage, "%s is a %s, not a directory; only directories can be packed", srcPath2, stat.Type)
	}

	// Pick the target.
	var targetPath fs.AbsolutePath
	if opts.Output != "" {
		targetPath, err = parseAbsoluteArg(opts.Output, "output path")
	} else {
		targetPath, err = PackTargetPath(srcPath2)
	}
	if err != nil {
		return "", pak.ArchiveID{}, err
	}
	if strings.HasPrefix(targetPath.String(), srcPath2.String()+"/") {
		return "", pak.ArchiveID{}, Errorf(pak.ErrUsage, "output path %s may not be inside the directory being packed", targetPath)
	}

	archiveID, err := packTo(ctx, osfs.New(srcPath2), targetPath, opts, mon)
	if err != nil {
		return "", pak.ArchiveID{}, err
	}
	return targetPath.String(), archiveID, nil
}

/*
	Packs any filesystem into an archive file at `targetPath`.
	This is how trees without a directory of their own,
	like a git commit, get packed.
*/
func PackTree(
	ctx context.Context, // Long-running call.  Cancellable.
	afs fs.FS, // The tree to pack.
	targetPath string, // Where to write the archive (absolute path).
	opts pak.Options, // Strictness.  Output is ignored; see targetPath.
	mon pak.Monitor, // Optionally: callbacks for progress monitoring.
) (_ pak.ArchiveID, err error) {
	if mon.Chan != nil {
		defer close(mon.Chan)
	}
	defer RequireErrorHasCategory(&err, pak.ErrorCategory(""))

	targetPath2, err := parseAbsoluteArg(targetPath, "output path")
	if err != nil {
		return pak.ArchiveID{}, err
	}
	return packTo(ctx, afs, targetPath2, opts, mon)
}

func packTo(
	ctx context.Context,
	afs fs.FS,
	targetPath fs.AbsolutePath,
	opts pak.Options,
	mon pak.Monitor,
) (pak.ArchiveID, error) {
	if targetPath.IsRoot() {
		return pak.ArchiveID{}, Errorf(pak.ErrUsage, "output path may not be the root directory")
	}
	targetFS := osfs.New(targetPath.Dir())
	targetName := fs.MustRelPath(targetPath.Last())
	_, statErr := targetFS.LStat(targetName)
	replacing := statErr == nil

	// Stage the archive beside its final path; it's renamed into place
	//  only once every byte is written.
	sf, err := fsOp.StageFile(targetFS, targetName, 0644)
	if err != nil {
		return pak.ArchiveID{}, Errorf(pak.ErrIO, "cannot create archive at %s: %s", targetPath, err)
	}
	defer sf.Close()

	archiveID, _, err := PackFS(ctx, afs, sf, opts, mon)
	if err != nil {
		return pak.ArchiveID{}, err
	}
	if err := sf.Commit(); err != nil {
		return pak.ArchiveID{}, Errorf(pak.ErrIO, "cannot save archive at %s: %s", targetPath, err)
	}
	if replacing {
		log.ArchiveReplaced(mon, targetPath.String())
	}
	return archiveID, nil
}

/*
	Writes an archive of every regular file in `afs` to `w`.

	Files are recorded in walk order: siblings sorted bytewise, each
	directory's contents right after it, so the same tree always yields
	the same archive.  Directories themselves aren't recorded; empty
	ones are lost.  The base of `afs` may itself be a symlink to a directory.
	Symlinks under it that lead to regular files are packed with the
	file's bytes under the link's name; other symlinks (to directories,
	or dangling) and special files are skipped with a warning.

	Sizes come from the walk, so the table is written before any body;
	a file whose length changes while it's being packed is an ErrIO.

	Does not close the monitor.
*/
func PackFS(
	ctx context.Context, // Long-running call.  Cancellable.
	afs fs.FS, // The tree to pack.
	w io.Writer, // Where the archive bytes go.
	opts pak.Options, // Strictness.
	mon pak.Monitor, // Optionally: callbacks for progress monitoring.
) (_ pak.ArchiveID, _ []pakformat.Entry, err error) {
	defer RequireErrorHasCategory(&err, pak.ErrorCategory(""))

	// The base of the tree must be a dir, or lead to one.
	rootStat, err := afs.Stat(fs.RelPath{})
	if err != nil {
		return pak.ArchiveID{}, nil, Errorf(pak.ErrIO, "cannot read %s: %s", afs.BasePath(), err)
	}
	if rootStat.Type != fs.Type_Dir {
		return pak.ArchiveID{}, nil, Errorf(pak.ErrUsage, "%s is a %s, not a directory; only directories can be packed", afs.BasePath(), rootStat.Type)
	}

	// Walk the filesystem, collecting every regular file and its size.
	var (
		paths []fs.RelPath
		names []string
		sizes []int64
	)
	visit := func(filenode *fs.WalkNode) error {
		if filenode.Err != nil {
			return filenode.Err
		}

		// Consider cancellation.
		if ctx.Err() != nil {
			return Errorf(pak.ErrCancelled, "cancelled")
		}

		info := filenode.Info
		switch info.Type {
		case fs.Type_Dir:
			return nil
		case fs.Type_File:
			// continue below
		case fs.Type_Symlink:
			target, err := afs.Stat(filenode.Path)
			if err != nil || target.Type != fs.Type_File {
				log.FileSkipped(mon, filenode.Path.Bare(), info.Type)
				return nil
			}
			log.SymlinkFollowed(mon, filenode.Path.Bare())
			info = target
		default:
			log.FileSkipped(mon, filenode.Path.Bare(), info.Type)
			return nil
		}

		name := filenode.Path.Bare()
		field, truncated := pakformat.EncodeName(name)
		if truncated {
			if opts.Strict {
				return ErrorDetailed(pak.ErrPackInvalid,
					fmt.Sprintf("name too long for a pak entry (%d bytes; at most %d fit)", len(name), pakformat.NameSize),
					map[string]string{"name": name},
				)
			}
			stored := pakformat.DecodeName(field[:])
			log.NameTruncated(mon, name, stored)
			name = stored
		}
		paths = append(paths, filenode.Path)
		names = append(names, name)
		sizes = append(sizes, info.Size)
		return nil
	}
	if err := fs.Walk(afs, visit); err != nil {
		return pak.ArchiveID{}, nil, ioError(err, "error while scanning files to pack")
	}

	// Assign offsets.
	entries, err := pakformat.Layout(names, sizes)
	if err != nil {
		return pak.ArchiveID{}, nil, err
	}

	// Write header, table, and then each body in turn, hashing as we go.
	hasher := sha512.New384()
	bw := bufio.NewWriter(io.MultiWriter(w, hasher))
	if err := pakformat.WriteHeader(bw, pakformat.Header{TableSize: pakformat.TableSizeFor(entries)}); err != nil {
		return pak.ArchiveID{}, nil, err
	}
	if err := pakformat.WriteTable(bw, entries); err != nil {
		return pak.ArchiveID{}, nil, err
	}
	for i, entry := range entries {
		if ctx.Err() != nil {
			return pak.ArchiveID{}, nil, Errorf(pak.ErrCancelled, "cancelled")
		}
		if err := copyBody(afs, paths[i], entry, bw); err != nil {
			return pak.ArchiveID{}, nil, err
		}
		log.FilePacked(mon, entry.Name, entry.Offset, entry.Size)
		log.Progress(mon, "pack", entry.Name, i+1, len(entries))
	}
	if err := bw.Flush(); err != nil {
		return pak.ArchiveID{}, nil, Errorf(pak.ErrIO, "error writing archive: %s", err)
	}
	return archiveIDFromHash(hasher.Sum(nil)), entries, nil
}

func copyBody(afs fs.FS, path fs.RelPath, entry pakformat.Entry, w io.Writer) error {
	fmeta, body, err := fsOp.ScanFile(afs, path)
	if err != nil {
		return Errorf(pak.ErrIO, "cannot read %s: %s", path, err)
	}
	if body == nil && fmeta.Type == fs.Type_Symlink {
		// Symlinks reach here only when they led to a file during the walk.
		body, err = afs.OpenFile(path, os.O_RDONLY, 0)
		if err != nil {
			return Errorf(pak.ErrIO, "cannot read %s: %s", path, err)
		}
	}
	if body == nil {
		return Errorf(pak.ErrIO, "%s changed while packing: now a %s", path, fmeta.Type)
	}
	defer body.Close()
	n, err := io.Copy(w, io.LimitReader(body, int64(entry.Size)))
	if err != nil {
		return Errorf(pak.ErrIO, "error packing %s: %s", path, err)
	}
	if n != int64(entry.Size) {
		return Errorf(pak.ErrIO, "%s changed size while packing: expected %d bytes, found %d", path, entry.Size, n)
	}
	// Anything left over means the file grew.
	var probe [1]byte
	if m, _ := body.Read(probe[:]); m > 0 {
		return Errorf(pak.ErrIO, "%s changed size while packing: grew past %d bytes", path, entry.Size)
	}
	return nil
}

func archiveIDFromHash(hash []byte) pak.ArchiveID {
	return pak.ArchiveID{Kind: pak.ArchiveKind, Hash: misc.Base58Encode(hash)}
}
