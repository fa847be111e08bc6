package paktrans

import (
	"bufio"
	"context"
	"io"
	"os"

	. "github.com/warpfork/go-errcat"

	"github.com/polydawn/pak"
	"github.com/polydawn/pak/format"
	"github.com/polydawn/pak/fs"
	"github.com/polydawn/pak/fs/osfs"
	"github.com/polydawn/pak/fsOp"
	"github.com/polydawn/pak/transmat/mixins/log"
)

var (
	_ pak.UnpackFunc = Unpack
)

func Unpack(
	ctx context.Context, // Long-running call.  Cancellable.
	archivePath string, // The archive to read (absolute path).
	opts pak.Options, // Strictness; optionally, where to unpack.
	mon pak.Monitor, // Optionally: callbacks for progress monitoring.
) (_ string, err error) {
	if mon.Chan != nil {
		defer close(mon.Chan)
	}
	defer RequireErrorHasCategory(&err, pak.ErrorCategory(""))

	// Sanitize arguments.
	archivePath2, err := parseAbsoluteArg(archivePath, "archive path")
	if err != nil {
		return "", err
	}
	// Open the archive and read its table.  Nothing is written until
	//  the header and every entry have checked out.
	file, err := openArchive(archivePath2)
	if err != nil {
		return "", err
	}
	defer file.Close()

	// Pick the output dir.
	var outputPath fs.AbsolutePath
	if opts.Output != "" {
		outputPath, err = parseAbsoluteArg(opts.Output, "output path")
	} else {
		outputPath, err = UnpackTargetPath(archivePath2)
	}
	if err != nil {
		return "", err
	}
	_, entries, paths, err := readArchiveTable(file, opts, mon)
	if err != nil {
		return "", err
	}

	// Make the output root, then fill it.
	if err := fsOp.MkdirAll(osfs.New(fs.AbsolutePath{}), fromRoot(outputPath), 0755); err != nil {
		return "", Errorf(pak.ErrIO, "cannot create output directory %s: %s", outputPath, err)
	}
	if err := extract(ctx, file, osfs.New(outputPath), entries, paths, "unpack", mon); err != nil {
		return "", err
	}
	return outputPath.String(), nil
}

/*
	Unpacks the archive readable from `r` into `afs`.

	The whole header and table are read and checked before anything is
	placed: names that are empty, absolute, or climb out of the output
	with "../" are ErrFormat and nothing is written.
	After that, entries are placed in table order; an error part-way
	through leaves the earlier entries in place.

	Returns the entries as read.  Does not close the monitor.
*/
func UnpackFS(
	ctx context.Context, // Long-running call.  Cancellable.
	r io.ReadSeeker, // The archive.  Read from the start, regardless of current position.
	afs fs.FS, // Where to place files.  The base dir must exist.
	opts pak.Options, // Strictness.  Output is ignored; see afs.
	mon pak.Monitor, // Optionally: callbacks for progress monitoring.
) (_ []pakformat.Entry, err error) {
	defer RequireErrorHasCategory(&err, pak.ErrorCategory(""))

	_, entries, paths, err := readArchiveTable(r, opts, mon)
	if err != nil {
		return nil, err
	}
	return entries, extract(ctx, r, afs, entries, paths, "unpack", mon)
}

func openArchive(archivePath fs.AbsolutePath) (fs.File, error) {
	if archivePath.IsRoot() {
		return nil, Errorf(pak.ErrUsage, "the root directory is not an archive")
	}
	dirFS := osfs.New(archivePath.Dir())
	name := fs.MustRelPath(archivePath.Last())
	stat, err := dirFS.Stat(name)
	switch Category(err) {
	case nil:
		// pass
	case fs.ErrNotExists:
		return nil, Errorf(pak.ErrNotFound, "file not found: %s", archivePath)
	default:
		return nil, Errorf(pak.ErrIO, "cannot read %s: %s", archivePath, err)
	}
	if stat.Type != fs.Type_File {
		return nil, Errorf(pak.ErrUsage, "%s is a %s, not an archive file", archivePath, stat.Type)
	}
	file, err := dirFS.OpenFile(name, os.O_RDONLY, 0)
	if err != nil {
		return nil, Errorf(pak.ErrIO, "cannot open %s: %s", archivePath, err)
	}
	return file, nil
}

/*
	Reads the header and table from the start of `r`, and checks every
	entry's name and bounds.  Returns the parsed path for each entry.
*/
func readArchiveTable(r io.ReadSeeker, opts pak.Options, mon pak.Monitor) (pakformat.Header, []pakformat.Entry, []fs.RelPath, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return pakformat.Header{}, nil, nil, Errorf(pak.ErrIO, "cannot read archive: %s", err)
	}
	br := bufio.NewReader(r)
	header, err := pakformat.ReadHeader(br)
	if err != nil {
		return pakformat.Header{}, nil, nil, err
	}
	entries, err := pakformat.ReadTable(br, header, opts.Strict)
	if err != nil {
		return pakformat.Header{}, nil, nil, err
	}
	if rem := header.Remainder(); rem != 0 {
		log.TableRemainderIgnored(mon, header.TableSize, rem)
	}
	paths, err := checkEntries(entries)
	if err != nil {
		return pakformat.Header{}, nil, nil, err
	}
	return header, entries, paths, nil
}

func checkEntries(entries []pakformat.Entry) ([]fs.RelPath, error) {
	paths := make([]fs.RelPath, len(entries))
	for i, entry := range entries {
		if entry.Offset < 0 || entry.Size < 0 {
			return nil, Errorf(pak.ErrFormat, "corrupt pak: entry %d (%q) has a negative offset or size", i, entry.Name)
		}
		if entry.Name == "" {
			return nil, Errorf(pak.ErrFormat, "corrupt pak: entry %d has an empty name", i)
		}
		path, err := fs.ParseRelPath(entry.Name)
		if err != nil {
			return nil, Errorf(pak.ErrFormat, "corrupt pak: entry %d has an absolute name %q", i, entry.Name)
		}
		if path == (fs.RelPath{}) || path.GoesUp() {
			return nil, Errorf(pak.ErrFormat, "corrupt pak: entry %d has name %q, which does not stay inside the output directory", i, entry.Name)
		}
		paths[i] = path
	}
	return paths, nil
}

/*
	Places every entry.  Parent dirs are created as needed; a later entry
	with the same name as an earlier one overwrites it.

	The archive's length is checked against each entry's end before its
	file is created, so a truncated archive stops at the first entry it
	can't supply, leaving earlier entries in place.
*/
func extract(
	ctx context.Context,
	r io.ReadSeeker,
	afs fs.FS,
	entries []pakformat.Entry,
	paths []fs.RelPath,
	phase string,
	mon pak.Monitor,
) error {
	archiveSize, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return Errorf(pak.ErrIO, "cannot read archive: %s", err)
	}

	// Keep track of which dirs we've made, and which names we've placed.
	dirs := map[fs.RelPath]struct{}{}
	placed := map[fs.RelPath]struct{}{}

	for i, entry := range entries {
		if ctx.Err() != nil {
			return Errorf(pak.ErrCancelled, "cancelled")
		}
		path := paths[i]
		if _, exists := placed[path]; exists {
			log.DuplicateName(mon, entry.Name)
		}

		// Infer parents.  The format never records dirs.
		for _, parent := range path.SplitParent() {
			if _, exists := dirs[parent]; exists {
				continue
			}
			if err := fsOp.MkdirAll(afs, parent, 0755); err != nil {
				return ioError(err, "error while unpacking "+entry.Name)
			}
			log.DirectoryInferred(mon, parent.Bare(), entry.Name)
			dirs[parent] = struct{}{}
		}

		// Find and copy the body.
		if entry.End() > archiveSize {
			return ErrorDetailed(pak.ErrIO, "truncated pak: entry runs past the end of the archive", map[string]string{
				"name": entry.Name,
			})
		}
		if _, err := r.Seek(int64(entry.Offset), io.SeekStart); err != nil {
			return Errorf(pak.ErrIO, "cannot read body of %s: %s", entry.Name, err)
		}
		fmeta := fs.Metadata{
			Name:  path,
			Type:  fs.Type_File,
			Perms: 0644,
			Size:  int64(entry.Size),
		}
		if err := fsOp.PlaceFile(afs, fmeta, io.LimitReader(r, int64(entry.Size))); err != nil {
			return ioError(err, "error while unpacking "+entry.Name)
		}
		placed[path] = struct{}{}
		log.FileUnpacked(mon, entry.Name, entry.Offset, entry.Size)
		log.Progress(mon, phase, entry.Name, i+1, len(entries))
	}
	return nil
}
