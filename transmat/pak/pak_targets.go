package paktrans

import (
	"path"
	"strings"

	. "github.com/warpfork/go-errcat"

	"github.com/polydawn/pak"
	"github.com/polydawn/pak/fs"
)

const Extension = ".pak"

/*
	The default archive path for packing `dir`: a sibling file named
	after the directory, plus ".pak".
*/
func PackTargetPath(dir fs.AbsolutePath) (fs.AbsolutePath, error) {
	if dir.IsRoot() {
		return fs.AbsolutePath{}, Errorf(pak.ErrUsage, "cannot pack the root directory without an explicit output path")
	}
	return dir.Dir().Join(fs.MustRelPath(dir.Last() + Extension)), nil
}

/*
	The default output directory for unpacking `archive`: a sibling
	directory named after the archive file with its extension removed.

	Archives with no extension, or nothing but one (".pak"), have no
	usable stem and need an explicit output path.
*/
func UnpackTargetPath(archive fs.AbsolutePath) (fs.AbsolutePath, error) {
	name := archive.Last()
	ext := path.Ext(name)
	if ext == "" {
		return fs.AbsolutePath{}, Errorf(pak.ErrUsage, "cannot derive an output directory from %q: it has no extension", archive)
	}
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		return fs.AbsolutePath{}, Errorf(pak.ErrUsage, "cannot derive an output directory from %q: nothing precedes the extension", archive)
	}
	return archive.Dir().Join(fs.MustRelPath(stem)), nil
}

func parseAbsoluteArg(p string, what string) (fs.AbsolutePath, error) {
	ap, err := fs.ParseAbsolutePath(p)
	if err != nil {
		return fs.AbsolutePath{}, Errorf(pak.ErrUsage, "%s must be an absolute path (got %q)", what, p)
	}
	return ap, nil
}

// Path relative to the filesystem root.
func fromRoot(p fs.AbsolutePath) fs.RelPath {
	return fs.MustRelPath(strings.TrimPrefix(p.String(), "/"))
}

/*
	Passes errors already categorized for pak through,
	and wraps anything else (usually an fs.ErrorCategory) as ErrIO.
*/
func ioError(err error, context string) error {
	if _, ok := Category(err).(pak.ErrorCategory); ok {
		return err
	}
	return Errorf(pak.ErrIO, "%s: %s", context, err)
}
