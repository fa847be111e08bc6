package tests

import (
	"bytes"
	"strings"

	"github.com/polydawn/pak/fs"
	"github.com/polydawn/pak/fsOp"
)

type FixtureFile struct {
	Metadata fs.Metadata
	Body     []byte
}

func dir(name string) FixtureFile {
	return FixtureFile{fs.Metadata{Name: fs.MustRelPath(name), Type: fs.Type_Dir, Perms: 0755}, nil}
}

func file(name string, body string) FixtureFile {
	return FixtureFile{fs.Metadata{Name: fs.MustRelPath(name), Type: fs.Type_File, Perms: 0644, Size: int64(len(body))}, []byte(body)}
}

var FixtureAlpha = []FixtureFile{
	dir("."),
	file("./a", "zyx"),
}

var FixtureAlphaDiffContent = []FixtureFile{
	dir("."),
	file("./a", "qwe"),
}

var FixtureEmpty = []FixtureFile{
	dir("."),
}

var FixtureMultifile = []FixtureFile{
	dir("."),
	file("./a", "zyx"),
	file("./b", "qwe"),
}

// The layout worked through in the format docs: table of 272 bytes, bodies at 282 and 285.
var FixtureWorked = []FixtureFile{
	dir("."),
	file("./a.txt", "abc"),
	dir("./sub"),
	file("./sub/b.txt", "z"),
}

var FixtureDepth3 = []FixtureFile{
	dir("."),
	file("./a", "zyx"),
	dir("./d"),
	dir("./d/d2"),
	file("./d/d2/c", "asdf"),
}

// Zero-length files share their offset with whatever follows.
var FixtureZeroLength = []FixtureFile{
	dir("."),
	file("./empty", ""),
	file("./full", "body"),
	file("./last-empty", ""),
}

// Dirs with no files under them don't survive a round trip.
var FixtureEmptyDirs = []FixtureFile{
	dir("."),
	dir("./hollow"),
	dir("./hollow/deeper"),
	dir("./kept"),
	file("./kept/f", "x"),
}

var FixtureUnicode = []FixtureFile{
	dir("."),
	dir("./ünï"),
	file("./ünï/cødé.txt", "✓"),
	file("./日本", "語"),
}

// Exactly as long as a name field can hold, with no room for a terminator.
var FixtureLongName = []FixtureFile{
	dir("."),
	dir("./" + strings.Repeat("d", 60)),
	file("./"+strings.Repeat("d", 60)+"/"+strings.Repeat("f", 67), "long"),
}

// deep and varied structures.  files and dirs.
// subtle: a dir with a sibling that's a suffix of its name (can trip up dir/child adjacency sorting).
// subtle: a file with a sibling that's a suffix of its name (other half of the test, to make sure the prefix doesn't create an incorrect tree node).
var FixtureGamma = []FixtureFile{
	dir("."),
	dir("./etc"),
	dir("./etc/init"),
	file("./etc/init/zed", "grue"),
	dir("./etc/init.d"),
	file("./etc/init.d/service-p", "p!"),
	file("./etc/init.d/service-q", "q!"),
	file("./etc/trick", "sib"),
	file("./etc/tricky", "sob"),
	dir("./var"),
	file("./var/fun", "zyx"),
}

var AllFixtures = []struct {
	Name  string
	Files []FixtureFile
}{
	{"Alpha", FixtureAlpha},
	{"AlphaDiffContent", FixtureAlphaDiffContent},
	{"Empty", FixtureEmpty},
	{"Multifile", FixtureMultifile},
	{"Worked", FixtureWorked},
	{"Depth3", FixtureDepth3},
	{"ZeroLength", FixtureZeroLength},
	{"EmptyDirs", FixtureEmptyDirs},
	{"Unicode", FixtureUnicode},
	{"LongName", FixtureLongName},
	{"Gamma", FixtureGamma},
}

/*
	Create files described by the fixtures on the filesystem given.
	Any errors will be panicked, since this is meant to be used in test setup.
*/
func PlaceFixture(afs fs.FS, fixture []FixtureFile) {
	for _, ff := range fixture {
		if err := fsOp.PlaceFile(afs, ff.Metadata, bytes.NewReader(ff.Body)); err != nil {
			panic(err)
		}
	}
}

/*
	Names the fixture's files will have in an archive, in archive order.
	Fixtures list their files in walk order, so this is a filter.
*/
func FixtureNames(fixture []FixtureFile) []string {
	var names []string
	for _, ff := range fixture {
		if ff.Metadata.Type == fs.Type_File {
			names = append(names, ff.Metadata.Name.Bare())
		}
	}
	return names
}

func holdsFiles(fixture []FixtureFile, dir fs.RelPath) bool {
	prefix := dir.Bare() + "/"
	for _, ff := range fixture {
		if ff.Metadata.Type == fs.Type_File && strings.HasPrefix(ff.Metadata.Name.Bare(), prefix) {
			return true
		}
	}
	return false
}
