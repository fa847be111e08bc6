package fs

import (
	"sort"

	"github.com/polydawn/pak/lib/treewalk"
)

/*
	Visits every node under the base of `afs`, base first (as `.`).
	The base is stat'd through symlinks, so a base that links to a
	directory is walked like the directory itself.

	Order is stable: a directory comes before its contents, and siblings
	go by byte-wise name.  Symlinks below the base are reported, not followed.
	A node that can't be stat'd is still visited, with `Err` set and
	`Info` nil, and `visit` decides whether that ends the walk.

	A directory's children are listed right after `visit` returns for it,
	and dropped once they've all been walked.
*/
func Walk(afs FS, visit func(node *WalkNode) error) error {
	info, err := afs.Stat(RelPath{})
	root := &WalkNode{Path: RelPath{}, Info: info, Err: err}
	return treewalk.Walk(
		root,
		func(n treewalk.Node) error {
			node := n.(*WalkNode)
			if err := visit(node); err != nil {
				return err
			}
			return node.expand(afs)
		},
		func(n treewalk.Node) error {
			n.(*WalkNode).pending = nil
			return nil
		},
	)
}

type WalkNode struct {
	Path RelPath
	Info *Metadata
	Err  error

	pending []*WalkNode
}

var _ treewalk.Node = &WalkNode{}

func (n *WalkNode) NextChild() treewalk.Node {
	if len(n.pending) == 0 {
		return nil
	}
	next := n.pending[0]
	n.pending = n.pending[1:]
	return next
}

func statNode(afs FS, path RelPath) *WalkNode {
	info, err := afs.LStat(path)
	return &WalkNode{Path: path, Info: info, Err: err}
}

func (n *WalkNode) expand(afs FS) error {
	if n.Info == nil || n.Info.Type != Type_Dir {
		return nil
	}
	names, err := afs.ReadDirNames(n.Path)
	if err != nil {
		return err
	}
	sort.Strings(names)
	n.pending = make([]*WalkNode, len(names))
	for i, name := range names {
		n.pending[i] = statNode(afs, n.Path.Join(RelPath{name, -1}))
	}
	return nil
}
