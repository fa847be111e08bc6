/*
	Generic depth-first tree traversal with both pre- and post-order hooks.

	Nodes produce their own children lazily via NextChild,
	so trees may be expanded on demand while being walked.
*/
package treewalk

type Node interface {
	// Returns the next child, or nil when there are no more.
	// Called repeatedly by the walker; each child is yielded exactly once.
	NextChild() Node
}

type VisitFunc func(Node) error

/*
	Walks the tree rooted at `root`.

	`preVisit` is called on a node before any of its children;
	`postVisit` is called after all of them.  Either may be nil.
	The first error returned by either hook halts the walk and is returned.

	Traversal is iterative; deep trees do not grow the goroutine stack.
*/
func Walk(root Node, preVisit, postVisit VisitFunc) error {
	if preVisit != nil {
		if err := preVisit(root); err != nil {
			return err
		}
	}
	stack := []Node{root}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		child := top.NextChild()
		if child == nil {
			stack = stack[:len(stack)-1]
			if postVisit != nil {
				if err := postVisit(top); err != nil {
					return err
				}
			}
			continue
		}
		if preVisit != nil {
			if err := preVisit(child); err != nil {
				return err
			}
		}
		stack = append(stack, child)
	}
	return nil
}
