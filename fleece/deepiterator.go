package fleece

import (
	"strconv"
	"strings"

	"github.com/gofleece/fleece/internal/walker"
)

// PathElement is one step of a DeepIterator's current path: either a dict
// key or an array index.
type PathElement struct {
	Key     string
	Index   int
	IsIndex bool
}

type iterContainer struct {
	isDict bool
	arr    Array
	dict   Dict
	prefix []PathElement
}

// DeepIterator performs a pre-order depth-first walk of a value tree,
// visiting every scalar, array, and dict in encounter order and tracking
// the path to each (spec.md §5.2). Unlike a recursive walk, it keeps its
// own explicit stack (internal/walker.Stack) so traversal depth is bounded
// only by available memory, not goroutine stack size.
//
// Grounded on the teacher's hive/walker package: an iterative DFS driven
// by a Frame{Addr, Index, State} stack instead of recursion.
type DeepIterator struct {
	stack      *walker.Stack
	containers []iterContainer
	root       Value
	started    bool
	cur        Value
	curPath    []PathElement
	maxDepth   int
	skip       bool
	done       bool
}

// NewDeepIterator returns a DeepIterator starting at root.
func NewDeepIterator(root Value) *DeepIterator {
	return &DeepIterator{
		stack:    walker.NewStack(),
		root:     root,
		maxDepth: -1,
	}
}

// SetMaxDepth bounds descent into children to the given depth (0 means only
// the root itself is visited, -1 means unlimited). Matches spec.md §5.2's
// DeepIterator.SetMaxDepth.
func (it *DeepIterator) SetMaxDepth(depth int) { it.maxDepth = depth }

// SkipChildren prevents descent into the container last returned by Value,
// without stopping the walk entirely. It is a no-op if the last-returned
// value was not a container.
func (it *DeepIterator) SkipChildren() { it.skip = true }

// Value returns the value at the iterator's current position.
func (it *DeepIterator) Value() Value { return it.cur }

// Path returns a copy of the path from the root to the current position.
func (it *DeepIterator) Path() []PathElement {
	out := make([]PathElement, len(it.curPath))
	copy(out, it.curPath)
	return out
}

// PathString renders the current path using KeyPath's dotted/bracket syntax.
func (it *DeepIterator) PathString() string {
	var b strings.Builder
	for i, e := range it.curPath {
		if e.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(e.Index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(escapeKeyComponent(e.Key))
	}
	return b.String()
}

// JSONPointer renders the current path as an RFC 6901 JSON Pointer.
func (it *DeepIterator) JSONPointer() string {
	var b strings.Builder
	for _, e := range it.curPath {
		b.WriteByte('/')
		if e.IsIndex {
			b.WriteString(strconv.Itoa(e.Index))
			continue
		}
		b.WriteString(jsonPointerEscape(e.Key))
	}
	return b.String()
}

func jsonPointerEscape(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	s = strings.ReplaceAll(s, "/", "~1")
	return s
}

func (it *DeepIterator) depth() int { return len(it.curPath) }

// Next advances to the next value in pre-order and reports whether one is
// available. The root is visited first, on the initial call.
func (it *DeepIterator) Next() bool {
	if it.done {
		return false
	}
	if !it.started {
		it.started = true
		it.cur = it.root
		it.curPath = nil
		return true
	}

	// Descend into the value just returned, unless the caller skipped it
	// or it isn't a container or we have hit the configured depth limit.
	skip := it.skip
	it.skip = false
	if !skip && (it.maxDepth < 0 || it.depth() < it.maxDepth) {
		if arr, ok := it.cur.AsArray(); ok && arr.Count() > 0 {
			it.pushContainer(iterContainer{isDict: false, arr: arr, prefix: append([]PathElement{}, it.curPath...)})
		} else if dict, ok := it.cur.AsDict(); ok && dict.Count() > 0 {
			it.pushContainer(iterContainer{isDict: true, dict: dict, prefix: append([]PathElement{}, it.curPath...)})
		}
	}

	for {
		frame := it.stack.Top()
		if frame == nil {
			it.done = true
			return false
		}
		c := it.containers[frame.UserData]
		if c.isDict {
			if frame.Index >= c.dict.Count() {
				it.stack.Pop()
				continue
			}
			idx := frame.Index
			frame.Index++
			key, val := c.dict.keyValueAt(idx)
			it.cur = val
			it.curPath = append(append([]PathElement{}, c.prefix...), PathElement{Key: c.dict.keyString(key)})
			return true
		}
		if frame.Index >= c.arr.Count() {
			it.stack.Pop()
			continue
		}
		idx := frame.Index
		frame.Index++
		it.cur = c.arr.Get(idx)
		it.curPath = append(append([]PathElement{}, c.prefix...), PathElement{Index: idx, IsIndex: true})
		return true
	}
}

func (it *DeepIterator) pushContainer(c iterContainer) {
	idx := len(it.containers)
	it.containers = append(it.containers, c)
	it.stack.Push(walker.Frame{UserData: idx})
}
