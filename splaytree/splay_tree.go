package splaytree

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

const nilIndex int32 = -1

type node[K constraints.Ordered, V any] struct {
	key   K
	value V

	left   int32 // 左孩子在nodes数组中的下标，-1表示不存在
	right  int32 // 右孩子，含义与left相同
	parent int32 // 父节点，-1表示该节点为根
}

type Counter struct {
	Insert uint64 `statsd:"insert"`
	Find   uint64 `statsd:"find"`
	Hit    uint64 `statsd:"hit"`
	Rotate uint64 `statsd:"rotate"`
	Size   int    `statsd:"size,gauge"`
}

// Tree 伸展树，每次成功的Insert/Find都会将访问的节点旋转至根。
// 节点存放在nodes数组中，通过下标互相引用，节点只增不删。
// 注意：不是线程安全的
type Tree[K constraints.Ordered, V any] struct {
	nodes []node[K, V]
	root  int32

	counter Counter
}

func New[K constraints.Ordered, V any](capacity int) *Tree[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &Tree[K, V]{
		nodes: make([]node[K, V], 0, capacity),
		root:  nilIndex,
	}
}

func (t *Tree[K, V]) newNode(key K, value V, parent int32) int32 {
	t.nodes = append(t.nodes, node[K, V]{key: key, value: value, left: nilIndex, right: nilIndex, parent: parent})
	return int32(len(t.nodes) - 1)
}

// rotate 将x提升到其父节点之上，x必须有父节点
func (t *Tree[K, V]) rotate(x int32) {
	nodes := t.nodes
	parent := nodes[x].parent
	grandparent := nodes[parent].parent

	if nodes[parent].left == x {
		inner := nodes[x].right
		nodes[parent].left = inner
		if inner != nilIndex {
			nodes[inner].parent = parent
		}
		nodes[x].right = parent
	} else {
		inner := nodes[x].left
		nodes[parent].right = inner
		if inner != nilIndex {
			nodes[inner].parent = parent
		}
		nodes[x].left = parent
	}
	nodes[parent].parent = x

	nodes[x].parent = grandparent
	if grandparent == nilIndex {
		t.root = x
	} else if nodes[grandparent].left == parent {
		nodes[grandparent].left = x
	} else {
		nodes[grandparent].right = x
	}
	t.counter.Rotate++
}

func (t *Tree[K, V]) splay(x int32) {
	nodes := t.nodes
	for {
		parent := nodes[x].parent
		if parent == nilIndex {
			return
		}
		if grandparent := nodes[parent].parent; grandparent != nilIndex {
			if (nodes[parent].left == x) == (nodes[grandparent].left == parent) {
				t.rotate(parent) // zig-zig
			} else {
				t.rotate(x) // zig-zag
			}
		}
		t.rotate(x)
	}
}

// Insert 插入key，key已存在时原地覆盖value，两种情况都会将节点旋转至根
func (t *Tree[K, V]) Insert(key K, value V) {
	t.counter.Insert++
	if t.root == nilIndex {
		t.root = t.newNode(key, value, nilIndex)
		return
	}

	current := t.root
	for {
		n := &t.nodes[current]
		if key < n.key {
			if n.left == nilIndex {
				child := t.newNode(key, value, current)
				t.nodes[current].left = child
				t.splay(child)
				return
			}
			current = n.left
		} else if key > n.key {
			if n.right == nilIndex {
				child := t.newNode(key, value, current)
				t.nodes[current].right = child
				t.splay(child)
				return
			}
			current = n.right
		} else {
			n.value = value
			t.splay(current)
			return
		}
	}
}

// Find 查找成功时将节点旋转至根，失败时不改变树的结构
func (t *Tree[K, V]) Find(key K) (V, bool) {
	t.counter.Find++
	for current := t.root; current != nilIndex; {
		n := &t.nodes[current]
		if key < n.key {
			current = n.left
		} else if key > n.key {
			current = n.right
		} else {
			t.counter.Hit++
			t.splay(current)
			return t.nodes[current].value, true
		}
	}
	var zero V
	return zero, false
}

func (t *Tree[K, V]) Len() int {
	return len(t.nodes)
}

func (t *Tree[K, V]) Root() (K, bool) {
	if t.root == nilIndex {
		var zero K
		return zero, false
	}
	return t.nodes[t.root].key, true
}

// Walk 按key升序遍历，不改变树的结构
func (t *Tree[K, V]) Walk(callback func(key K, value V)) {
	stack := make([]int32, 0, 32)
	current := t.root
	for current != nilIndex || len(stack) > 0 {
		for current != nilIndex {
			stack = append(stack, current)
			current = t.nodes[current].left
		}
		current = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		callback(t.nodes[current].key, t.nodes[current].value)
		current = t.nodes[current].right
	}
}

func (t *Tree[K, V]) Keys() []K {
	keys := make([]K, 0, len(t.nodes))
	t.Walk(func(key K, _ V) {
		keys = append(keys, key)
	})
	return keys
}

// Height 空树为0，只有根时为1
func (t *Tree[K, V]) Height() int {
	if t.root == nilIndex {
		return 0
	}
	height := 0
	level := []int32{t.root}
	for len(level) > 0 {
		height++
		next := level[:0:0]
		for _, i := range level {
			if left := t.nodes[i].left; left != nilIndex {
				next = append(next, left)
			}
			if right := t.nodes[i].right; right != nilIndex {
				next = append(next, right)
			}
		}
		level = next
	}
	return height
}

// Footprint 返回节点数组占用的字节数
func (t *Tree[K, V]) Footprint() int {
	return cap(t.nodes) * int(unsafe.Sizeof(node[K, V]{}))
}

func (t *Tree[K, V]) GetCounter() interface{} {
	counter := t.counter
	counter.Size = len(t.nodes)
	t.counter = Counter{}
	return &counter
}
