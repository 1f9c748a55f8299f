package core

// IndexedMinHeap is a binary min-heap over node ids whose ordering key is not
// stored inside the heap: every operation reads the current key of a node
// from the caller-owned dist slice. A node-id → heap-slot index gives O(1)
// membership tests and O(log n) DecreaseKey.
//
// Contract: after lowering dist[node] the caller must call DecreaseKey(node,
// dist) before any other heap operation, and must never raise the key of a
// queued node. There is no increase-key support.
type IndexedMinHeap struct {
	items []int
	slots []int // node id -> position in items, -1 when absent
}

// NewIndexedMinHeap creates an empty heap able to hold node ids in
// [0, numNodes).
func NewIndexedMinHeap(numNodes int) *IndexedMinHeap {
	slots := make([]int, numNodes)
	for i := range slots {
		slots[i] = -1
	}
	return &IndexedMinHeap{
		items: make([]int, 0, numNodes),
		slots: slots,
	}
}

// Len returns the number of queued nodes.
func (h *IndexedMinHeap) Len() int {
	return len(h.items)
}

// Contains reports whether the node is currently queued.
func (h *IndexedMinHeap) Contains(node int) bool {
	return h.slots[node] >= 0
}

// Push inserts a node with its current distance and restores heap order.
func (h *IndexedMinHeap) Push(node int, dist []int) {
	h.items = append(h.items, node)
	h.slots[node] = len(h.items) - 1
	h.siftUp(len(h.items)-1, dist)
}

// Pop removes and returns the node with the minimum current distance. It
// panics when called on an empty heap; that is a precondition violation, not
// a recoverable condition.
func (h *IndexedMinHeap) Pop(dist []int) int {
	if len(h.items) == 0 {
		panic("Pop on empty IndexedMinHeap")
	}
	min := h.items[0]
	last := len(h.items) - 1
	h.swap(0, last)
	h.items = h.items[:last]
	h.slots[min] = -1
	if len(h.items) > 0 {
		h.siftDown(0, dist)
	}
	return min
}

// DecreaseKey restores heap order after the caller lowered dist[node]. Only
// upward sifting is performed.
func (h *IndexedMinHeap) DecreaseKey(node int, dist []int) {
	h.siftUp(h.slots[node], dist)
}

func (h *IndexedMinHeap) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.slots[h.items[i]] = i
	h.slots[h.items[j]] = j
}

func (h *IndexedMinHeap) siftUp(i int, dist []int) {
	for i > 0 {
		parent := (i - 1) / 2
		if dist[h.items[i]] >= dist[h.items[parent]] {
			return
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *IndexedMinHeap) siftDown(i int, dist []int) {
	n := len(h.items)
	for {
		smallest := i
		if l := 2*i + 1; l < n && dist[h.items[l]] < dist[h.items[smallest]] {
			smallest = l
		}
		if r := 2*i + 2; r < n && dist[h.items[r]] < dist[h.items[smallest]] {
			smallest = r
		}
		if smallest == i {
			return
		}
		h.swap(i, smallest)
		i = smallest
	}
}
