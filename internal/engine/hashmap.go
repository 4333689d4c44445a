package engine

import "github.com/emberlang/ember/internal/keys"

// hashmap is the property trie spec.md §4.4 describes: a Key (16 bits)
// is split into four 4-bit nibbles, each selecting a branch at one of
// four fixed levels, so reaching a key's slot for lookup, insertion or
// deletion costs exactly four array indexes regardless of how many
// properties an object holds (deletion also removes the key from order,
// a linear scan).
// Insertion order is tracked separately in order, since the trie's own
// layout is keyed by the numeric Key handle and says nothing about when
// a property was added — spec.md §4.3's for-in enumeration needs
// insertion order, not trie order.
type hashmap struct {
	root  [16]*hashNode
	count int
	order []keys.Key
}

type hashNode struct {
	children [16]*hashNode
	slot     *propSlot
}

func newHashmap() *hashmap { return &hashmap{} }

func nibbles(k uint16) [4]int {
	return [4]int{
		int(k>>12) & 0xF,
		int(k>>8) & 0xF,
		int(k>>4) & 0xF,
		int(k) & 0xF,
	}
}

func (h *hashmap) get(k keys.Key) *propSlot {
	nb := nibbles(uint16(k))
	node := h.root[nb[0]]
	for level := 1; level < 4; level++ {
		if node == nil {
			return nil
		}
		node = node.children[nb[level]]
	}
	if node == nil {
		return nil
	}
	return node.slot
}

// ensure returns the slot for k, allocating trie nodes and a fresh
// tombstone-free slot on first use. The caller is responsible for
// filling in the slot's value/flags.
func (h *hashmap) ensure(k keys.Key) (*propSlot, bool) {
	nb := nibbles(uint16(k))
	cur := &h.root[nb[0]]
	for level := 1; level < 4; level++ {
		if *cur == nil {
			*cur = &hashNode{}
		}
		cur = &(*cur).children[nb[level]]
	}
	if *cur == nil {
		*cur = &hashNode{}
	}
	created := false
	if (*cur).slot == nil {
		(*cur).slot = &propSlot{key: k}
		h.count++
		h.order = append(h.order, k)
		created = true
	}
	return (*cur).slot, created
}

// delete tombstones the slot for k (sets it nil, keeping the trie node
// itself so later insertions under the same key reuse the path without
// re-walking capacity growth) and drops k from the insertion-order list.
func (h *hashmap) delete(k keys.Key) bool {
	nb := nibbles(uint16(k))
	node := h.root[nb[0]]
	for level := 1; level < 4; level++ {
		if node == nil {
			return false
		}
		node = node.children[nb[level]]
	}
	if node == nil || node.slot == nil {
		return false
	}
	node.slot = nil
	h.count--
	for i, kk := range h.order {
		if kk == k {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	return true
}

// keysInOrder returns a snapshot of the live keys in insertion order.
// for-in takes its snapshot once at loop entry (spec.md §4.3's
// delete-during-iteration rule: a property removed after the snapshot
// is simply skipped when its slot is found tombstoned).
func (h *hashmap) keysInOrder() []keys.Key {
	out := make([]keys.Key, len(h.order))
	copy(out, h.order)
	return out
}
