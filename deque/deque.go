/**
 * Bounded double ended queue of field frames.
 * Keeps the most recent frames of a run for animations, adding at the tail
 * of a full queue drops the oldest frame.
 */

package deque

import "rocket/model"

type Deque interface {
	// number of frames
	Size() int

	// frame at index z, 0 is the oldest
	Get(z int) *model.FieldFrame

	// oldest to newest
	Traverse(f func(z int, item *model.FieldFrame))

	// append, evicting the oldest frame when full
	AddLast(item model.FieldFrame)

	RemoveLast()

	// prepend, evicting the newest frame when full
	AddFirst(item model.FieldFrame)

	RemoveFirst()

	Clear()

	IsFull() bool

	IsEmpty() bool
}
