package deque

import (
	"rocket/model"
)

// ArrDeque ring buffer over a fixed array, frames stay in place while the
// head moves.
type ArrDeque struct {
	arr []model.FieldFrame

	// index of the oldest frame
	start int
	// number of frames
	size int
}

// NewArrDeque keeps at most capacity frames.
func NewArrDeque(capacity int) *ArrDeque {
	if capacity < 1 {
		capacity = 1
	}
	return &ArrDeque{
		arr: make([]model.FieldFrame, capacity),
	}
}

func (ad *ArrDeque) Size() int {
	return ad.size
}

func (ad *ArrDeque) Capacity() int {
	return len(ad.arr)
}

func (ad *ArrDeque) index(z int) int {
	return (ad.start + z) % len(ad.arr)
}

func (ad *ArrDeque) Get(z int) *model.FieldFrame {
	if z < 0 || z >= ad.size {
		panic("index out of length")
	}
	return &ad.arr[ad.index(z)]
}

func (ad *ArrDeque) Traverse(f func(z int, item *model.FieldFrame)) {
	for z := 0; z < ad.size; z++ {
		f(z, &ad.arr[ad.index(z)])
	}
}

func (ad *ArrDeque) AddLast(item model.FieldFrame) {
	if ad.IsFull() {
		ad.RemoveFirst()
	}
	ad.arr[ad.index(ad.size)] = item
	ad.size++
}

func (ad *ArrDeque) RemoveLast() {
	if ad.size == 0 {
		return
	}
	ad.arr[ad.index(ad.size-1)] = model.FieldFrame{}
	ad.size--
}

func (ad *ArrDeque) AddFirst(item model.FieldFrame) {
	if ad.IsFull() {
		ad.RemoveLast()
	}
	ad.start = (ad.start - 1 + len(ad.arr)) % len(ad.arr)
	ad.arr[ad.start] = item
	ad.size++
}

func (ad *ArrDeque) RemoveFirst() {
	if ad.size == 0 {
		return
	}
	ad.arr[ad.start] = model.FieldFrame{} // release the field
	ad.start = (ad.start + 1) % len(ad.arr)
	ad.size--
}

func (ad *ArrDeque) Clear() {
	for z := range ad.arr {
		ad.arr[z] = model.FieldFrame{}
	}
	ad.start, ad.size = 0, 0
}

func (ad *ArrDeque) IsFull() bool {
	return ad.size == len(ad.arr)
}

func (ad *ArrDeque) IsEmpty() bool {
	return ad.size == 0
}

// Frames copy of the queue content, oldest first.
func (ad *ArrDeque) Frames() []model.FieldFrame {
	res := make([]model.FieldFrame, 0, ad.size)
	ad.Traverse(func(z int, item *model.FieldFrame) {
		res = append(res, *item)
	})
	return res
}
