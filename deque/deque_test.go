package deque

import (
	"testing"

	"rocket/model"
)

func frame(step int) model.FieldFrame {
	return model.FieldFrame{Step: step, Time: float64(step) * 0.01}
}

func steps(d *ArrDeque) []int {
	var res []int
	d.Traverse(func(z int, item *model.FieldFrame) {
		res = append(res, item.Step)
	})
	return res
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestArrDeque_AddLastEvictsOldest(t *testing.T) {
	d := NewArrDeque(3)
	for i := 1; i <= 5; i++ {
		d.AddLast(frame(i))
	}
	if !d.IsFull() || d.Size() != 3 {
		t.Fatalf("size = %d", d.Size())
	}
	if got := steps(d); !equal(got, []int{3, 4, 5}) {
		t.Errorf("frames = %v", got)
	}
	if d.Get(0).Step != 3 || d.Get(2).Step != 5 {
		t.Errorf("Get returned %d, %d", d.Get(0).Step, d.Get(2).Step)
	}
}

func TestArrDeque_Funcs(t *testing.T) {
	d := NewArrDeque(4)
	d.AddLast(frame(2))
	d.AddFirst(frame(1))
	d.AddLast(frame(3))
	if got := steps(d); !equal(got, []int{1, 2, 3}) {
		t.Fatalf("frames = %v", got)
	}
	d.RemoveFirst()
	d.RemoveLast()
	if got := steps(d); !equal(got, []int{2}) {
		t.Fatalf("frames = %v", got)
	}
	d.AddFirst(frame(0))
	d.AddFirst(frame(-1))
	d.AddFirst(frame(-2))
	d.AddFirst(frame(-3)) // full, drops the newest
	if got := steps(d); !equal(got, []int{-3, -2, -1, 0}) {
		t.Fatalf("frames = %v", got)
	}
	d.Clear()
	if !d.IsEmpty() || len(d.Frames()) != 0 {
		t.Errorf("not empty after Clear")
	}
	d.RemoveLast()
	d.RemoveFirst()
	if d.Size() != 0 {
		t.Errorf("remove on empty changed size to %d", d.Size())
	}
}

func TestArrDeque_GetOutOfRange(t *testing.T) {
	d := NewArrDeque(2)
	defer func() {
		if recover() == nil {
			t.Error("no panic")
		}
	}()
	d.Get(0)
}

func BenchmarkArrDeque_AddLast(b *testing.B) {
	d := NewArrDeque(120)
	f := model.FieldFrame{T: make([][]float64, 20)}
	for i := 0; i < b.N; i++ {
		d.AddLast(f)
	}
}
