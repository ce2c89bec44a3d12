package telusuri

import "testing"

func TestPosition_GetDocumentIDAndOffset(t *testing.T) {
	pos := Position{DocumentID: 42, Offset: 10}
	if got := pos.GetDocumentID(); got != 42 {
		t.Errorf("GetDocumentID() = %d, want 42", got)
	}
	if got := pos.GetOffset(); got != 10 {
		t.Errorf("GetOffset() = %d, want 10", got)
	}
}

func TestPosition_IsBeginningAndIsEnd(t *testing.T) {
	if !BOFDocument.IsBeginning() {
		t.Error("BOFDocument.IsBeginning() = false, want true")
	}
	if BOFDocument.IsEnd() {
		t.Error("BOFDocument.IsEnd() = true, want false")
	}
	if !EOFDocument.IsEnd() {
		t.Error("EOFDocument.IsEnd() = false, want true")
	}
	if EOFDocument.IsBeginning() {
		t.Error("EOFDocument.IsBeginning() = true, want false")
	}

	mid := Position{DocumentID: 1, Offset: 0}
	if mid.IsBeginning() || mid.IsEnd() {
		t.Error("ordinary position reported as BOF/EOF")
	}
}

func TestPosition_IsBeforeAndIsAfter(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Position
		before bool
		after  bool
	}{
		{"same doc earlier offset", Position{1, 5}, Position{1, 10}, true, false},
		{"same doc later offset", Position{1, 10}, Position{1, 5}, false, true},
		{"earlier doc", Position{1, 100}, Position{2, 0}, true, false},
		{"equal position", Position{1, 5}, Position{1, 5}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.IsBefore(tt.b); got != tt.before {
				t.Errorf("IsBefore() = %v, want %v", got, tt.before)
			}
			if got := tt.a.IsAfter(tt.b); got != tt.after {
				t.Errorf("IsAfter() = %v, want %v", got, tt.after)
			}
		})
	}
}

func TestPositionFromHit(t *testing.T) {
	h := packHit(7, 12, true)
	pos := PositionFromHit(h)
	if pos.GetDocumentID() != 7 || pos.GetOffset() != 12 {
		t.Errorf("PositionFromHit(%d) = %+v, want doc=7 offset=12", h, pos)
	}
}

func TestSkipList_InsertAndFind(t *testing.T) {
	sl := NewSkipList()
	positions := []Position{{1, 5}, {1, 2}, {2, 0}, {1, 8}, {3, 1}}
	for _, p := range positions {
		sl.Insert(p)
	}

	for _, p := range positions {
		got, err := sl.Find(p)
		if err != nil {
			t.Fatalf("Find(%+v) returned error: %v", p, err)
		}
		if !got.Equals(p) {
			t.Errorf("Find(%+v) = %+v", p, got)
		}
	}

	if _, err := sl.Find(Position{9, 9}); err != ErrKeyNotFound {
		t.Errorf("Find(missing) error = %v, want ErrKeyNotFound", err)
	}
}

func TestSkipList_InsertUpdatesExisting(t *testing.T) {
	sl := NewSkipList()
	sl.Insert(Position{1, 1})
	sl.Insert(Position{1, 1})

	count := 0
	it := sl.Iterator()
	for it.HasNext() {
		it.Next()
		count++
	}
	if count != 1 {
		t.Errorf("duplicate insert produced %d nodes, want 1", count)
	}
}

func TestSkipList_FindLessThanAndGreaterThan(t *testing.T) {
	sl := NewSkipList()
	for _, p := range []Position{{1, 1}, {1, 3}, {1, 5}, {1, 7}} {
		sl.Insert(p)
	}

	lt, err := sl.FindLessThan(Position{1, 5})
	if err != nil || lt != (Position{1, 3}) {
		t.Errorf("FindLessThan({1,5}) = %+v, %v, want {1,3}, nil", lt, err)
	}

	gt, err := sl.FindGreaterThan(Position{1, 5})
	if err != nil || gt != (Position{1, 7}) {
		t.Errorf("FindGreaterThan({1,5}) = %+v, %v, want {1,7}, nil", gt, err)
	}

	if _, err := sl.FindLessThan(Position{1, 1}); err != ErrNoElementFound {
		t.Errorf("FindLessThan(first) error = %v, want ErrNoElementFound", err)
	}
	if _, err := sl.FindGreaterThan(Position{1, 7}); err != ErrNoElementFound {
		t.Errorf("FindGreaterThan(last) error = %v, want ErrNoElementFound", err)
	}
}

func TestSkipList_DeleteAndLast(t *testing.T) {
	sl := NewSkipList()
	for _, p := range []Position{{1, 1}, {1, 2}, {1, 3}} {
		sl.Insert(p)
	}

	if last := sl.Last(); last != (Position{1, 3}) {
		t.Errorf("Last() = %+v, want {1,3}", last)
	}

	if !sl.Delete(Position{1, 3}) {
		t.Error("Delete(existing) = false, want true")
	}
	if sl.Delete(Position{1, 3}) {
		t.Error("Delete(already deleted) = true, want false")
	}

	if last := sl.Last(); last != (Position{1, 2}) {
		t.Errorf("Last() after delete = %+v, want {1,2}", last)
	}
}

func TestSkipList_IteratorOrdering(t *testing.T) {
	sl := NewSkipList()
	want := []Position{{1, 1}, {1, 5}, {2, 0}, {2, 9}}
	shuffled := []Position{{2, 9}, {1, 1}, {2, 0}, {1, 5}}
	for _, p := range shuffled {
		sl.Insert(p)
	}

	it := sl.Iterator()
	var got []Position
	for it.HasNext() {
		got = append(got, it.Next())
	}

	if len(got) != len(want) {
		t.Fatalf("iterator produced %d positions, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equals(want[i]) {
			t.Errorf("position %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
