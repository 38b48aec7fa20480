package dashboard

// Kind names an entity kind; it matches the push topic of that kind.
type Kind string

const (
	KindSpaceships Kind = "spaceships"
	KindRepairmen  Kind = "repairmen"
	KindRequests   Kind = "maintenance-requests"
)

// editSession tracks the single editor of one kind.
type editSession[T any] struct {
	open     bool
	id       *int64
	dirty    bool
	buffered *T
	conflict bool
}

func (s *editSession[T]) reset() {
	*s = editSession[T]{}
}

func (s *editSession[T]) openOn(key int64) bool {
	return s.open && s.id != nil && *s.id == key
}

// EditorState is a snapshot of an edit session. ID is nil when the editor is
// closed or creating a new entity.
type EditorState[T any] struct {
	Open            bool
	ID              *int64
	Dirty           bool
	Buffered        *T
	ConflictVisible bool
}

func (s *editSession[T]) state() EditorState[T] {
	st := EditorState[T]{Open: s.open, Dirty: s.dirty, ConflictVisible: s.conflict}
	if s.id != nil {
		id := *s.id
		st.ID = &id
	}
	if s.buffered != nil {
		v := *s.buffered
		st.Buffered = &v
	}
	return st
}

// viewSession tracks the single read-only view of one kind.
type viewSession[V any] struct {
	open    bool
	id      int64
	content V
}
