package dashboard

import (
	"context"
	"errors"
)

// ErrEditorClosed is returned when a form mutation arrives with no editor
// open.
var ErrEditorClosed = errors.New("no editor open")

// Loader produces the read-only view content for a pushed entity.
type Loader[T, V any] func(ctx context.Context, update T) (V, error)

// Identity shows pushed entities as they are.
func Identity[T any]() Loader[T, T] {
	return func(_ context.Context, update T) (T, error) {
		return update, nil
	}
}

// Reconciler folds pushed entities of one kind into its table, read-only
// view and edit session. It is not safe for concurrent use; the dashboard
// loop owns it.
type Reconciler[T Keyed, F Form[T], V any] struct {
	kind      Kind
	table     *Table[T]
	form      F
	load      Loader[T, V]
	presenter Presenter

	edit editSession[T]
	view viewSession[V]
}

func NewReconciler[T Keyed, F Form[T], V any](kind Kind, table *Table[T], form F, load Loader[T, V], presenter Presenter) *Reconciler[T, F, V] {
	return &Reconciler[T, F, V]{
		kind:      kind,
		table:     table,
		form:      form,
		load:      load,
		presenter: presenter,
	}
}

func (r *Reconciler[T, F, V]) Kind() Kind {
	return r.kind
}

func (r *Reconciler[T, F, V]) Table() *Table[T] {
	return r.table
}

// Form returns the editor's form. Callers mutate it through Edit.
func (r *Reconciler[T, F, V]) Form() F {
	return r.form
}

func (r *Reconciler[T, F, V]) Editor() EditorState[T] {
	return r.edit.state()
}

// View returns the content of the read-only view and whether it is open.
func (r *Reconciler[T, F, V]) View() (V, bool) {
	return r.view.content, r.view.open
}

// OnPush applies one pushed entity.
func (r *Reconciler[T, F, V]) OnPush(ctx context.Context, update T) {
	key := update.Key()

	if i, ok := r.table.Update(update); ok {
		r.presenter.RowUpdated(r.kind, i, update)
	}

	if r.view.open && r.view.id == key && !r.edit.openOn(key) {
		content, err := r.load(ctx, update)
		if err != nil {
			r.presenter.Error(r.kind, err)
		} else {
			r.view.content = content
			r.presenter.ViewRefreshed(r.kind, content)
		}
	}

	if !r.edit.openOn(key) {
		return
	}
	if !r.edit.dirty {
		r.form.Populate(update)
		r.presenter.FormPopulated(r.kind, r.form)
		return
	}
	v := update
	r.edit.buffered = &v
	r.edit.conflict = true
	r.presenter.ConflictChanged(r.kind, true)
}

// OpenEditor starts editing current.
func (r *Reconciler[T, F, V]) OpenEditor(current T) {
	key := current.Key()
	r.openEditor(&key, current)
}

// OpenBlankEditor starts creating a new entity.
func (r *Reconciler[T, F, V]) OpenBlankEditor() {
	var blank T
	r.openEditor(nil, blank)
}

func (r *Reconciler[T, F, V]) openEditor(id *int64, current T) {
	visible := r.edit.conflict
	r.edit.reset()
	r.edit.open = true
	r.edit.id = id
	r.form.Populate(current)
	r.presenter.FormPopulated(r.kind, r.form)
	if visible {
		r.presenter.ConflictChanged(r.kind, false)
	}
}

// Edit applies mutate to the open form and marks the session dirty when the
// mutation is accepted.
func (r *Reconciler[T, F, V]) Edit(mutate func(F) error) error {
	if !r.edit.open {
		return ErrEditorClosed
	}
	if err := mutate(r.form); err != nil {
		return err
	}
	r.edit.dirty = true
	return nil
}

// MarkDirty records a field change made outside Edit.
func (r *Reconciler[T, F, V]) MarkDirty() {
	if r.edit.open {
		r.edit.dirty = true
	}
}

// ResolveDiscardLocal replaces the form with the buffered update. Without a
// buffered update there is nothing to resolve and local edits are kept.
func (r *Reconciler[T, F, V]) ResolveDiscardLocal() {
	if !r.edit.open || r.edit.buffered == nil {
		return
	}
	r.form.Populate(*r.edit.buffered)
	r.presenter.FormPopulated(r.kind, r.form)
	r.edit.dirty = false
	r.clearConflict()
}

// ResolveKeepEditing drops the buffered update and keeps local changes.
func (r *Reconciler[T, F, V]) ResolveKeepEditing() {
	if !r.edit.open {
		return
	}
	r.clearConflict()
}

func (r *Reconciler[T, F, V]) clearConflict() {
	visible := r.edit.conflict
	r.edit.buffered = nil
	r.edit.conflict = false
	if visible {
		r.presenter.ConflictChanged(r.kind, false)
	}
}

func (r *Reconciler[T, F, V]) CloseEditor() {
	visible := r.edit.conflict
	r.edit.reset()
	if visible {
		r.presenter.ConflictChanged(r.kind, false)
	}
}

func (r *Reconciler[T, F, V]) OpenView(id int64, content V) {
	r.view = viewSession[V]{open: true, id: id, content: content}
	r.presenter.ViewRefreshed(r.kind, content)
}

func (r *Reconciler[T, F, V]) CloseView() {
	r.view = viewSession[V]{}
}

// Forget closes the editor and the view when either is open on key.
func (r *Reconciler[T, F, V]) Forget(key int64) {
	if r.edit.openOn(key) {
		r.CloseEditor()
	}
	if r.view.open && r.view.id == key {
		r.CloseView()
	}
}
