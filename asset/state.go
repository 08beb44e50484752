package asset

import "github.com/jpalmerr/assetboard/reactive"

// Items is the nested record held in [State.Field2]. It is replaced wholesale
// by every successful fetch.
type Items struct {
	Item1 *string `json:"item1"`
	Item2 *string `json:"item2"`
}

// State is the snapshot managed by a [Facade].
//
// Absent values are represented by nil pointers and serialize as JSON null.
type State struct {
	Field1 *string `json:"field1"`
	Field2 Items   `json:"field2"`
}

// String returns a pointer to s. It is a convenience for building [State]
// and [Items] literals.
func String(s string) *string {
	return &s
}

// Equal reports whether i and other hold the same values.
func (i Items) Equal(other Items) bool {
	return equalString(i.Item1, other.Item1) && equalString(i.Item2, other.Item2)
}

// Clone returns a copy of i that shares no pointers with it.
func (i Items) Clone() Items {
	return Items{Item1: cloneString(i.Item1), Item2: cloneString(i.Item2)}
}

// Equal reports whether s and other hold the same values.
func (s State) Equal(other State) bool {
	return equalString(s.Field1, other.Field1) && s.Field2.Equal(other.Field2)
}

// Clone returns a copy of s that shares no pointers with it.
func (s State) Clone() State {
	return State{Field1: cloneString(s.Field1), Field2: s.Field2.Clone()}
}

func equalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// Container is the single source of truth for one [State].
//
// A Container is created by the caller and handed to [New]; the facade built
// over it is the only writer. Reads go through [Container.Snapshot], which
// never exposes the stored pointers.
type Container struct {
	subject *reactive.Subject[State]
}

// NewContainer creates a [Container] holding a copy of initial.
func NewContainer(initial State) *Container {
	return &Container{subject: reactive.NewSubject(initial.Clone())}
}

// Snapshot returns a copy of the current state.
func (c *Container) Snapshot() State {
	return c.subject.Value().Clone()
}

// update applies fn to the current state and publishes the result.
func (c *Container) update(fn func(State) State) State {
	return c.subject.Update(func(cur State) State {
		return fn(cur).Clone()
	})
}

func (c *Container) observable() *reactive.Observable[State] {
	return c.subject.Observable()
}
