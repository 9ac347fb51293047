package editing

import (
	"errors"
	"testing"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func testCompositions(n int) []*EditCommandComposition {
	cs := make([]*EditCommandComposition, n)
	for i := range cs {
		cs[i] = newComposition(nil, VisibleSelection{}, VisibleSelection{}, EditActionTyping)
	}
	return cs
}

func TestUndoStackPushAndWalk(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	u := NewUndoStack(0)
	assert.False(t, u.CanUndo())
	assert.False(t, u.CanRedo())
	cs := testCompositions(3)
	for _, c := range cs {
		u.push(c)
		assert.True(t, c.registered)
	}
	require.Equal(t, 3, u.Len())
	c, ok := u.nextUndo()
	require.True(t, ok)
	assert.Same(t, cs[2], c)
	u.undone()
	u.undone()
	c, ok = u.nextRedo()
	require.True(t, ok)
	assert.Same(t, cs[1], c)
	//
	// a new step discards what could have been redone
	fresh := testCompositions(1)[0]
	u.push(fresh)
	assert.Equal(t, 2, u.Len())
	assert.False(t, u.CanRedo())
	c, _ = u.nextUndo()
	assert.Same(t, fresh, c)
}

func TestUndoStackLimit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	u := NewUndoStack(2)
	cs := testCompositions(5)
	for _, c := range cs {
		u.push(c)
	}
	require.Equal(t, 2, u.Len())
	c, _ := u.nextUndo()
	assert.Same(t, cs[4], c)
	u.undone()
	c, _ = u.nextUndo()
	assert.Same(t, cs[3], c)
	u.undone()
	assert.False(t, u.CanUndo())
}

func TestUndoStackDrop(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	u := NewUndoStack(0)
	cs := testCompositions(4)
	for _, c := range cs {
		u.push(c)
	}
	u.undone() // cs[3] is redoable
	u.drop(cs[1])
	require.Equal(t, 2, u.Len())
	c, ok := u.nextUndo()
	require.True(t, ok)
	assert.Same(t, cs[2], c)
	c, ok = u.nextRedo()
	require.True(t, ok)
	assert.Same(t, cs[3], c)
	//
	u.drop(cs[3])
	assert.False(t, u.CanRedo())
	assert.True(t, u.CanUndo())
	u.Clear()
	assert.Equal(t, 0, u.Len())
	assert.False(t, u.CanUndo())
}

func TestUndoStackIndexStaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limit := rapid.IntRange(0, 5).Draw(t, "limit")
		u := NewUndoStack(limit)
		ops := rapid.SliceOf(rapid.IntRange(0, 2)).Draw(t, "ops")
		for _, op := range ops {
			switch op {
			case 0:
				u.push(testCompositions(1)[0])
			case 1:
				if u.CanUndo() {
					u.undone()
				}
			case 2:
				if u.CanRedo() {
					u.redone()
				}
			}
			if u.undoIndex < -1 || u.undoIndex >= u.Len() {
				t.Fatalf("undo index %d out of range for %d steps", u.undoIndex, u.Len())
			}
			if limit > 0 && u.Len() > limit {
				t.Fatalf("%d steps exceed limit %d", u.Len(), limit)
			}
		}
	})
}

func TestCompositionString(t *testing.T) {
	c := newComposition(nil, VisibleSelection{}, VisibleSelection{}, EditActionBold)
	assert.Contains(t, c.String(), "composition(")
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, EditActionBold, c.EditingAction())
}

func TestKillRingSequences(t *testing.T) {
	kr := NewKillRing(2)
	assert.Equal(t, "", kr.Yank())
	kr.Prepend("world")
	kr.Prepend("hello ")
	assert.Equal(t, "hello world", kr.Yank())
	kr.Append("!")
	assert.Equal(t, "hello world!", kr.Yank())
	kr.StartNewSequence()
	kr.Append("one")
	kr.StartNewSequence()
	kr.Append("two")
	assert.Equal(t, 2, kr.Len())
	assert.Equal(t, []string{"two", "one"}, kr.Entries())
}

func TestKillRingCapacityIsPositive(t *testing.T) {
	kr := NewKillRing(0)
	kr.Append("a")
	kr.StartNewSequence()
	kr.Append("b")
	assert.Equal(t, 1, kr.Len())
	assert.Equal(t, "b", kr.Yank())
}

func TestRecoverViolation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	raise := func() (err error) {
		defer recoverViolation(&err)
		check("insert", dom.ErrHierarchy)
		return nil
	}
	err := raise()
	require.Error(t, err)
	var iv *InvariantViolation
	require.True(t, errors.As(err, &iv))
	assert.Equal(t, "insert", iv.Op)
	assert.True(t, errors.Is(err, dom.ErrHierarchy))
	//
	other := func() (err error) {
		defer recoverViolation(&err)
		panic("boom")
	}
	assert.PanicsWithValue(t, "boom", func() { _ = other() })
	//
	quiet := func() (err error) {
		defer recoverViolation(&err)
		check("noop", nil)
		return nil
	}
	assert.NoError(t, quiet())
}
