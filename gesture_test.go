package gridbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dragFixture is a builder with a 1000px-wide canvas (20px cell width) and
// one 10x4 text item at (5, 5).
func dragFixture(t *testing.T, opts ...Option) (*Builder, string) {
	t.Helper()
	b := newTestBuilder(t, opts...)
	b.AddCanvas("main")
	id, ok := b.AddComponent("main", "text", Position{X: 5, Y: 5})
	require.True(t, ok)
	return b, id
}

func TestDrag_SnapsCumulativeDeltaToUnits(t *testing.T) {
	b, id := dragFixture(t)

	d, ok := b.BeginDrag(id)
	require.True(t, ok)

	// 45px / 20px = 2.25 -> 2 units; 30px / 20px = 1.5 -> 2 units.
	d.MoveBy(45, 30)
	l := b.State().Item("main", id).Layouts[ViewportDesktop]
	assert.Equal(t, 7, l.X)
	assert.Equal(t, 7, l.Y)

	// Deltas are cumulative from the gesture start, not incremental:
	// shrinking the delta moves the item back.
	d.MoveBy(20, 0)
	l = b.State().Item("main", id).Layouts[ViewportDesktop]
	assert.Equal(t, 6, l.X)
	assert.Equal(t, 5, l.Y)

	d.End("main")
}

func TestDrag_ClampsToCanvas(t *testing.T) {
	b, id := dragFixture(t)

	d, _ := b.BeginDrag(id)
	d.MoveBy(100000, -100000)

	l := b.State().Item("main", id).Layouts[ViewportDesktop]
	assert.Equal(t, 40, l.X, "x clamps to canvasWidth-width")
	assert.Equal(t, 0, l.Y, "y clamps to 0")
	d.End("main")
}

func TestDrag_EndCommitsOneCommand(t *testing.T) {
	b, id := dragFixture(t)

	d, _ := b.BeginDrag(id)
	d.MoveBy(40, 40)
	d.End("main")

	require.True(t, b.Undo())
	l := b.State().Item("main", id).Layouts[ViewportDesktop]
	assert.Equal(t, ItemLayout{X: 5, Y: 5, Width: 10, Height: 4}, l,
		"one undo reverts the whole drag")

	require.True(t, b.Redo())
	l = b.State().Item("main", id).Layouts[ViewportDesktop]
	assert.Equal(t, 7, l.X)
	assert.Equal(t, 7, l.Y)
}

func TestDrag_ClickPushesNothing(t *testing.T) {
	b, id := dragFixture(t)

	d, _ := b.BeginDrag(id)
	assert.False(t, d.Moved())
	d.End("main")

	// The next undo reverts the AddComponent, not a phantom drag.
	require.True(t, b.Undo())
	assert.Nil(t, b.State().Item("main", id))
}

func TestDrag_SubUnitMovementPushesNothing(t *testing.T) {
	b, id := dragFixture(t)

	d, _ := b.BeginDrag(id)
	d.MoveBy(5, 5) // under half a cell, rounds to zero units
	assert.False(t, d.Moved())
	d.End("main")

	require.True(t, b.Undo())
	assert.Nil(t, b.State().Item("main", id), "no drag command was recorded")
}

func TestDrag_CancelRestoresWithoutHistory(t *testing.T) {
	b, id := dragFixture(t)

	d, _ := b.BeginDrag(id)
	d.MoveBy(100, 100)
	require.True(t, d.Moved())
	d.Cancel()

	l := b.State().Item("main", id).Layouts[ViewportDesktop]
	assert.Equal(t, ItemLayout{X: 5, Y: 5, Width: 10, Height: 4}, l)

	require.True(t, b.Undo())
	assert.Nil(t, b.State().Item("main", id), "cancel must not record history")
}

func TestDrag_DropOutsideSnapsBack(t *testing.T) {
	b, id := dragFixture(t)

	d, _ := b.BeginDrag(id)
	d.MoveBy(200, 200)
	d.End("")

	l := b.State().Item("main", id).Layouts[ViewportDesktop]
	assert.Equal(t, ItemLayout{X: 5, Y: 5, Width: 10, Height: 4}, l,
		"an unresolved drop target snaps the item back")

	require.True(t, b.Undo())
	assert.Nil(t, b.State().Item("main", id), "a snapped-back drag records no history")
}

func TestDrag_CrossCanvasMoveAndUndo(t *testing.T) {
	b, id := dragFixture(t)
	b.AddCanvas("sidebar")
	live := b.State().Item("main", id)

	var moves []Event
	b.On(EventItemMoved, func(ev Event) { moves = append(moves, ev) })

	d, _ := b.BeginDrag(id)
	d.MoveBy(100, 0)
	d.End("sidebar")

	assert.Nil(t, b.State().Item("main", id))
	moved := b.State().Item("sidebar", id)
	require.NotNil(t, moved)
	assert.Same(t, live, moved, "a cross-canvas move keeps the item's identity")
	assert.Equal(t, 10, moved.Layouts[ViewportDesktop].X)
	assert.Equal(t, "sidebar", moved.CanvasID)
	require.Len(t, moves, 1)

	require.True(t, b.Undo())
	back := b.State().Item("main", id)
	require.NotNil(t, back)
	assert.Same(t, live, back)
	assert.Equal(t, ItemLayout{X: 5, Y: 5, Width: 10, Height: 4}, back.Layouts[ViewportDesktop])
	assert.Equal(t, "main", back.CanvasID)
}

func TestDrag_UndoAfterSourceCanvasRemoved(t *testing.T) {
	b, id := dragFixture(t)
	b.AddCanvas("sidebar")

	d, _ := b.BeginDrag(id)
	d.MoveBy(100, 0)
	d.End("sidebar")

	// The source canvas is dropped through the direct state helper, which
	// is not undoable. Undoing the move now has nowhere to return the item
	// to; it must stay on the target rather than vanish.
	b.State().RemoveCanvas("main")

	require.True(t, b.Undo())
	it := b.State().Item("sidebar", id)
	require.NotNil(t, it, "the item must survive the undo")
	assert.Equal(t, "sidebar", it.CanvasID)
	assert.Equal(t, 10, it.Layouts[ViewportDesktop].X)
}

func TestDrag_FrozenCellWidthSurvivesReflow(t *testing.T) {
	width := 1000
	b := newTestBuilder(t, WithWidthProvider(func(string) int { return width }))
	b.AddCanvas("main")
	id, _ := b.AddComponent("main", "text", Position{X: 5, Y: 5})

	d, _ := b.BeginDrag(id)

	// The container reflows mid-gesture; the gesture keeps converting with
	// the cell width frozen at its start.
	width = 500
	b.NotifyResize()

	d.MoveBy(40, 0) // 40px / frozen 20px = 2 units, not 40/10 = 4
	l := b.State().Item("main", id).Layouts[ViewportDesktop]
	assert.Equal(t, 7, l.X)
	d.End("main")
}

func TestDrag_ActivatesOwningCanvas(t *testing.T) {
	b, id := dragFixture(t)
	b.AddCanvas("sidebar")
	b.SetActiveCanvas("sidebar")

	d, _ := b.BeginDrag(id)
	assert.Equal(t, "main", b.ActiveCanvas())
	d.End("main")
}

func TestDrag_SecondaryViewportCustomizes(t *testing.T) {
	b, id := dragFixture(t)
	b.SetViewport(ViewportMobile)

	d, _ := b.BeginDrag(id)
	d.MoveBy(20, 20)
	d.End("main")

	l := b.State().Item("main", id).Layouts[ViewportMobile]
	assert.True(t, l.Customized, "dragging on a secondary viewport customizes it")
	assert.Equal(t, 6, l.X)
	assert.Equal(t, 6, l.Y)

	require.True(t, b.Undo())
	l = b.State().Item("main", id).Layouts[ViewportMobile]
	assert.False(t, l.Customized, "undo returns the viewport to the derived layout")
}

func TestDrag_CancelOnSecondaryViewportDoesNotCustomize(t *testing.T) {
	b, id := dragFixture(t)
	b.SetViewport(ViewportMobile)

	d, _ := b.BeginDrag(id)
	d.MoveBy(40, 40)
	d.Cancel()

	l := b.State().Item("main", id).Layouts[ViewportMobile]
	assert.False(t, l.Customized, "a cancelled gesture must not leave the viewport customized")
}

func TestResize_BoundedByTypeAndCanvas(t *testing.T) {
	b := newTestBuilder(t, WithComponentType(TypeDescriptor{
		Type:        "box",
		DefaultSize: Size{Width: 10, Height: 4},
		MinSize:     Size{Width: 2, Height: 2},
		MaxSize:     Size{Width: 20, Height: 10},
	}))
	b.AddCanvas("main")
	id, _ := b.AddComponent("main", "box", Position{X: 35, Y: 0})

	r, ok := b.BeginResize(id)
	require.True(t, ok)

	r.MoveBy(100000, 100000)
	l := b.State().Item("main", id).Layouts[ViewportDesktop]
	assert.Equal(t, 15, l.Width, "width stops at the canvas edge, inside the type max")
	assert.Equal(t, 10, l.Height, "height stops at the type max")

	r.MoveBy(-100000, -100000)
	l = b.State().Item("main", id).Layouts[ViewportDesktop]
	assert.Equal(t, 2, l.Width)
	assert.Equal(t, 2, l.Height)
	r.End()
}

func TestResize_EndCommitsOneCommand(t *testing.T) {
	b, id := dragFixture(t)

	r, _ := b.BeginResize(id)
	r.MoveBy(100, 40) // +5 wide, +2 tall
	require.True(t, r.Moved())
	r.End()

	l := b.State().Item("main", id).Layouts[ViewportDesktop]
	assert.Equal(t, ItemLayout{X: 5, Y: 5, Width: 15, Height: 6}, l)

	require.True(t, b.Undo())
	l = b.State().Item("main", id).Layouts[ViewportDesktop]
	assert.Equal(t, ItemLayout{X: 5, Y: 5, Width: 10, Height: 4}, l)
}

func TestResize_UnregisteredTypeGetsUnitMinimum(t *testing.T) {
	b, id := dragFixture(t)
	// Forget the type after placement; resizing must still work.
	b.State().UpdateItem("main", id, func(it *Item) { it.Type = "legacy" })

	r, ok := b.BeginResize(id)
	require.True(t, ok)
	r.MoveBy(-100000, -100000)

	l := b.State().Item("main", id).Layouts[ViewportDesktop]
	assert.Equal(t, 1, l.Width)
	assert.Equal(t, 1, l.Height)
	r.Cancel()
}

func TestHandleItemClick_Selects(t *testing.T) {
	b, id := dragFixture(t)

	var events []Event
	b.On(EventSelectionChanged, func(ev Event) { events = append(events, ev) })

	b.HandleItemClick(id, "item-content", false)

	assert.Equal(t, id, b.State().SelectedItemID)
	assert.Equal(t, "main", b.State().SelectedCanvasID)
	assert.Equal(t, "main", b.State().ActiveCanvasID)
	assert.Len(t, events, 1)
}

func TestHandleItemClick_IgnoresChromeAndDragReleases(t *testing.T) {
	b, id := dragFixture(t)

	for _, class := range []string{"drag-handle", "resize-handle", "delete-button", "reorder-button", "config-button"} {
		b.HandleItemClick(id, class, false)
		assert.Empty(t, b.State().SelectedItemID, "click on %s must not select", class)
	}

	b.HandleItemClick(id, "item-content", true)
	assert.Empty(t, b.State().SelectedItemID, "a release that ended a drag must not select")

	b.HandleItemClick("ghost", "item-content", false)
	assert.Empty(t, b.State().SelectedItemID)
}

func TestHandleCanvasClick_ActivatesAndClears(t *testing.T) {
	b, id := dragFixture(t)
	b.AddCanvas("sidebar")
	b.HandleItemClick(id, "item-content", false)

	notifications := 0
	b.State().Subscribe(func() { notifications++ })

	b.HandleCanvasClick("sidebar")

	assert.Equal(t, "sidebar", b.State().ActiveCanvasID)
	assert.Empty(t, b.State().SelectedItemID)
	assert.Equal(t, 1, notifications, "activation and deselection are one visible transition")

	b.HandleCanvasClick("ghost")
	assert.Equal(t, "sidebar", b.State().ActiveCanvasID)
}
