package gridbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportFixture(t *testing.T) *Builder {
	t.Helper()
	b := newTestBuilder(t)
	b.AddCanvas("header")
	b.AddCanvas("body")
	id1, _ := b.AddComponent("header", "text", Position{X: 0, Y: 0})
	id2, _ := b.AddComponent("body", "carousel", Position{X: 10, Y: 2})
	b.UpdateConfig(id1, map[string]any{"body": "welcome"})
	b.RenameComponent(id2, "Gallery")
	b.State().SelectItem("body", id2)
	return b
}

func TestExport_SnapshotIsDetached(t *testing.T) {
	b := exportFixture(t)

	st := b.Export()
	require.Len(t, st.Canvases, 2)

	// Mutating the snapshot must not reach the live state, and vice versa.
	exported := st.Canvases[0].Items[0]
	exported.Layouts[ViewportDesktop] = ItemLayout{X: 99}
	exported.Config["body"] = "tampered"

	live := b.State().Canvases()[0].Items[0]
	assert.Equal(t, 0, live.Layouts[ViewportDesktop].X)
	assert.Equal(t, "welcome", live.Config["body"])
}

func TestExportImport_JSONRoundTrip(t *testing.T) {
	b := exportFixture(t)
	data, err := b.ExportJSON()
	require.NoError(t, err)

	restored := newTestBuilder(t)
	require.NoError(t, restored.ImportJSON(data))

	assert.Equal(t, b.Export(), restored.Export())
}

func TestImport_ClearsHistory(t *testing.T) {
	b := exportFixture(t)
	snapshot := b.Export()

	require.True(t, b.CanUndo())
	require.NoError(t, b.Import(snapshot))

	assert.False(t, b.CanUndo(), "imported state has no past")
	assert.False(t, b.CanRedo())
}

func TestImport_KeepsSubscribers(t *testing.T) {
	b := exportFixture(t)
	snapshot := b.Export()

	notifications := 0
	b.State().Subscribe(func() { notifications++ })

	require.NoError(t, b.Import(snapshot))
	assert.Positive(t, notifications, "subscribers must observe the import")

	// The subscription survives onto the replacement state.
	notifications = 0
	b.AddCanvas("extra")
	assert.Positive(t, notifications)
}

func TestImport_ValidationRejectsBadSnapshots(t *testing.T) {
	item := func(id string) ExportedItem {
		return ExportedItem{
			ID:      id,
			Type:    "text",
			Layouts: map[Viewport]ItemLayout{ViewportDesktop: {Width: 10, Height: 4}},
		}
	}

	tests := map[string]ExportedState{
		"empty canvas id": {
			Canvases: []ExportedCanvas{{ID: ""}},
		},
		"duplicate canvas id": {
			Canvases: []ExportedCanvas{{ID: "a"}, {ID: "a"}},
		},
		"empty item id": {
			Canvases: []ExportedCanvas{{ID: "a", Items: []ExportedItem{item("")}}},
		},
		"duplicate item id across canvases": {
			Canvases: []ExportedCanvas{
				{ID: "a", Items: []ExportedItem{item("x")}},
				{ID: "b", Items: []ExportedItem{item("x")}},
			},
		},
		"missing primary layout": {
			Canvases: []ExportedCanvas{{ID: "a", Items: []ExportedItem{{
				ID:      "x",
				Type:    "text",
				Layouts: map[Viewport]ItemLayout{ViewportMobile: {Width: 10, Height: 4, Customized: true}},
			}}}},
		},
	}

	for name, st := range tests {
		t.Run(name, func(t *testing.T) {
			b := exportFixture(t)
			before := b.Export()

			require.Error(t, b.Import(st))
			assert.Equal(t, before, b.Export(), "a rejected import must leave the state untouched")
			assert.True(t, b.CanUndo(), "a rejected import must leave the history intact")
		})
	}
}

func TestImportJSON_MalformedPayload(t *testing.T) {
	b := newTestBuilder(t)
	assert.Error(t, b.ImportJSON([]byte("{not json")))
}

func TestImport_CarriesUIFields(t *testing.T) {
	b := exportFixture(t)
	src := b.Export()
	src.ShowGrid = true
	src.CurrentViewport = ViewportMobile

	restored := newTestBuilder(t)
	require.NoError(t, restored.Import(src))

	s := restored.State()
	assert.Equal(t, ViewportMobile, s.CurrentViewport)
	assert.Equal(t, ViewportDesktop, s.PrimaryViewport)
	assert.True(t, s.ShowGrid)
	assert.Equal(t, src.SelectedItemID, s.SelectedItemID)
	assert.Equal(t, src.ActiveCanvasID, s.ActiveCanvasID)
}

func TestImport_ViewerInstancesMayImport(t *testing.T) {
	editor := exportFixture(t)
	data, err := editor.ExportJSON()
	require.NoError(t, err)

	viewer := newTestBuilder(t, WithViewerMode())
	require.NoError(t, viewer.ImportJSON(data))
	assert.Len(t, viewer.State().Canvases(), 2)
}

func TestNew_WithInitialState(t *testing.T) {
	src := exportFixture(t).Export()

	b := newTestBuilder(t, WithInitialState(src))
	assert.Equal(t, src, b.Export())
	assert.False(t, b.CanUndo())
}
