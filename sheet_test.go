package relrect

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSheetDoc = `items:
  - name: sidebar
    rect: "0, 0, 200, 600"
  - name: panel
    rect: "sidebar.right + 10, 0, sidebar.right + 310, 600"
  - name: footer
    rect: "0, panel.bottom - 40, 510, panel.bottom"
`

func TestLoadSheet(t *testing.T) {
	sheet, err := LoadSheet(strings.NewReader(testSheetDoc))
	require.NoError(t, err)

	want := map[string]Rect{
		"sidebar": NewRect(0, 0, 200, 600),
		"panel":   NewRect(210, 0, 300, 600),
		"footer":  NewRect(0, 560, 510, 40),
	}
	got := map[string]Rect{}
	for _, item := range sheet.Items() {
		got[item.Name()] = item.Bounds()
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("resolved bounds mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSheet_Errors(t *testing.T) {
	tests := map[string]string{
		"bad yaml":      "items: [",
		"bad rect text": "items:\n  - name: a\n    rect: \"10, 20\"",
		"duplicate":     "items:\n  - name: a\n    rect: \"0, 0, 1, 1\"\n  - name: a\n    rect: \"0, 0, 1, 1\"",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSheet(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestSheet_SaveRoundTrip(t *testing.T) {
	sheet, err := LoadSheet(strings.NewReader(testSheetDoc))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, sheet.Save(&buf))

	reloaded, err := LoadSheet(&buf)
	require.NoError(t, err)

	require.Len(t, reloaded.Items(), len(sheet.Items()))
	for i, item := range sheet.Items() {
		other := reloaded.Items()[i]
		assert.Equal(t, item.Name(), other.Name())
		assert.True(t, item.Rectangle().Equal(other.Rectangle()),
			"item %s: %q != %q", item.Name(), item.Rectangle(), other.Rectangle())
		assert.Equal(t, item.Bounds(), other.Bounds())
	}
}

func TestSheet_AnonymousItemsGetUniqueNames(t *testing.T) {
	sheet := NewSheet()

	rect, err := ParseRectangle("0, 0, 10, 10")
	require.NoError(t, err)
	a, err := sheet.Add("", rect)
	require.NoError(t, err)
	b, err := sheet.Add("", rect)
	require.NoError(t, err)

	assert.NotEmpty(t, a.Name())
	assert.NotEmpty(t, b.Name())
	assert.NotEqual(t, a.Name(), b.Name())
}

func TestSheet_AddDuplicateFails(t *testing.T) {
	sheet := NewSheet()
	addItem(t, sheet, "box", "0, 0, 10, 10")

	rect, err := ParseRectangle("0, 0, 10, 10")
	require.NoError(t, err)
	_, err = sheet.Add("box", rect)
	assert.Error(t, err)
}

func TestSheet_Rename(t *testing.T) {
	sheet, err := LoadSheet(strings.NewReader(testSheetDoc))
	require.NoError(t, err)

	require.NoError(t, sheet.Rename("sidebar", "nav"))

	_, ok := sheet.Item("sidebar")
	assert.False(t, ok)
	nav, ok := sheet.Item("nav")
	require.True(t, ok)
	assert.Equal(t, NewRect(0, 0, 200, 600), nav.Bounds())

	panel, ok := sheet.Item("panel")
	require.True(t, ok)
	assert.Equal(t, "nav.right + 10, 0, nav.right + 310, 600", panel.Rectangle().String(),
		"references must follow the rename")

	// The rewritten reference is still live.
	require.NoError(t, nav.MoveTo(NewRect(0, 0, 250, 600)))
	assert.Equal(t, NewRect(260, 0, 300, 600), panel.Bounds())
}

func TestSheet_RenameItemNamedLikeAttribute(t *testing.T) {
	sheet := NewSheet()
	addItem(t, sheet, "left", "0, 0, 40, 40")
	// The box's first edge references the item "left"; the bare "left" in its
	// third edge is the box's own left attribute.
	box := addItem(t, sheet, "box", "left.right + 10, 0, left + 100, 30")
	require.Equal(t, NewRect(50, 0, 100, 30), box.Bounds())

	require.NoError(t, sheet.Rename("left", "nav"))

	assert.Equal(t, "nav.right + 10, 0, left + 100, 30", box.Rectangle().String(),
		"qualified references follow the rename, own attributes must not")
	assert.Equal(t, NewRect(50, 0, 100, 30), box.Bounds())

	// The retargeted reference is still live.
	nav, ok := sheet.Item("nav")
	require.True(t, ok)
	require.NoError(t, nav.MoveTo(NewRect(0, 0, 60, 40)))
	assert.Equal(t, NewRect(70, 0, 100, 30), box.Bounds())
}

func TestSheet_RemoveBreaksReferences(t *testing.T) {
	sheet, err := LoadSheet(strings.NewReader(testSheetDoc))
	require.NoError(t, err)

	sheet.Remove("sidebar")
	_, ok := sheet.Item("sidebar")
	require.False(t, ok)

	panel, ok := sheet.Item("panel")
	require.True(t, ok)
	assert.Error(t, panel.Positioner().Apply(), "dangling reference must fail resolution")
}

func TestSheet_ScopeEvaluatesQualifiedNames(t *testing.T) {
	sheet, err := LoadSheet(strings.NewReader(testSheetDoc))
	require.NoError(t, err)

	c, err := ParseCoordinate("panel.right - sidebar.left + 5")
	require.NoError(t, err)

	got, err := c.Resolve(sheet.Scope())
	require.NoError(t, err)
	assert.Equal(t, 515.0, got)
}

func TestSheet_ScopeRejectsBareSymbols(t *testing.T) {
	sheet, err := LoadSheet(strings.NewReader(testSheetDoc))
	require.NoError(t, err)

	c, err := ParseCoordinate("right + 5")
	require.NoError(t, err)

	_, err = c.Resolve(sheet.Scope())
	assert.Error(t, err, "bare attributes have no meaning at sheet scope")
}
