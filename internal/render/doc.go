// Package render turns screen elements into styled terminal nodes.
//
// Rendering is a pure function of (element, theme, selected, mode). Render
// dispatches on the element kind through a table with one fallback branch,
// so every kind, including ones the table does not know, yields a Node.
//
// Compose lays a whole screen out on a canvas of a given width and records a
// hit region per element so mouse clicks can be mapped back to element ids:
//
//	canvas := render.Compose(doc, render.Options{
//	    Width:    100,
//	    Theme:    themes.MustGet("dark"),
//	    Selected: sel.ID(),
//	    Mode:     render.ModeEdit,
//	})
//	if id, ok := canvas.HitTest(x, y); ok {
//	    // select id
//	}
package render
