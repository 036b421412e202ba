// Package screen models the UI description produced by the describer service.
//
// A description is a tree: a Screen holds ordered Sections, and each Section
// holds ordered Elements. Elements are the unit of identity and editing; every
// other package addresses them by id.
//
// # Lifecycle
//
// A raw description is decoded with Parse, stamped exactly once with
// AssignIDs, and from then on treated as immutable. Edits go through Update,
// which returns a fresh deep copy with one field changed:
//
//	doc, err := screen.Parse(data)
//	if err != nil {
//	    return err
//	}
//	doc = screen.AssignIDs(doc)
//
//	next := screen.Update(doc, "el-3f2a", screen.FieldLabel, "Submit")
//	// doc still holds the old label, next holds "Submit"
//
// # Lenient Decoding
//
// Upstream descriptions are machine generated and loosely shaped. Decoding
// never rejects an element: unknown keys, and known keys whose value has an
// unexpected JSON type, are kept verbatim in Element.Extra and written back on
// marshal. Unknown element kinds are kept as-is; the renderer owns the
// fallback for them.
package screen
