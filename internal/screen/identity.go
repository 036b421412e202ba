package screen

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// idPrefix marks ids stamped by the assigner.
const idPrefix = "el-"

// NewID returns a random alphanumeric element id.
func NewID() string {
	u := uuid.New()
	return idPrefix + hex.EncodeToString(u[:6])
}

// Assigner stamps ids onto elements that lack one.
type Assigner struct {
	// NewID generates candidate ids. Defaults to the package NewID.
	NewID func() string
}

// Assign returns a copy of doc in which every element has a non-empty id that
// is unique within the document. Existing ids are kept; a later element that
// repeats an id already seen is re-stamped. doc itself is not modified.
//
// Assign is meant to run once per ingested description.
func (a Assigner) Assign(doc *Screen) *Screen {
	if doc == nil {
		return nil
	}
	gen := a.NewID
	if gen == nil {
		gen = NewID
	}

	out := doc.Clone()
	seen := make(map[string]bool)

	// Reserve every pre-existing id first so a generated id can never take
	// one that appears later in the document.
	for _, section := range out.Sections {
		for _, el := range section.Elements {
			if el.ID != "" {
				seen[el.ID] = false
			}
		}
	}

	for si := range out.Sections {
		elements := out.Sections[si].Elements
		for ei := range elements {
			id := elements[ei].ID
			if id != "" && !seen[id] {
				seen[id] = true
				continue
			}
			for {
				candidate := gen()
				if _, taken := seen[candidate]; candidate != "" && !taken {
					id = candidate
					break
				}
			}
			seen[id] = true
			elements[ei].ID = id
		}
	}
	return out
}

// AssignIDs stamps ids using the default generator.
func AssignIDs(doc *Screen) *Screen {
	return Assigner{}.Assign(doc)
}
