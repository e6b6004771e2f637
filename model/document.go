package model

// NoRevision labels the view of a document that carries no revisions
const NoRevision = "no revision"

// Document represents an annotated page: its base content plus any number of
// prediction revisions. Documents are never mutated by evaluation.
type Document struct {
	Filename  string
	Regions   []Region
	Revisions []Revision
}

// Revision is an immutable, named snapshot of a document's content
type Revision struct {
	Name    string
	Regions []Region
}

// NewDocument creates a new empty document
func NewDocument(filename string) *Document {
	return &Document{
		Filename: filename,
		Regions:  make([]Region, 0),
	}
}

// AddRegion appends a region to the base content
func (d *Document) AddRegion(r Region) {
	d.Regions = append(d.Regions, r)
}

// AddRevision appends a named snapshot
func (d *Document) AddRevision(name string, regions []Region) {
	d.Revisions = append(d.Revisions, Revision{Name: name, Regions: regions})
}

// HasRevisions reports whether the document carries prediction revisions
func (d *Document) HasRevisions() bool {
	return len(d.Revisions) > 0
}

// Base returns the document's own content as a revision labelled NoRevision
func (d *Document) Base() Revision {
	return Revision{Name: NoRevision, Regions: d.Regions}
}

// Views returns every snapshot to evaluate: all revisions in order, or the
// base content when there are none
func (d *Document) Views() []Revision {
	if !d.HasRevisions() {
		return []Revision{d.Base()}
	}
	out := make([]Revision, len(d.Revisions))
	copy(out, d.Revisions)
	return out
}

// Current returns the latest revision, or the base content when there are
// none. Ground-truth documents are read through this view.
func (d *Document) Current() Revision {
	if !d.HasRevisions() {
		return d.Base()
	}
	return d.Revisions[len(d.Revisions)-1]
}

// Tables returns the tables of this revision in order
func (r Revision) Tables() []*Table {
	return Tables(r.Regions)
}
