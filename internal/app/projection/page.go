// internal/app/projection/page.go
package projection

import "go.mongodb.org/mongo-driver/bson/primitive"

// PageType identifies which view a client is looking at.
type PageType int

const (
	PageHome PageType = iota
	PageSubject
	PageGrouping
)

func (t PageType) String() string {
	switch t {
	case PageHome:
		return "home"
	case PageSubject:
		return "subject"
	case PageGrouping:
		return "grouping"
	}
	return "unknown"
}

// Page is a client's current navigation position.
type Page struct {
	Type       PageType
	SubjectID  primitive.ObjectID
	GroupingID primitive.ObjectID
}

// Fallback maps a page onto the nearest surviving ancestor: a grouping
// page whose grouping was deleted falls back to its subject page, and a
// subject page whose subject was deleted falls back to home. A page whose
// entities still exist is returned unchanged.
func (p *Projection) Fallback(pg Page) Page {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch pg.Type {
	case PageGrouping:
		if p.groupingIndex(pg.GroupingID) >= 0 {
			return pg
		}
		if p.subjectIndex(pg.SubjectID) >= 0 {
			return Page{Type: PageSubject, SubjectID: pg.SubjectID}
		}
		return Page{Type: PageHome}

	case PageSubject:
		if p.subjectIndex(pg.SubjectID) >= 0 {
			return pg
		}
		return Page{Type: PageHome}
	}
	return Page{Type: PageHome}
}
