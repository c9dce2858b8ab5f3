package xmlapi

import (
	"encoding/xml"
	"io"
	"time"
)

// LastModifiedLayout is the format of the lastmodified attribute of <status>.
const LastModifiedLayout = "2006-01-02 15:04:05"

// CollectionItem is one entry of a user's collection. Statuses holds every
// numeric attribute of the item's <status> element (own, prevowned, fortrade,
// want, wishlist, ...), names it does not know are kept as is.
type CollectionItem struct {
	ID           int64
	Statuses     map[string]int64
	LastModified time.Time
}

func (i CollectionItem) IsOwned() bool {
	return i.Statuses["own"] > 0
}

type Collection struct {
	Items []CollectionItem
}

// Owned returns the owned items, in document order.
func (c Collection) Owned() []CollectionItem {
	var owned []CollectionItem
	for _, item := range c.Items {
		if item.IsOwned() {
			owned = append(owned, item)
		}
	}
	return owned
}

// Collection parses a document of the v2 collection endpoint
// (<items><item objectid="..."><status own="1" .../></item></items>).
func (p Parser) Collection(r io.Reader) (Collection, error) {
	s := &collectionState{coerce: p.newCoercer(), current: -1}
	if err := decode(r, s); err != nil {
		return Collection{}, err
	}
	return s.collection, nil
}

type collectionState struct {
	coerce     coercer
	collection Collection
	// current is the index of the open item, -1 while inside an item without
	// a usable id so that its statuses are not merged into the previous one.
	current int
}

func (s *collectionState) start(el xml.StartElement) {
	switch el.Name.Local {
	case "item":
		s.current = -1
		id, ok := s.coerce.int64Value("item", attrs(el.Attr), "objectid")
		if !ok {
			return
		}
		s.collection.Items = append(s.collection.Items, CollectionItem{
			ID:       id,
			Statuses: map[string]int64{},
		})
		s.current = len(s.collection.Items) - 1
	case "status":
		if s.current < 0 {
			return
		}
		s.mergeStatus(&s.collection.Items[s.current], attrs(el.Attr))
	}
}

func (s *collectionState) mergeStatus(item *CollectionItem, a attrs) {
	for _, attr := range a {
		name := attr.Name.Local
		if name == "lastmodified" {
			modified, err := time.Parse(LastModifiedLayout, attr.Value)
			if err != nil {
				s.coerce.report("status", name, attr.Value)
				continue
			}
			item.LastModified = modified
			continue
		}
		value, ok := parseLeadingInt(attr.Value, 64)
		if !ok {
			s.coerce.report("status", name, attr.Value)
			continue
		}
		item.Statuses[name] = value
	}
}

func (s *collectionState) text(string) {}

func (s *collectionState) end() {}
