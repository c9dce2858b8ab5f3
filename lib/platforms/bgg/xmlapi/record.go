package xmlapi

// Link is a typed reference from a record to another entity, a category,
// mechanic, designer, expansion and so on.
type Link struct {
	ID    int64
	Type  string
	Value string
}

// Range is inclusive on both ends.
type Range struct {
	Min int
	Max int
}

// Record holds the fields shared by every catalog document. Fields that are
// absent from the document keep their zero value, an empty ThumbnailURL or
// ImageURL means the document did not carry one.
type Record struct {
	ID            int64
	PrimaryName   string
	Description   string
	YearPublished int
	ThumbnailURL  string
	ImageURL      string
	MinAge        int
	Owners        int
	Players       Range
	Playtime      Range
	Weight        float64
	Rating        float64
	UsersRated    int
	Trading       int
	Wanting       int
	Wishing       int
	NumComments   int
	NumWeights    int
	Links         []Link
}

// scrub enforces Max >= Min on both ranges.
func (r *Record) scrub() {
	if r.Players.Max < r.Players.Min {
		r.Players.Max = r.Players.Min
	}
	if r.Playtime.Max < r.Playtime.Min {
		r.Playtime.Max = r.Playtime.Min
	}
}

// BoardGame is a catalog entry as served by the v1 xml api
// (/xmlapi/boardgame/{id}).
type BoardGame struct {
	Record
}

// Thing is an entity as served by the v2 thing endpoint, Type is the kind of
// entity (boardgame, boardgameexpansion, ...).
type Thing struct {
	Record
	Type string
}
