package xmlapi

// startRule handles the attributes of an element that was just opened.
type startRule struct {
	// parent, when set, is the element the tag has to be directly nested in
	// for the rule to apply. The tag is ignored anywhere else.
	parent string
	apply  func(s *recordState, a attrs)
}

// textRule handles the text content of the innermost open element.
type textRule struct {
	parent string
	apply  func(s *recordState, text string)
}

// vocabulary maps local tag names to what they mean for a record.
type vocabulary struct {
	start map[string]startRule
	text  map[string]textRule
}

// with returns a copy of v where every rule in overrides replaces the rule of
// the same tag.
func (v vocabulary) with(overrides vocabulary) vocabulary {
	out := vocabulary{
		start: make(map[string]startRule, len(v.start)+len(overrides.start)),
		text:  make(map[string]textRule, len(v.text)+len(overrides.text)),
	}
	for tag, rule := range v.start {
		out.start[tag] = rule
	}
	for tag, rule := range overrides.start {
		out.start[tag] = rule
	}
	for tag, rule := range v.text {
		out.text[tag] = rule
	}
	for tag, rule := range overrides.text {
		out.text[tag] = rule
	}
	return out
}

func intValue(parent string, field func(r *Record) *int) startRule {
	return startRule{
		parent: parent,
		apply: func(s *recordState, a attrs) {
			s.coerce.intAttr(s.stack.top(), a, "value", field(&s.record))
		},
	}
}

func floatValue(parent string, field func(r *Record) *float64) startRule {
	return startRule{
		parent: parent,
		apply: func(s *recordState, a attrs) {
			s.coerce.floatAttr(s.stack.top(), a, "value", field(&s.record))
		},
	}
}

func intText(parent string, field func(r *Record) *int) textRule {
	return textRule{
		parent: parent,
		apply: func(s *recordState, text string) {
			s.coerce.intText(s.stack.top(), text, field(&s.record))
		},
	}
}

func floatText(parent string, field func(r *Record) *float64) textRule {
	return textRule{
		parent: parent,
		apply: func(s *recordState, text string) {
			s.coerce.floatText(s.stack.top(), text, field(&s.record))
		},
	}
}

func stringText(field func(r *Record) *string) textRule {
	return textRule{
		apply: func(s *recordState, text string) {
			*field(&s.record) = text
		},
	}
}

func primaryNameValue(s *recordState, a attrs) {
	if !a.is("type", "primary") {
		return
	}
	if value, ok := a.str("value"); ok {
		s.record.PrimaryName = value
	}
}

func appendLink(s *recordState, a attrs) {
	link := Link{}
	s.coerce.int64Attr(s.stack.top(), a, "id", &link.ID)
	link.Type, _ = a.str("type")
	link.Value, _ = a.str("value")
	s.record.Links = append(s.record.Links, link)
}

// commonVocabulary is understood by every record shape.
var commonVocabulary = vocabulary{
	start: map[string]startRule{
		"name":          {apply: primaryNameValue},
		"link":          {apply: appendLink},
		"yearpublished": intValue("", func(r *Record) *int { return &r.YearPublished }),
		"minplayers":    intValue("", func(r *Record) *int { return &r.Players.Min }),
		"maxplayers":    intValue("", func(r *Record) *int { return &r.Players.Max }),
		"minplaytime":   intValue("", func(r *Record) *int { return &r.Playtime.Min }),
		"maxplaytime":   intValue("", func(r *Record) *int { return &r.Playtime.Max }),
		"minage":        intValue("", func(r *Record) *int { return &r.MinAge }),

		"usersrated":    intValue("ratings", func(r *Record) *int { return &r.UsersRated }),
		"average":       floatValue("ratings", func(r *Record) *float64 { return &r.Rating }),
		"averageweight": floatValue("ratings", func(r *Record) *float64 { return &r.Weight }),
		"owned":         intValue("ratings", func(r *Record) *int { return &r.Owners }),
		"trading":       intValue("ratings", func(r *Record) *int { return &r.Trading }),
		"wanting":       intValue("ratings", func(r *Record) *int { return &r.Wanting }),
		"wishing":       intValue("ratings", func(r *Record) *int { return &r.Wishing }),
		"numcomments":   intValue("ratings", func(r *Record) *int { return &r.NumComments }),
		"numweights":    intValue("ratings", func(r *Record) *int { return &r.NumWeights }),
	},
	text: map[string]textRule{
		"description": stringText(func(r *Record) *string { return &r.Description }),
		"image":       stringText(func(r *Record) *string { return &r.ImageURL }),
		"thumbnail":   stringText(func(r *Record) *string { return &r.ThumbnailURL }),
	},
}

// legacyLinkTags are the elements the v1 xml api uses for links, the
// tag name is the link type and the text is its value.
var legacyLinkTags = []string{
	"boardgameaccessory",
	"boardgameartist",
	"boardgamecategory",
	"boardgamecompilation",
	"boardgamedesigner",
	"boardgameexpansion",
	"boardgamefamily",
	"boardgamehonor",
	"boardgameimplementation",
	"boardgameintegration",
	"boardgamemechanic",
	"boardgamepublisher",
	"boardgamesubdomain",
	"boardgameversion",
}

func legacyLinkStart(s *recordState, a attrs) {
	link := Link{Type: s.stack.top()}
	s.coerce.int64Attr(link.Type, a, "objectid", &link.ID)
	s.record.Links = append(s.record.Links, link)
}

func legacyLinkText(s *recordState, text string) {
	links := s.record.Links
	if len(links) == 0 || links[len(links)-1].Type != s.stack.top() {
		return
	}
	links[len(links)-1].Value = text
}

var boardGameVocabulary = commonVocabulary.with(func() vocabulary {
	v := vocabulary{
		start: map[string]startRule{
			"boardgame": {apply: func(s *recordState, a attrs) {
				s.coerce.int64Attr("boardgame", a, "objectid", &s.record.ID)
			}},
			"name": {apply: func(s *recordState, a attrs) {
				primaryNameValue(s, a)
				if a.is("primary", "true") {
					s.captureText(func(s *recordState, text string) {
						s.record.PrimaryName = text
					})
				}
			}},
		},
		// the v1 api carries these as inner text
		text: map[string]textRule{
			"yearpublished": intText("", func(r *Record) *int { return &r.YearPublished }),
			"minplayers":    intText("", func(r *Record) *int { return &r.Players.Min }),
			"maxplayers":    intText("", func(r *Record) *int { return &r.Players.Max }),
			"minplaytime":   intText("", func(r *Record) *int { return &r.Playtime.Min }),
			"maxplaytime":   intText("", func(r *Record) *int { return &r.Playtime.Max }),
			"age":           intText("", func(r *Record) *int { return &r.MinAge }),

			"usersrated":    intText("ratings", func(r *Record) *int { return &r.UsersRated }),
			"average":       floatText("ratings", func(r *Record) *float64 { return &r.Rating }),
			"averageweight": floatText("ratings", func(r *Record) *float64 { return &r.Weight }),
			"owned":         intText("ratings", func(r *Record) *int { return &r.Owners }),
			"trading":       intText("ratings", func(r *Record) *int { return &r.Trading }),
			"wanting":       intText("ratings", func(r *Record) *int { return &r.Wanting }),
			"wishing":       intText("ratings", func(r *Record) *int { return &r.Wishing }),
			"numcomments":   intText("ratings", func(r *Record) *int { return &r.NumComments }),
			"numweights":    intText("ratings", func(r *Record) *int { return &r.NumWeights }),
		},
	}
	for _, tag := range legacyLinkTags {
		v.start[tag] = startRule{apply: legacyLinkStart}
		v.text[tag] = textRule{apply: legacyLinkText}
	}
	return v
}())

var thingVocabulary = commonVocabulary.with(vocabulary{
	start: map[string]startRule{
		"item": {apply: func(s *recordState, a attrs) {
			s.coerce.int64Attr("item", a, "id", &s.record.ID)
			if kind, ok := a.str("type"); ok {
				s.kind = kind
			}
		}},
	},
})
