package xmlapi

import (
	"encoding/xml"
	"fmt"
	"io"

	"bggclient/internal/assert"
	"bggclient/internal/components/telemetry"
)

const report_record_coerce = "record.coerce"

// Parser turns xml api documents into records. It holds no per-document
// state, every call gets its own, so one Parser can be shared freely.
type Parser struct {
	tel telemetry.API
}

func NewParser(tel telemetry.API) Parser {
	assert.NotNil(tel, "telemetry")
	return Parser{tel: telemetry.NewScopedAPI("bgg_xmlapi", tel)}
}

func (p Parser) newCoercer() coercer {
	return coercer{
		report: func(tag, attr, raw string) {
			p.tel.ReportWarning(
				report_record_coerce,
				fmt.Errorf("could not coerce %q to a number", raw),
				tag,
				attr,
			)
		},
	}
}

// BoardGame parses a document of the v1 xml api (<boardgames><boardgame objectid="...">).
func (p Parser) BoardGame(r io.Reader) (BoardGame, error) {
	s, err := p.parseRecord(r, boardGameVocabulary)
	if err != nil {
		return BoardGame{}, err
	}
	return BoardGame{Record: s.record}, nil
}

// Thing parses a document of the v2 thing endpoint (<items><item id="..." type="...">).
func (p Parser) Thing(r io.Reader) (Thing, error) {
	s, err := p.parseRecord(r, thingVocabulary)
	if err != nil {
		return Thing{}, err
	}
	return Thing{Record: s.record, Type: s.kind}, nil
}

func (p Parser) parseRecord(r io.Reader, v vocabulary) (*recordState, error) {
	s := &recordState{vocabulary: v, coerce: p.newCoercer()}
	if err := decode(r, s); err != nil {
		return nil, err
	}
	s.record.scrub()
	return s, nil
}

// textCapture routes the text of one specific element to a field regardless
// of the text rules for its tag name.
type textCapture struct {
	depth int
	// text holds every run seen so far, runs split by nested elements are
	// joined.
	text  string
	apply func(s *recordState, text string)
}

// recordState is the state of a single record parse.
type recordState struct {
	vocabulary vocabulary
	coerce     coercer
	stack      contextStack
	capture    *textCapture

	record Record
	kind   string
}

// captureText routes the text of the innermost open element to apply. The
// capture ends when that element is closed, text of nested elements is
// dispatched normally.
func (s *recordState) captureText(apply func(s *recordState, text string)) {
	s.capture = &textCapture{depth: s.stack.depth(), apply: apply}
}

func (s *recordState) inContext(parent string) bool {
	return parent == "" || s.stack.parentIs(parent)
}

func (s *recordState) start(el xml.StartElement) {
	s.stack.push(el.Name.Local)
	rule, ok := s.vocabulary.start[el.Name.Local]
	if !ok || !s.inContext(rule.parent) {
		return
	}
	rule.apply(s, attrs(el.Attr))
}

func (s *recordState) text(text string) {
	if s.capture != nil && s.capture.depth == s.stack.depth() {
		s.capture.text += text
		s.capture.apply(s, s.capture.text)
		return
	}
	rule, ok := s.vocabulary.text[s.stack.top()]
	if !ok || !s.inContext(rule.parent) {
		return
	}
	rule.apply(s, text)
}

func (s *recordState) end() {
	if s.capture != nil && s.capture.depth == s.stack.depth() {
		s.capture = nil
	}
	s.stack.pop()
}
