package xmlapi

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

// ErrMalformedDocument is returned when the input could not be tokenized as
// xml. It is the only error a parse can fail with.
var ErrMalformedDocument = errors.New("malformed xml document")

// eventHandler folds the token stream of one document into a result.
type eventHandler interface {
	start(el xml.StartElement)
	text(text string)
	end()
}

// decode drives h through a single forward pass over r. Adjacent character
// data (text, entities, CDATA sections) is delivered as one text event, runs
// that are only whitespace are dropped.
func decode(r io.Reader, h eventHandler) error {
	decoder := xml.NewDecoder(r)
	decoder.Entity = xml.HTMLEntity
	decoder.CharsetReader = charset.NewReaderLabel

	var pending []byte
	flush := func() {
		if len(bytes.TrimSpace(pending)) > 0 {
			h.text(string(pending))
		}
		pending = pending[:0]
	}

	sawRoot := false
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			flush()
			sawRoot = true
			h.start(t)
		case xml.EndElement:
			flush()
			h.end()
		case xml.CharData:
			pending = append(pending, t...)
		}
	}

	if !sawRoot {
		return fmt.Errorf("%w: no root element", ErrMalformedDocument)
	}
	return nil
}
