package thesaurus

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	logger "github.com/Financial-Times/go-logger/v2"
)

// LoadThesaurus reads a SKOS RDF/XML document into a raw triple table keyed
// by subject URI. It accepts the striped syntax produced by the usual
// thesaurus management tools: node elements (skos:Concept, skos:Collection,
// rdf:Description) directly under the root, property elements carrying either
// an rdf:resource reference or a language-tagged literal, and inline nested
// node elements.
func LoadThesaurus(path string, log *logger.UPPLogger) (TripleBag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open source document: %w", err)
	}
	defer f.Close()

	decoder := xml.NewDecoder(f)
	if _, err := nextStartElement(decoder); err == io.EOF {
		return nil, ErrEmptySource
	} else if err != nil {
		return nil, &ParseError{Path: path, Offset: decoder.InputOffset(), Err: err}
	}

	bag := TripleBag{}
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Path: path, Offset: decoder.InputOffset(), Err: err}
		}
		if start, ok := tok.(xml.StartElement); ok {
			if _, err := readNode(decoder, start, bag); err != nil {
				return nil, &ParseError{Path: path, Offset: decoder.InputOffset(), Err: err}
			}
		}
	}

	if !hasConceptSubjects(bag) {
		return nil, ErrEmptySource
	}

	log.Infof("Loaded %d subjects from %s", len(bag), path)
	return bag, nil
}

// readNode consumes one node element and the properties nested in it. The
// element name of a typed node contributes an rdf:type triple. Nodes without
// an rdf:about identifier are parsed but recorded nowhere.
func readNode(decoder *xml.Decoder, start xml.StartElement, bag TripleBag) (string, error) {
	subject := attrValue(start.Attr, rdfNS, "about")
	if subject != "" {
		if _, ok := bag[subject]; !ok {
			bag[subject] = []Triple{}
		}
		if nodeType := start.Name.Space + start.Name.Local; nodeType != rdfNS+"Description" {
			record(bag, subject, Triple{Predicate: predType, Object: Object{IsResource: true, Value: nodeType}})
		}
	}

	for {
		tok, err := decoder.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := readProperty(decoder, t, subject, bag); err != nil {
				return "", err
			}
		case xml.EndElement:
			return subject, nil
		}
	}
}

// readProperty consumes one property element. An inline nested node is both
// a new subject and the object of this property.
func readProperty(decoder *xml.Decoder, start xml.StartElement, subject string, bag TripleBag) error {
	predicate := start.Name.Space + start.Name.Local
	if resource := attrValue(start.Attr, rdfNS, "resource"); resource != "" {
		record(bag, subject, Triple{Predicate: predicate, Object: Object{IsResource: true, Value: resource}})
		return decoder.Skip()
	}

	lang := attrValue(start.Attr, xmlNS, "lang")
	var text strings.Builder
	for {
		tok, err := decoder.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			nested, err := readNode(decoder, t, bag)
			if err != nil {
				return err
			}
			if nested != "" {
				record(bag, subject, Triple{Predicate: predicate, Object: Object{IsResource: true, Value: nested}})
			}
		case xml.EndElement:
			if value := strings.TrimSpace(text.String()); value != "" {
				record(bag, subject, Triple{Predicate: predicate, Object: Object{Value: value, Lang: lang}})
			}
			return nil
		}
	}
}

func record(bag TripleBag, subject string, triple Triple) {
	if subject == "" {
		return
	}
	bag[subject] = append(bag[subject], triple)
}

func hasConceptSubjects(bag TripleBag) bool {
	for _, triples := range bag {
		if isConceptSubject(triples) {
			return true
		}
	}
	return false
}

func nextStartElement(decoder *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := decoder.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}

func attrValue(attrs []xml.Attr, space string, local string) string {
	for _, a := range attrs {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
