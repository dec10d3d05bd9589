package thesaurus

const (
	skosNS = "http://www.w3.org/2004/02/skos/core#"
	rdfNS  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	xmlNS  = "http://www.w3.org/XML/1998/namespace"

	predType       = rdfNS + "type"
	predPrefLabel  = skosNS + "prefLabel"
	predAltLabel   = skosNS + "altLabel"
	predDefinition = skosNS + "definition"
	predBroader    = skosNS + "broader"
	predNarrower   = skosNS + "narrower"
	predRelated    = skosNS + "related"
	predMember     = skosNS + "member"

	typeConceptURI    = skosNS + "Concept"
	typeCollectionURI = skosNS + "Collection"

	ConceptTypeConcept    = "concept"
	ConceptTypeCollection = "collection"
)

// Object is the object of an RDF triple: either a reference to another
// resource or a language-tagged literal.
type Object struct {
	IsResource bool
	Value      string
	Lang       string
}

type Triple struct {
	Predicate string
	Object    Object
}

// TripleBag maps each subject URI to the triples asserted about it, in
// source document order.
type TripleBag map[string][]Triple

// Concept is one normalized thesaurus entry. Edge lists hold concept ids,
// deduplicated and sorted ascending so regenerated output is diffable.
type Concept struct {
	ID           string              `json:"id"`
	URI          string              `json:"uri"`
	Type         string              `json:"type"`
	Labels       map[string]string   `json:"labels"`
	AltLabels    map[string][]string `json:"altLabels,omitempty"`
	Definitions  map[string]string   `json:"definitions,omitempty"`
	Broader      []string            `json:"broader"`
	Narrower     []string            `json:"narrower"`
	Related      []string            `json:"related"`
	Members      []string            `json:"members,omitempty"`
	Translations map[string]string   `json:"translations"`
}

// KeywordIndexEntry is the denormalized projection of a Concept used by the
// browser-side search box.
type KeywordIndexEntry struct {
	ID           string   `json:"id"`
	PrimaryLabel string   `json:"primaryLabel"`
	Languages    []string `json:"languages"`
}

// Report accumulates the non-fatal data-quality findings of a run. None of
// these abort the transform.
type Report struct {
	Concepts               int `json:"concepts"`
	Collections            int `json:"collections"`
	DroppedEdges           int `json:"droppedEdges"`
	DuplicateLabels        int `json:"duplicateLabels"`
	WithoutTranslations    int `json:"withoutTranslations"`
	WithoutRelationships   int `json:"withoutRelationships"`
	ExcludedNoLabels       int `json:"excludedNoLabels"`
	UnrecognizedPredicates int `json:"unrecognizedPredicates"`
}
