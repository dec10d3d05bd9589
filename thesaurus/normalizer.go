package thesaurus

import (
	"sort"
	"strings"

	logger "github.com/Financial-Times/go-logger/v2"
	"github.com/pborman/uuid"
)

// Normalize turns the raw triple table into the concept set consumed by the
// browser-side renderer, plus the keyword search index and a report of the
// data-quality issues found on the way. Subjects are processed in sorted URI
// order so identical input always yields identical output.
func Normalize(bag TripleBag, displayLanguage string, tid string, log *logger.UPPLogger) (map[string]Concept, []KeywordIndexEntry, Report) {
	report := Report{}
	subjects := conceptSubjects(bag)

	concepts := make(map[string]*Concept, len(subjects))
	idByURI := make(map[string]string, len(subjects))
	usedIDs := make(map[string]bool, len(subjects))

	for _, uri := range subjects {
		c := &Concept{
			URI:          uri,
			Type:         ConceptTypeConcept,
			Labels:       map[string]string{},
			Broader:      []string{},
			Narrower:     []string{},
			Related:      []string{},
			Translations: map[string]string{},
		}

		for _, t := range bag[uri] {
			lang := languageOrDefault(t.Object.Lang, displayLanguage)
			switch t.Predicate {
			case predType:
				if t.Object.Value == typeCollectionURI {
					c.Type = ConceptTypeCollection
				}
			case predPrefLabel:
				if _, ok := c.Labels[lang]; ok {
					report.DuplicateLabels++
					log.WithFields(map[string]interface{}{"transaction_id": tid, "uri": uri, "language": lang}).
						Warn("Duplicate preferred label for language; keeping the first one seen")
					continue
				}
				c.Labels[lang] = t.Object.Value
			case predAltLabel:
				if c.AltLabels == nil {
					c.AltLabels = map[string][]string{}
				}
				c.AltLabels[lang] = append(c.AltLabels[lang], t.Object.Value)
			case predDefinition:
				if _, ok := c.Definitions[lang]; !ok {
					if c.Definitions == nil {
						c.Definitions = map[string]string{}
					}
					c.Definitions[lang] = t.Object.Value
				}
			case predBroader, predNarrower, predRelated, predMember:
				// resolved in the edge pass, once all ids are known
			default:
				report.UnrecognizedPredicates++
			}
		}

		if len(c.Labels) == 0 {
			report.ExcludedNoLabels++
			log.WithFields(map[string]interface{}{"transaction_id": tid, "uri": uri}).
				Warn("Concept has no labels at all; excluding it from output")
			continue
		}

		for lang := range c.AltLabels {
			c.AltLabels[lang] = dedupeAndSort(c.AltLabels[lang])
		}

		c.ID = assignID(uri, usedIDs, tid, log)
		usedIDs[c.ID] = true
		idByURI[uri] = c.ID
		concepts[uri] = c
	}

	for _, uri := range subjects {
		c, ok := concepts[uri]
		if !ok {
			continue
		}

		for _, t := range bag[uri] {
			var edges *[]string
			switch t.Predicate {
			case predBroader:
				edges = &c.Broader
			case predNarrower:
				edges = &c.Narrower
			case predRelated:
				edges = &c.Related
			case predMember:
				edges = &c.Members
			default:
				continue
			}
			target, ok := idByURI[t.Object.Value]
			if !ok {
				report.DroppedEdges++
				log.WithFields(map[string]interface{}{"transaction_id": tid, "uri": uri, "target": t.Object.Value}).
					Warn("Dropping edge to a concept absent from the source document")
				continue
			}
			*edges = appendUnique(*edges, target)
		}

		sort.Strings(c.Broader)
		sort.Strings(c.Narrower)
		sort.Strings(c.Related)
		sort.Strings(c.Members)

		for lang, label := range c.Labels {
			if lang != displayLanguage {
				c.Translations[lang] = label
			}
		}

		if len(c.Translations) == 0 {
			report.WithoutTranslations++
		}
		if len(c.Broader)+len(c.Narrower)+len(c.Related)+len(c.Members) == 0 {
			report.WithoutRelationships++
		}
		if c.Type == ConceptTypeCollection {
			report.Collections++
		} else {
			report.Concepts++
		}
	}

	out := make(map[string]Concept, len(concepts))
	entries := make([]KeywordIndexEntry, 0, len(concepts))
	for _, uri := range subjects {
		c, ok := concepts[uri]
		if !ok {
			continue
		}
		out[c.ID] = *c
		entries = append(entries, KeywordIndexEntry{
			ID:           c.ID,
			PrimaryLabel: primaryLabel(*c, displayLanguage),
			Languages:    labelLanguages(*c),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	return out, entries, report
}

// conceptSubjects returns the subjects that look like thesaurus entries, in
// sorted URI order. A subject qualifies when it carries a preferred label or
// is explicitly typed as a concept or collection.
func conceptSubjects(bag TripleBag) []string {
	subjects := make([]string, 0, len(bag))
	for uri, triples := range bag {
		if isConceptSubject(triples) {
			subjects = append(subjects, uri)
		}
	}
	sort.Strings(subjects)
	return subjects
}

func isConceptSubject(triples []Triple) bool {
	for _, t := range triples {
		if t.Predicate == predPrefLabel {
			return true
		}
		if t.Predicate == predType && (t.Object.Value == typeConceptURI || t.Object.Value == typeCollectionURI) {
			return true
		}
	}
	return false
}

// assignID derives a readable id from the URI fragment or final path
// segment. When two URIs collapse to the same slug the later subject (in
// sorted URI order) falls back to an MD5-derived UUID of its full URI, which
// keeps ids unique without making output order input-dependent.
func assignID(uri string, used map[string]bool, tid string, log *logger.UPPLogger) string {
	slug := slugFromURI(uri)
	if slug != "" && !used[slug] {
		return slug
	}
	log.WithFields(map[string]interface{}{"transaction_id": tid, "uri": uri, "slug": slug}).
		Warn("Concept id slug already taken; deriving a stable UUID from the full URI")
	return uuid.NewMD5(uuid.UUID{}, []byte(uri)).String()
}

func slugFromURI(uri string) string {
	trimmed := strings.TrimRight(uri, "#/")
	if i := strings.LastIndexAny(trimmed, "#/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

func primaryLabel(c Concept, displayLanguage string) string {
	if label, ok := c.Labels[displayLanguage]; ok {
		return label
	}
	return c.Labels[labelLanguages(c)[0]]
}

func labelLanguages(c Concept) []string {
	languages := make([]string, 0, len(c.Labels))
	for lang := range c.Labels {
		languages = append(languages, lang)
	}
	sort.Strings(languages)
	return languages
}

func languageOrDefault(lang string, fallback string) string {
	if lang == "" {
		return fallback
	}
	return lang
}

func appendUnique(edges []string, target string) []string {
	for _, existing := range edges {
		if existing == target {
			return edges
		}
	}
	return append(edges, target)
}

func dedupeAndSort(values []string) []string {
	unique := make([]string, 0, len(values))
	for _, v := range values {
		unique = appendUnique(unique, v)
	}
	sort.Strings(unique)
	return unique
}
