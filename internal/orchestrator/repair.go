package orchestrator

import (
	"encoding/json"
	"errors"
	"sort"

	"github.com/jonathan/pitch-perfect/internal/llm"
	"github.com/jonathan/pitch-perfect/internal/schemas"
)

// parse turns raw model text into a result for s, backfilling and repairing
// fields from the default table. Unusable array entries are dropped, so a
// parseable array may yield no items at all.
func (s *Schema) parse(raw string) (Result, error) {
	cleaned := llm.CleanJSONBlock(raw)

	var doc interface{}
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return Result{}, &ParseError{Message: "response is not valid JSON", Raw: raw, Cause: err}
	}

	if s.Kind == KindArray {
		return s.parseArray(doc, raw)
	}
	return s.parseObject(doc, raw)
}

func (s *Schema) parseObject(doc interface{}, raw string) (Result, error) {
	record, ok := doc.(map[string]interface{})
	if !ok {
		return Result{}, &ParseError{Message: "expected a JSON object", Raw: raw}
	}

	repaired := newFieldSet()
	for _, field := range s.Required {
		if v, present := record[field]; !present || v == nil {
			def, _ := s.fieldDefault(field)
			record[field] = def
			repaired.add(field)
		}
	}

	if err := s.repairTypes(record, repaired, nil); err != nil {
		return Result{}, &ParseError{Message: "record does not match schema after repair", Raw: raw, Cause: err}
	}

	return Result{Record: record, Repaired: repaired.list(), Reason: reasonFor(repaired)}, nil
}

func (s *Schema) parseArray(doc interface{}, raw string) (Result, error) {
	entries, ok := doc.([]interface{})
	if !ok {
		entries, ok = unwrapSingleArray(doc)
		if !ok {
			return Result{}, &ParseError{Message: "expected a JSON array", Raw: raw}
		}
	}

	repaired := newFieldSet()
	items := make([]map[string]interface{}, 0, len(entries))
	dropped := 0
	for _, entry := range entries {
		item, ok := entry.(map[string]interface{})
		if !ok || !s.hasRequiredEntryFields(item) {
			dropped++
			continue
		}
		for field := range s.Defaults {
			if v, present := item[field]; !present || v == nil {
				def, _ := s.fieldDefault(field)
				item[field] = def
				if def != nil {
					repaired.add(field)
				}
			}
		}
		if err := s.repairTypes(item, repaired, s.RequiredEntryFields); err != nil {
			dropped++
			continue
		}
		items = append(items, item)
	}

	return Result{Items: items, Repaired: repaired.list(), Dropped: dropped, Reason: reasonFor(repaired)}, nil
}

func (s *Schema) hasRequiredEntryFields(item map[string]interface{}) bool {
	for _, field := range s.RequiredEntryFields {
		if v, ok := item[field]; !ok || v == nil {
			return false
		}
	}
	return true
}

// repairTypes replaces fields that fail JSON Schema validation with their
// defaults. Invalid fields listed in keep cannot be repaired and fail the record.
func (s *Schema) repairTypes(record map[string]interface{}, repaired *fieldSet, keep []string) error {
	if s.compiled == nil {
		return nil
	}
	err := s.compiled.Validate(record)
	if err == nil {
		return nil
	}

	var verr *schemas.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	for _, field := range verr.Fields() {
		if contains(keep, field) {
			return err
		}
		if def, ok := s.fieldDefault(field); ok {
			record[field] = def
		} else {
			delete(record, field)
		}
		repaired.add(field)
	}
	return s.compiled.Validate(record)
}

// unwrapSingleArray accepts {"questions": [...]} style wrappers
func unwrapSingleArray(doc interface{}) ([]interface{}, bool) {
	obj, ok := doc.(map[string]interface{})
	if !ok || len(obj) != 1 {
		return nil, false
	}
	for _, v := range obj {
		arr, ok := v.([]interface{})
		return arr, ok
	}
	return nil, false
}

func reasonFor(repaired *fieldSet) Reason {
	if repaired.len() > 0 {
		return ReasonBackfilled
	}
	return ReasonNone
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type fieldSet struct {
	seen map[string]struct{}
}

func newFieldSet() *fieldSet {
	return &fieldSet{seen: make(map[string]struct{})}
}

func (f *fieldSet) add(field string) {
	f.seen[field] = struct{}{}
}

func (f *fieldSet) len() int {
	return len(f.seen)
}

func (f *fieldSet) list() []string {
	out := make([]string, 0, len(f.seen))
	for field := range f.seen {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}
