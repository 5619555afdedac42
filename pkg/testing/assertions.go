package testing

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/ohler55/ojg/jp"

	"github.com/getmockd/mockfactory/pkg/db"
)

// AssertCount asserts that collection holds n records.
func (f *Fixtures) AssertCount(t testing.TB, collection string, n int) {
	t.Helper()

	if got := f.collectionLen(collection); got != n {
		t.Errorf("collection %q has %d records, expected %d", collection, got, n)
	}
}

// AssertExists asserts that a record matching query exists in collection and
// returns the first match.
func (f *Fixtures) AssertExists(t testing.TB, collection string, query map[string]any) db.Record {
	t.Helper()

	if !f.DB().HasCollection(collection) {
		t.Errorf("collection %q does not exist", collection)
		return nil
	}
	rec, ok := f.DB().Collection(collection).FindBy(query)
	if !ok {
		t.Errorf("no record in %q matches %v", collection, query)
		return nil
	}
	return rec
}

// AssertNotExists asserts that no record in collection matches query.
func (f *Fixtures) AssertNotExists(t testing.TB, collection string, query map[string]any) {
	t.Helper()

	if !f.DB().HasCollection(collection) {
		return
	}
	if matches := f.DB().Collection(collection).Where(query); len(matches) > 0 {
		t.Errorf("%d records in %q match %v, expected none", len(matches), collection, query)
	}
}

// AssertBelongsTo asserts that rec, a record of typeName, points at an
// existing related record through the belongs-to attribute attr, and
// returns that record.
func (f *Fixtures) AssertBelongsTo(t testing.TB, typeName string, rec db.Record, attr string) db.Record {
	t.Helper()

	schema := f.session.Schema()
	assoc, ok := schema.AssociationFor(typeName, attr)
	if !ok || !assoc.IsBelongsTo() {
		t.Errorf("%q is not a belongs-to attribute of %q", attr, typeName)
		return nil
	}
	fk, ok := rec[assoc.ForeignKey]
	if !ok {
		t.Errorf("record %s has no %q", rec.ID(), assoc.ForeignKey)
		return nil
	}
	collection := schema.ToCollectionName(assoc.Target)
	related, ok := f.DB().Collection(collection).Find(fk)
	if !ok {
		t.Errorf("%s %s: %s=%v not found in %q", typeName, rec.ID(), assoc.ForeignKey, fk, collection)
		return nil
	}
	return related
}

func (f *Fixtures) collectionLen(collection string) int {
	if !f.DB().HasCollection(collection) {
		return 0
	}
	return f.DB().Collection(collection).Len()
}

// Field extracts a value from rec with a JSONPath expression. A leading "$."
// may be omitted. Returns nil if the path is invalid or matches nothing.
func Field(rec map[string]any, path string) any {
	if !strings.HasPrefix(path, "$") {
		path = "$." + path
	}
	x, err := jp.ParseString(path)
	if err != nil {
		return nil
	}
	matches := x.Get(rec)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// AssertField asserts that the field at path in rec has the expected value.
// Numbers are compared by value, so int 3 matches int64 3.
func AssertField(t testing.TB, rec map[string]any, path string, expected any) {
	t.Helper()

	actual := Field(rec, path)
	if actual == nil && expected != nil {
		t.Errorf("field %q not found in record: %v", path, rec)
		return
	}
	if reflect.DeepEqual(actual, expected) || sameNumber(actual, expected) {
		return
	}
	t.Errorf("field %q mismatch\nexpected: %v (%T)\nactual: %v (%T)",
		path, expected, expected, actual, actual)
}

// AssertJSON asserts that rec serializes to the same JSON as expected, which
// may be a string, []byte, or any value that will be JSON encoded.
func AssertJSON(t testing.TB, rec map[string]any, expected any) {
	t.Helper()

	var want any
	switch v := expected.(type) {
	case string:
		if err := json.Unmarshal([]byte(v), &want); err != nil {
			t.Errorf("failed to parse expected JSON: %v", err)
			return
		}
	case []byte:
		if err := json.Unmarshal(v, &want); err != nil {
			t.Errorf("failed to parse expected JSON: %v", err)
			return
		}
	default:
		if err := normalizeJSON(v, &want); err != nil {
			t.Errorf("failed to marshal expected value: %v", err)
			return
		}
	}

	var got any
	if err := normalizeJSON(rec, &got); err != nil {
		t.Errorf("record is not JSON-compatible: %v", err)
		return
	}

	if !reflect.DeepEqual(got, want) {
		wantBytes, _ := json.MarshalIndent(want, "", "  ")
		gotBytes, _ := json.MarshalIndent(got, "", "  ")
		t.Errorf("record does not match expected JSON\nexpected:\n%s\nactual:\n%s",
			string(wantBytes), string(gotBytes))
	}
}

func normalizeJSON(v any, out *any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func sameNumber(a, b any) bool {
	fa, okA := toFloat(a)
	fb, okB := toFloat(b)
	return okA && okB && fa == fb
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return reflect.ValueOf(n).Convert(reflect.TypeOf(float64(0))).Float(), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
