package analysis

import (
	"reflect"
	"sort"
	"strings"
	"testing"
)

// The response schema and the typed model must describe the same shape;
// otherwise the backend is constrained to one contract and the decoder
// expects another.
func TestResponseSchemaMatchesModel(t *testing.T) {
	schema := ResponseSchema()
	assertSchemaMatchesStruct(t, "", schema, reflect.TypeOf(MediaAnalysis{}))
}

func assertSchemaMatchesStruct(t *testing.T, path string, schema Schema, typ reflect.Type) {
	t.Helper()

	if schema.Type != "OBJECT" {
		t.Fatalf("%s: expected OBJECT schema, got %q", pathOrRoot(path), schema.Type)
	}

	tags := map[string]reflect.Type{}
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := strings.Split(field.Tag.Get("json"), ",")[0]
		if tag == "" || tag == "-" {
			t.Fatalf("%s: field %s has no json tag", pathOrRoot(path), field.Name)
		}
		tags[tag] = field.Type
	}

	for name := range schema.Properties {
		if _, ok := tags[name]; !ok {
			t.Errorf("%s: schema property %q has no struct field", pathOrRoot(path), name)
		}
	}
	for tag := range tags {
		if _, ok := schema.Properties[tag]; !ok {
			t.Errorf("%s: struct field %q missing from schema", pathOrRoot(path), tag)
		}
	}

	// All fields are mandatory in the contract.
	wantRequired := make([]string, 0, len(tags))
	for tag := range tags {
		wantRequired = append(wantRequired, tag)
	}
	sort.Strings(wantRequired)
	gotRequired := append([]string(nil), schema.Required...)
	sort.Strings(gotRequired)
	if !reflect.DeepEqual(wantRequired, gotRequired) {
		t.Errorf("%s: required mismatch: schema %v, struct %v", pathOrRoot(path), gotRequired, wantRequired)
	}

	for name, prop := range schema.Properties {
		fieldType, ok := tags[name]
		if !ok {
			continue
		}
		childPath := name
		if path != "" {
			childPath = path + "." + name
		}
		switch prop.Type {
		case "OBJECT":
			assertSchemaMatchesStruct(t, childPath, prop, fieldType)
		case "ARRAY":
			if fieldType.Kind() != reflect.Slice {
				t.Errorf("%s: schema says ARRAY but field is %s", childPath, fieldType.Kind())
				continue
			}
			if prop.Items == nil {
				t.Errorf("%s: ARRAY schema missing items", childPath)
				continue
			}
			if prop.Items.Type == "OBJECT" {
				assertSchemaMatchesStruct(t, childPath+"[]", *prop.Items, fieldType.Elem())
			}
		case "STRING":
			if fieldType.Kind() != reflect.String {
				t.Errorf("%s: schema says STRING but field is %s", childPath, fieldType.Kind())
			}
		default:
			t.Errorf("%s: unexpected schema type %q", childPath, prop.Type)
		}
	}
}

func pathOrRoot(path string) string {
	if path == "" {
		return "root"
	}
	return path
}

func TestResponseSchemaEmbedsAgeRoundingRule(t *testing.T) {
	schema := ResponseSchema()
	age := schema.Properties["ratings"].Properties["suggestedAge"]
	if !strings.Contains(age.Description, "16 or 17") || !strings.Contains(age.Description, "'18+'") {
		t.Fatalf("suggestedAge description must carry the 16/17 rounding rule, got %q", age.Description)
	}
}

func TestResponseSchemaSeverityEnumIsClosed(t *testing.T) {
	schema := ResponseSchema()
	severity := schema.Properties["contentWarnings"].Items.Properties["severity"]
	want := []string{"Low", "Medium", "High", "Extreme"}
	if !reflect.DeepEqual(severity.Enum, want) {
		t.Fatalf("severity enum = %v, want %v", severity.Enum, want)
	}
}
