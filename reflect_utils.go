package goshape

import (
	"reflect"
	"strings"
)

// shapeTag is the parsed form of a `goshape:"..."` struct tag.
type shapeTag struct {
	name string // from name=...
	skip bool   // "-"
}

func parseShapeTag(tag string) shapeTag {
	var st shapeTag
	for _, opt := range strings.Split(tag, ",") {
		switch opt = strings.TrimSpace(opt); {
		case opt == "-":
			st.skip = true
		case strings.HasPrefix(opt, "name="):
			st.name = strings.TrimPrefix(opt, "name=")
		}
	}
	return st
}

// jsonTagName returns the name part of a json tag. ok is false when the tag
// is absent or leaves the name empty (json:",omitempty").
func jsonTagName(tag string) (name string, ok bool) {
	name, _, _ = strings.Cut(tag, ",")
	return name, name != ""
}

// ResolveStructKey returns the key a struct field is registered under by
// generated code and by Keyed. A goshape name= option wins over the json
// name, which wins over the Go field name. "-" in either tag drops the field.
func ResolveStructKey(sf reflect.StructField) string {
	st := parseShapeTag(sf.Tag.Get("goshape"))
	if st.skip {
		return "-"
	}
	if st.name != "" {
		return st.name
	}
	if name, ok := jsonTagName(sf.Tag.Get("json")); ok {
		return name
	}
	return sf.Name
}
