package generic

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// esHex24 reports whether s looks like an ObjectID in hex form.
func esHex24(s string) bool {
	if len(s) != 24 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// CoerceIDs converts identifier-shaped string values in a filter to native
// ObjectIDs so equality matches hit documents whose fields hold the native
// type. It recurses through nested maps and lists. Values already native pass
// through unchanged; id-named fields whose value is not 24-hex stay strings.
func CoerceIDs(filtro map[string]any) bson.M {
	out := make(bson.M, len(filtro))
	for clave, valor := range filtro {
		out[clave] = coerceValor(valor)
	}
	return out
}

func coerceValor(valor any) any {
	switch v := valor.(type) {
	case string:
		if esHex24(v) {
			if oid, err := primitive.ObjectIDFromHex(v); err == nil {
				return oid
			}
		}
		return v
	case map[string]any:
		return CoerceIDs(v)
	case bson.M:
		return CoerceIDs(v)
	case []any:
		coerced := make([]any, len(v))
		for i, e := range v {
			coerced[i] = coerceValor(e)
		}
		return coerced
	default:
		return valor
	}
}

// StringifyIDs walks a fetched document (or list of documents) and replaces
// every native ObjectID with its hex string, recursively over nested maps and
// lists. Identifiers are only ever exposed through the API boundary in string
// form.
func StringifyIDs(doc any) any {
	switch v := doc.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case bson.M:
		out := make(bson.M, len(v))
		for clave, valor := range v {
			out[clave] = StringifyIDs(valor)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for clave, valor := range v {
			out[clave] = StringifyIDs(valor)
		}
		return out
	case bson.A:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = StringifyIDs(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = StringifyIDs(e)
		}
		return out
	case []bson.M:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = StringifyIDs(e)
		}
		return out
	default:
		return doc
	}
}
