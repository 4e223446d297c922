package report

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"

	"greensupply/internal/store"
)

// SnapshotSchema returns the JSON Schema of a full store snapshot, the format of
// the seed file and of every persisted collection.
func SnapshotSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Mapper:                    mapDecimal,
	}
	schema := reflector.Reflect(&store.Snapshot{})
	schema.Title = "GreenSupply inventory snapshot"
	return json.MarshalIndent(schema, "", "  ")
}

// decimal.Decimal marshals as a quoted number.
func mapDecimal(t reflect.Type) *jsonschema.Schema {
	if t != reflect.TypeOf(decimal.Decimal{}) {
		return nil
	}
	return &jsonschema.Schema{
		Type:    "string",
		Pattern: `^-?[0-9]+(\.[0-9]+)?$`,
	}
}
