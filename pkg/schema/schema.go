// Package schema defines the Avro event schemas of the storefront and
// their Schema Registry aware serdes.
package schema

import (
	"context"
	"fmt"

	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/sr"
)

// A SchemaIdentifier resolves the registry id of a schema under subject,
// registering the schema when needed.
type SchemaIdentifier interface {
	DetermineID(ctx context.Context, subject string, avroSchemaText string) (id int, err error)
}

var _ SchemaIdentifier = SchemaCreater{}

// SchemaCreater registers schemas in a Schema Registry. Registering an
// already known schema returns its existing id.
type SchemaCreater struct {
	client *sr.Client
}

func NewSchemaCreater(client *sr.Client) SchemaCreater {
	return SchemaCreater{client}
}

func (c SchemaCreater) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (int, error) {
	const op = "SchemaCreater.DetermineID"

	ss, err := c.client.CreateSchema(ctx, subject, sr.Schema{
		Schema: avroSchemaText,
		Type:   sr.TypeAvro,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: subject %q: %w", op, subject, err)
	}
	return ss.ID, nil
}

// parse compiles text in its own cache so that schemas sharing named
// types do not collide.
func parse(text string) (avro.Schema, error) {
	return avro.ParseWithCache(text, "", &avro.SchemaCache{})
}

func mustParse(text string) avro.Schema {
	s, err := parse(text)
	if err != nil {
		panic(err)
	}
	return s
}
