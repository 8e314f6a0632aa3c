package schema

import "github.com/hamba/avro/v2"

const SiteSettingsSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.settings",
	"name": "SiteSettings",
	"fields": [
		{"name": "company_name", "type": "string"},
		{"name": "phone", "type": "string"},
		{"name": "email", "type": "string"},
		{"name": "address", "type": "string"},
		{"name": "hero_title", "type": "string"},
		{"name": "hero_subtitle", "type": "string"}
	]
}`

type SiteSettingsV1 struct {
	CompanyName  string `avro:"company_name"`
	Phone        string `avro:"phone"`
	Email        string `avro:"email"`
	Address      string `avro:"address"`
	HeroTitle    string `avro:"hero_title"`
	HeroSubtitle string `avro:"hero_subtitle"`
}

func SiteSettingsV1Avro() avro.Schema {
	return mustParse(SiteSettingsSchemaTextV1)
}
