package models

type DatabaseSchemaType int

const (
	DATABASE_SCHEMA_TYPE_ADAUDIT DatabaseSchemaType = iota
)

type DatabaseSchema struct {
	SchemaType DatabaseSchemaType
	Schema     string
}

var DATABASE_ADAUDIT_SCHEMA = DatabaseSchema{
	SchemaType: DATABASE_SCHEMA_TYPE_ADAUDIT,
	Schema:     "adaudit",
}
