package database

// Regenerate the flattened schema and the sqlc query code after adding a
// migration or editing sqlc/queries.sql:
//
//   go generate ./internal/database

//go:generate sh -c "cd ../.. && go run internal/database/tools/generate_schema.go"
//go:generate sh -c "cd ../.. && sqlc generate -f internal/database/sqlc/sqlc.yaml"
