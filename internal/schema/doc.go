// Package schema creates the warehouse tables and seeds the dimension tables.
//
// Tables are created by embedded goose migrations whose statements all use
// IF NOT EXISTS, so Migrate is safe to run against a populated database.
// Dimension rows are upserted by key, so Seed can be repeated as well.
package schema
