// Package database provides the shared GORM handle, the pagination helper
// and the store error taxonomy. Entity-specific repositories live in
// subpackages (users, families, books, streaming, activities, goals).
package database
