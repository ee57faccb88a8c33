// Package database provides the GORM-backed persistence layer.
//
// The package itself only bootstraps the connection and schema; entity
// operations live in the per-entity subpackages (books, users, wishlist,
// audit), each exposing a Repository over the shared *gorm.DB.
package database
