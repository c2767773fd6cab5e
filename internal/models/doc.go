// Package models defines the data model for the favorites ranking service.
//
// Persisted entities (Artist, Track, FavoriteEntry) implement the Model
// interface and are stored through implementations of Repository[T].
// Wire-level DTOs (FavoriteItem, RankedEntry, UserFavorites) are plain
// structs shared by the HTTP layer and the CLI.
package models
