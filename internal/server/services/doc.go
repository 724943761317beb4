// Package services contains the story API's business logic: accounts and
// login tokens, favorites, and the story listing with owner-only edits.
package services
