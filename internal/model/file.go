package model

import "time"

// File is an uploaded file, currently only used for user avatars.
// Name keeps the original filename for display; Path is the unique
// name the bytes were stored under inside the uploads directory.
type File struct {
	ID        uint64    // files.id
	Name      string    // files.name
	Path      string    // files.path
	CreatedAt time.Time // files.created_at
}
