package models

// StoredImage describes an uploaded file as persisted by a storage backend.
type StoredImage struct {
	Filename  string
	Format    string
	MIME      string
	SizeBytes int64
}
