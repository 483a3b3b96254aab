package models

import "time"

// GeneratedDocument is a rendered response document kept in the archive
// until it is uploaded to the remote file drop. The archive is append-only;
// entries are user-deletable.
type GeneratedDocument struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	ResponseType ResponseType `json:"responseType"`
	Content      string       `json:"content"`
	Size         int64        `json:"size"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// RemoteEntry is one entry listed from the remote file drop.
type RemoteEntry struct {
	Name       string    `json:"name"`
	Kind       string    `json:"kind"` // "file" or "folder"
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
}
