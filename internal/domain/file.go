package domain

import "time"

// FileInfo is the metadata record for an uploaded blob. The signaling
// relay treats it as opaque; only the REST layer reads the fields.
type FileInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Mimetype   string    `json:"mimetype"`
	URL        string    `json:"url"`
	PublicID   string    `json:"publicId"`
	IsPublic   bool      `json:"isPublic"`
	UploadedAt time.Time `json:"uploadedAt"`
}
