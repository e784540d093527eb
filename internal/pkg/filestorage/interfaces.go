package filestorage

import "mime/multipart"

// FileStorage abstracts where uploaded files end up
type FileStorage interface {
	// SaveFile stores an uploaded file under an optional subdirectory and
	// returns the path clients can use to fetch it
	SaveFile(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes a previously stored file. Deleting a missing
	// file is not an error.
	DeleteFile(filePath string) error
}
