package interfaces

import "io"

// FileManager stores message attachments in external object storage and
// returns the public URL referenced from the message record.
type FileManager interface {
	UploadFile(fileName string, file io.Reader, fileSize int64, contentType string, bucketName string) (string, error)
}
