package model

import "io"

// Upload is a file received with a goods donation form.
type Upload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// Attachment is a staged file ready to be attached to a notification.
type Attachment struct {
	Name string
	Path string
}
