package util

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrNoExtractableText = errors.New("no extractable text found in PDF")
	ErrNoSuchAttachment  = errors.New("no such attachment")
)
