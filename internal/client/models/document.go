package models

import (
	"path/filepath"
	"strings"
)

// Document is a file attached to an application, usually a CV.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
}

// documentTypes maps the accepted file extensions to their content types.
var documentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// DocumentContentType returns the content type for name, and false when the
// extension is not accepted.
func DocumentContentType(name string) (string, bool) {
	ct, ok := documentTypes[strings.ToLower(filepath.Ext(name))]
	return ct, ok
}
