package domain

import (
	"path"
	"strings"

	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
)

// Resource is an uploaded file held in memory until it reaches storage.
type Resource struct {
	Content     []byte
	ContentType string
	Name        string
}

// NewResource builds a Resource.
func NewResource(content []byte, contentType, name string) Resource {
	return Resource{Content: content, ContentType: strings.TrimSpace(contentType), Name: strings.TrimSpace(name)}
}

// Extension returns the file extension of Name including the dot, or "".
func (r Resource) Extension() string {
	return path.Ext(r.Name)
}

// Validate checks content and content type.
func (r Resource) Validate(h validation.Handler) {
	if len(r.Content) == 0 {
		h.Append(validation.BlankError("avatar"))
	}
	validation.RequireNotBlank(h, "contentType", r.ContentType)
}
