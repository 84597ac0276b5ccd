package persist

import (
	"github.com/matzehuels/trackmap/pkg/errors"
)

// Key addresses one field layout within a project.
type Key struct {
	ProjectID string `json:"project_id"`
	FieldID   string `json:"field_id"`
}

// String returns "project/field", or just the project when no field is set.
func (k Key) String() string {
	if k.FieldID == "" {
		return k.ProjectID
	}
	return k.ProjectID + "/" + k.FieldID
}

// Validate checks that the key can address a stored field.
func (k Key) Validate() error {
	if err := errors.ValidateIdentifier("project", k.ProjectID); err != nil {
		return err
	}
	return errors.ValidateIdentifier("field", k.FieldID)
}

// validateProject checks only the project part. Saves may omit the field
// to create a new one.
func (k Key) validateProject() error {
	if err := errors.ValidateIdentifier("project", k.ProjectID); err != nil {
		return err
	}
	if k.FieldID == "" {
		return nil
	}
	return errors.ValidateIdentifier("field", k.FieldID)
}

// WithField returns a copy of k addressing field id.
func (k Key) WithField(id string) Key {
	k.FieldID = id
	return k
}
