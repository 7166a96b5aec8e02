// internal/store/diff.go
package store

import (
	"bytes"
	"encoding/json"

	"github.com/javajoker/toynews-backend/internal/models"
)

// diffProducts computes the field-level delta between the stored row and an
// incoming record. Only business fields participate; system columns,
// provenance and the translated slots never diff. Equality is exact deep
// equality: a nil list and an empty list differ, as do missing and
// present-but-empty strings.
func diffProducts(old, new *models.Product) models.ChangeSet {
	oldFields := old.BusinessFields()
	newFields := new.BusinessFields()

	changes := make(models.ChangeSet)
	for field, newValue := range newFields {
		oldValue := oldFields[field]
		if !jsonEqual(oldValue, newValue) {
			changes[field] = models.FieldChange{Old: oldValue, New: newValue}
		}
	}
	return changes
}

// jsonEqual compares two values through their canonical JSON encoding.
// Go marshals map keys sorted, so the encoding is deterministic and deep
// structures compare reliably.
func jsonEqual(a, b interface{}) bool {
	aj, aerr := json.Marshal(a)
	bj, berr := json.Marshal(b)
	if aerr != nil || berr != nil {
		return false
	}
	return bytes.Equal(aj, bj)
}
