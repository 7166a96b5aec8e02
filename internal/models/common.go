// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields. IDs are generated in BeforeCreate rather
// than by a database default so the same models run on postgres and on the
// in-memory sqlite databases used in tests.
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL (stored as TEXT on sqlite)
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("unsupported type %T for JSONB", value)
	}
}

// FieldChange records one field's transition between two versions.
type FieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// ChangeSet maps field name to its change. An empty ChangeSet means the
// incoming record was identical to the stored one.
type ChangeSet map[string]FieldChange

func (cs ChangeSet) IsEmpty() bool {
	return len(cs) == 0
}

// ContainsAny reports whether any of the given fields changed.
func (cs ChangeSet) ContainsAny(fields ...string) bool {
	for _, f := range fields {
		if _, ok := cs[f]; ok {
			return true
		}
	}
	return false
}

// ToJSONB converts the change set into the shape persisted on history rows.
func (cs ChangeSet) ToJSONB() JSONB {
	out := make(JSONB, len(cs))
	for field, change := range cs {
		out[field] = map[string]interface{}{
			"old": change.Old,
			"new": change.New,
		}
	}
	return out
}
