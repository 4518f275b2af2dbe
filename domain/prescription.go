package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// MedicineList is an ordered list of free-text medicine names, stored as JSON.
type MedicineList []string

func (m MedicineList) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *MedicineList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into MedicineList", src)
	}
}

type Prescription struct {
	ID        int64        `db:"id" json:"id"`
	PatientID int64        `db:"patient_id" json:"patient_id" validate:"required"`
	Medicines MedicineList `db:"medicines" json:"medicines" validate:"required,min=1"`
	Date      string       `db:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Notes     string       `db:"notes" json:"notes"`
}

func (p Prescription) Validate() error {
	return validateStruct(p)
}
