package domain

// MedicalRecord is a scanned attachment tied to a patient. ScanURL carries the
// embedded image data (a data URL), not a filesystem path.
type MedicalRecord struct {
	ID          int64  `db:"id" json:"id"`
	PatientID   int64  `db:"patient_id" json:"patient_id" validate:"required"`
	ScanURL     string `db:"scan_url" json:"scan_url"`
	Date        string `db:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Description string `db:"description" json:"description" validate:"required"`
}

func (r MedicalRecord) Validate() error {
	return validateStruct(r)
}
