package domain

const (
	BillPending = "Pending"
	BillPaid    = "Paid"
)

type Bill struct {
	ID        int64  `db:"id" json:"id"`
	PatientID int64  `db:"patient_id" json:"patient_id" validate:"required"`
	// PatientName is a snapshot taken at billing time; it is not re-read
	// from the patient registry afterwards.
	PatientName string     `db:"patient_name" json:"patient_name"`
	Items       []BillItem `json:"items" validate:"required,min=1,dive"`
	Total       float64    `db:"total" json:"total"`
	Date        string     `db:"date" json:"date"`
	Status      string     `db:"status" json:"status" validate:"oneof=Pending Paid"`
}

type BillItem struct {
	ID         int64   `db:"id" json:"id"`
	BillID     int64   `db:"bill_id" json:"bill_id"`
	MedicineID int64   `db:"medicine_id" json:"medicine_id" validate:"required"`
	Name       string  `db:"name" json:"name"`
	Quantity   int64   `db:"quantity" json:"quantity" validate:"gt=0"`
	Price      float64 `db:"price" json:"price" validate:"gte=0"`
}

func (b Bill) Validate() error {
	return validateStruct(b)
}
