package domain

const (
	PaymentCash   = "cash"
	PaymentOnline = "online"
)

type Appointment struct {
	ID              int64   `db:"id" json:"id"`
	PatientID       int64   `db:"patient_id" json:"patient_id" validate:"required"`
	AppointmentDate string  `db:"appointment_date" json:"appointment_date" validate:"required,datetime=2006-01-02"`
	Fees            float64 `db:"fees" json:"fees" validate:"gte=0"`
	PaymentMethod   string  `db:"payment_method" json:"payment_method" validate:"oneof=cash online"`
	CreatedAt       string  `db:"created_at" json:"created_at"`
}

func (a Appointment) Validate() error {
	return validateStruct(a)
}
