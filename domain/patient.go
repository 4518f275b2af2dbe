package domain

// DateOnly is the calendar-day format used for all date-keyed lookups.
const DateOnly = "2006-01-02"

type Patient struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name" validate:"required"`
	Age       int64  `db:"age" json:"age" validate:"gte=0"`
	Contact   string `db:"contact" json:"contact" validate:"required"`
	Address   string `db:"address" json:"address"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// Validate checks the registry invariants before a patient is persisted.
func (p Patient) Validate() error {
	return validateStruct(p)
}
