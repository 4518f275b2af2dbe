package domain

type Medicine struct {
	ID         int64   `db:"id" json:"id"`
	Name       string  `db:"name" json:"name" validate:"required"`
	Category   string  `db:"category" json:"category"`
	Type       string  `db:"type" json:"type"`
	Stock      int64   `db:"stock" json:"stock" validate:"gte=0"`
	Price      float64 `db:"price" json:"price" validate:"gte=0"`
	ExpiryDate string  `db:"expiry_date" json:"expiry_date" validate:"required,datetime=2006-01-02"`
	CreatedAt  string  `db:"created_at" json:"created_at"`
}

func (m Medicine) Validate() error {
	return validateStruct(m)
}
