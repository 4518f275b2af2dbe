package repo

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"healia/clinic/domain"
)

// BillLine is a requested line item for a new bill. Name and price are
// snapshotted from the medicine record, not taken from the caller.
type BillLine struct {
	MedicineID int64 `json:"medicine_id"`
	Quantity   int64 `json:"quantity"`
}

// CreateBill builds and persists a bill for the patient: it snapshots the
// patient name and each medicine's name and price, computes the total as the
// sum of quantity times price, and decrements stock per line. The bill,
// its items, and the stock updates commit in one transaction.
func (s *Store) CreateBill(patientID int64, lines []BillLine) (*domain.Bill, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: a bill needs at least one item", ErrValidation)
	}
	patient, err := s.GetPatient(patientID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.BillItem, 0, len(lines))
	// Quantities are aggregated per medicine so repeated lines for the same
	// medicine are checked against the stock they jointly consume.
	required := make(map[int64]int64, len(lines))
	var total float64
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be positive", ErrValidation)
		}
		med, err := s.GetMedicine(line.MedicineID)
		if err != nil {
			return nil, err
		}
		required[med.ID] += line.Quantity
		if med.Stock < required[med.ID] {
			return nil, fmt.Errorf("%w: insufficient stock for %s", ErrValidation, med.Name)
		}
		items = append(items, domain.BillItem{
			MedicineID: med.ID,
			Name:       med.Name,
			Quantity:   line.Quantity,
			Price:      med.Price,
		})
		total += float64(line.Quantity) * med.Price
	}

	bill := &domain.Bill{
		PatientID:   patientID,
		PatientName: patient.Name,
		Items:       items,
		Total:       total,
		Date:        s.now(),
		Status:      domain.BillPending,
	}
	if err := bill.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("create bill: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO bills (patient_id, patient_name, total, date, status) VALUES (?, ?, ?, ?, ?)`,
		bill.PatientID, bill.PatientName, bill.Total, bill.Date, bill.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("create bill: %w", err)
	}
	billID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create bill: %w", err)
	}
	bill.ID = billID

	for i := range bill.Items {
		item := &bill.Items[i]
		item.BillID = billID
		itemRes, err := tx.Exec(
			`INSERT INTO bill_items (bill_id, medicine_id, name, quantity, price) VALUES (?, ?, ?, ?, ?)`,
			item.BillID, item.MedicineID, item.Name, item.Quantity, item.Price,
		)
		if err != nil {
			return nil, fmt.Errorf("save bill items: %w", err)
		}
		item.ID, _ = itemRes.LastInsertId()
		// The decrement is guarded so a write landing between the pre-check
		// and this transaction can never push stock below zero.
		stockRes, err := tx.Exec(
			`UPDATE medicines SET stock = stock - ? WHERE id = ? AND stock >= ?`,
			item.Quantity, item.MedicineID, item.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("decrement stock: %w", err)
		}
		n, err := stockRes.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("decrement stock: %w", err)
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: insufficient stock for %s", ErrValidation, item.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("finalize bill: %w", err)
	}
	s.notify(ColBills)
	s.notify(ColMedicines)
	return bill, nil
}

func (s *Store) GetBill(id int64) (*domain.Bill, error) {
	var bill domain.Bill
	err := s.db.Get(&bill, `SELECT id, patient_id, patient_name, total, date, status FROM bills WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get bill %d: %w", id, err)
	}
	out := []domain.Bill{bill}
	if err := s.attachItems(out); err != nil {
		return nil, err
	}
	return &out[0], nil
}

// ListBills returns all bills newest-first with their items attached.
func (s *Store) ListBills() ([]domain.Bill, error) {
	var bills []domain.Bill
	if err := s.db.Select(&bills, `SELECT id, patient_id, patient_name, total, date, status FROM bills ORDER BY id DESC`); err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	if err := s.attachItems(bills); err != nil {
		return nil, err
	}
	return bills, nil
}

// BillsByPatient returns a patient's bills newest-first with items attached.
func (s *Store) BillsByPatient(patientID int64) ([]domain.Bill, error) {
	var bills []domain.Bill
	err := s.db.Select(&bills,
		`SELECT id, patient_id, patient_name, total, date, status FROM bills
         WHERE patient_id = ? ORDER BY id DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("bills for patient %d: %w", patientID, err)
	}
	if err := s.attachItems(bills); err != nil {
		return nil, err
	}
	return bills, nil
}

// BillsBetween returns bills dated within the inclusive calendar-day range,
// in insertion order, with items attached.
func (s *Store) BillsBetween(start, end string) ([]domain.Bill, error) {
	var bills []domain.Bill
	err := s.db.Select(&bills,
		`SELECT id, patient_id, patient_name, total, date, status FROM bills
         WHERE substr(date, 1, 10) BETWEEN ? AND ? ORDER BY id`, start, end)
	if err != nil {
		return nil, fmt.Errorf("bills between %s and %s: %w", start, end, err)
	}
	if err := s.attachItems(bills); err != nil {
		return nil, err
	}
	return bills, nil
}

// BillTotalsOn returns the stored totals for bills whose date starts with the
// given calendar day, as raw text for defensive coercion.
func (s *Store) BillTotalsOn(date string) ([]string, error) {
	var out []string
	err := s.db.Select(&out, `SELECT CAST(total AS TEXT) FROM bills WHERE date LIKE ? || '%'`, date)
	if err != nil {
		return nil, fmt.Errorf("bill totals on %s: %w", date, err)
	}
	return out, nil
}

// MarkBillPaid transitions a bill from Pending to Paid.
func (s *Store) MarkBillPaid(id int64) error {
	res, err := s.db.Exec(`UPDATE bills SET status = ? WHERE id = ?`, domain.BillPaid, id)
	if err != nil {
		return fmt.Errorf("mark bill %d paid: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark bill %d paid: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("bill %d: %w", id, ErrNotFound)
	}
	s.notify(ColBills)
	return nil
}

// attachItems loads the line items for a batch of bills in a single query.
func (s *Store) attachItems(bills []domain.Bill) error {
	if len(bills) == 0 {
		return nil
	}
	ids := make([]int64, len(bills))
	for i, b := range bills {
		ids[i] = b.ID
	}
	query, args, err := sqlx.In(
		`SELECT id, bill_id, medicine_id, name, quantity, price FROM bill_items WHERE bill_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("load bill items: %w", err)
	}
	query = s.db.Rebind(query)
	var rows []domain.BillItem
	if err := s.db.Select(&rows, query, args...); err != nil {
		return fmt.Errorf("load bill items: %w", err)
	}
	byBill := make(map[int64][]domain.BillItem)
	for _, row := range rows {
		byBill[row.BillID] = append(byBill[row.BillID], row)
	}
	for i := range bills {
		bills[i].Items = byBill[bills[i].ID]
	}
	return nil
}
