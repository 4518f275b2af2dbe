package report

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"healia/clinic/domain"
	"healia/clinic/internal/migrations"
	"healia/clinic/internal/repo"
)

func newTestGenerator(t *testing.T) (*Generator, *repo.Store) {
	t.Helper()
	db, err := sqlx.Connect("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)
	migrations.Run(db)
	store := repo.New(db, nil)
	return New(store), store
}

func seedBilledPatient(t *testing.T, store *repo.Store) *domain.Bill {
	t.Helper()
	p := &domain.Patient{Name: "Asha", Age: 30, Contact: "555", Address: "X"}
	if _, err := store.AddPatient(p); err != nil {
		t.Fatalf("add patient: %v", err)
	}
	m := &domain.Medicine{Name: "Paracetamol", Category: "tablet", Type: "otc", Stock: 5, Price: 10, ExpiryDate: "2030-01-01"}
	if _, err := store.AddMedicine(m); err != nil {
		t.Fatalf("add medicine: %v", err)
	}
	bill, err := store.CreateBill(p.ID, []repo.BillLine{{MedicineID: m.ID, Quantity: 3}})
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}
	return bill
}

func TestInvoiceFilename(t *testing.T) {
	if got := InvoiceFilename(7); got != "bill-007.pdf" {
		t.Errorf("expected zero-padded filename, got %q", got)
	}
	if got := InvoiceFilename(1234); got != "bill-1234.pdf" {
		t.Errorf("expected full id past padding width, got %q", got)
	}
}

func TestInvoiceRenders(t *testing.T) {
	g, store := newTestGenerator(t)
	bill := seedBilledPatient(t, store)

	pdf, err := g.Invoice(bill.ID)
	if err != nil {
		t.Fatalf("invoice: %v", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("output: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("expected a PDF document")
	}
}

func TestInvoiceMissingBill(t *testing.T) {
	g, _ := newTestGenerator(t)
	if _, err := g.Invoice(99); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBillsReportRenders(t *testing.T) {
	g, store := newTestGenerator(t)
	seedBilledPatient(t, store)

	today := time.Now().Format(domain.DateOnly)
	pdf, err := g.BillsReport(today, today)
	if err != nil {
		t.Fatalf("bills report: %v", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("output: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("expected rendered document")
	}
}

func TestPatientsReportRenders(t *testing.T) {
	g, store := newTestGenerator(t)
	seedBilledPatient(t, store)

	today := time.Now().Format(domain.DateOnly)
	pdf, err := g.PatientsReport(today, today)
	if err != nil {
		t.Fatalf("patients report: %v", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("output: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("expected rendered document")
	}
}

func TestReportsRenderEmptyRange(t *testing.T) {
	g, _ := newTestGenerator(t)

	if _, err := g.BillsReport("2020-01-01", "2020-01-02"); err != nil {
		t.Errorf("empty bills report must still render: %v", err)
	}
	if _, err := g.PatientsReport("2020-01-01", "2020-01-02"); err != nil {
		t.Errorf("empty patients report must still render: %v", err)
	}
}

func TestDocPageBreak(t *testing.T) {
	d := newDoc()
	if got := d.pdf.PageNo(); got != 1 {
		t.Fatalf("expected 1 page, got %d", got)
	}
	for i := 0; i < 30; i++ {
		d.text(15, "line")
		d.advance(10)
	}
	if got := d.pdf.PageNo(); got < 2 {
		t.Errorf("expected page break past the threshold, got %d pages", got)
	}
	if d.y > pageBreakY {
		t.Errorf("cursor must reset after break, got %v", d.y)
	}
}
