// Package report renders date-bounded PDF documents from the store: the
// bills report, the patient details report, and single-bill invoices. The
// generator only builds the document; saving it is the caller's concern.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"healia/clinic/internal/repo"
)

const (
	clinicName = "Healia"
	doctorName = "Dr. XYZ"

	// pageBreakY is the vertical cursor threshold past which a new page
	// starts.
	pageBreakY = 250.0
	topMargin  = 20.0
)

type Generator struct {
	store *repo.Store
}

func New(store *repo.Store) *Generator {
	return &Generator{store: store}
}

// doc is a thin cursor-tracking wrapper so report layouts read like the
// line-by-line documents they produce.
type doc struct {
	pdf *gofpdf.Fpdf
	y   float64
}

func newDoc() *doc {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	return &doc{pdf: pdf, y: topMargin}
}

func (d *doc) pageWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	return w
}

func (d *doc) text(x float64, s string) {
	d.pdf.Text(x, d.y, s)
}

func (d *doc) centered(s string) {
	x := (d.pageWidth() - d.pdf.GetStringWidth(s)) / 2
	d.pdf.Text(x, d.y, s)
}

func (d *doc) advance(dy float64) {
	d.y += dy
	if d.y > pageBreakY {
		d.pdf.AddPage()
		d.y = topMargin
	}
}

func (d *doc) setFont(style string, size float64) {
	d.pdf.SetFont("Arial", style, size)
}

func (d *doc) header(title, start, end string) {
	d.setFont("B", 22)
	d.y = 25
	d.centered(title)
	d.setFont("", 12)
	d.y = 35
	d.centered(fmt.Sprintf("Date Range: %s to %s", start, end))
	d.y = 50
}

// BillsReport lays out every bill in the inclusive date range. Any read
// failure aborts the whole report.
func (g *Generator) BillsReport(start, end string) (*gofpdf.Fpdf, error) {
	bills, err := g.store.BillsBetween(start, end)
	if err != nil {
		return nil, err
	}

	d := newDoc()
	d.header(clinicName+" - Bills Report", start, end)

	for _, bill := range bills {
		patient, err := g.store.GetPatient(bill.PatientID)
		if err != nil && !isNotFound(err) {
			return nil, err
		}

		d.setFont("B", 14)
		d.text(15, fmt.Sprintf("Bill No: BILL-%03d", bill.ID))
		d.setFont("", 12)
		d.advance(10)
		name, contact := "-", "-"
		if patient != nil {
			name, contact = patient.Name, patient.Contact
		}
		d.text(15, "Patient: "+name)
		d.advance(10)
		d.text(15, "Contact: "+contact)
		d.advance(10)
		d.text(15, "Date: "+bill.Date[:10])
		d.advance(15)

		for i, item := range bill.Items {
			d.text(25, fmt.Sprintf("%d. %s - %d x Rs.%.2f", i+1, item.Name, item.Quantity, item.Price))
			d.advance(10)
		}

		d.centered(fmt.Sprintf("Total Amount: Rs.%.2f", bill.Total))
		d.advance(20)
	}

	if err := d.pdf.Error(); err != nil {
		return nil, fmt.Errorf("render bills report: %w", err)
	}
	return d.pdf, nil
}

// PatientsReport lays out each patient registered in the range together with
// their appointments, prescriptions, records, and purchased medicines.
func (g *Generator) PatientsReport(start, end string) (*gofpdf.Fpdf, error) {
	patients, err := g.store.PatientsCreatedBetween(start, end)
	if err != nil {
		return nil, err
	}

	d := newDoc()
	d.header(clinicName+" - Patient Details Report", start, end)

	for _, p := range patients {
		d.setFont("B", 14)
		d.text(15, "Patient: "+p.Name)
		d.setFont("", 12)
		d.advance(10)
		d.text(15, fmt.Sprintf("Age: %d", p.Age))
		d.advance(10)
		d.text(15, "Contact: "+p.Contact)
		d.advance(10)
		d.text(15, "Address: "+p.Address)
		d.advance(15)

		appts, err := g.store.AppointmentsByPatient(p.ID)
		if err != nil {
			return nil, err
		}
		if len(appts) > 0 {
			d.text(15, "Appointments:")
			d.advance(10)
			for i, a := range appts {
				d.text(25, fmt.Sprintf("%d. Date: %s - Fees: Rs.%.2f", i+1, a.AppointmentDate, a.Fees))
				d.advance(10)
			}
		}

		prescriptions, err := g.store.PrescriptionsByPatient(p.ID)
		if err != nil {
			return nil, err
		}
		if len(prescriptions) > 0 {
			d.text(15, "Prescriptions:")
			d.advance(10)
			for i, pr := range prescriptions {
				d.text(25, fmt.Sprintf("%d. Date: %s", i+1, pr.Date))
				d.advance(10)
				d.text(25, "   Medicines: "+strings.Join(pr.Medicines, ", "))
				d.advance(10)
			}
		}

		records, err := g.store.MedicalRecordsByPatient(p.ID)
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			d.text(15, "Medical Records:")
			d.advance(10)
			for i, r := range records {
				d.text(25, fmt.Sprintf("%d. Date: %s", i+1, r.Date))
				d.advance(10)
				d.text(25, "   Description: "+r.Description)
				d.advance(10)
			}
		}

		bills, err := g.store.BillsByPatient(p.ID)
		if err != nil {
			return nil, err
		}
		if len(bills) > 0 {
			d.text(15, "Purchased Medicines:")
			d.advance(10)
			for bi, b := range bills {
				for ii, item := range b.Items {
					d.text(25, fmt.Sprintf("%d.%d. %s - Qty: %d, Price: Rs.%.2f", bi+1, ii+1, item.Name, item.Quantity, item.Price))
					d.advance(10)
				}
			}
		}

		d.advance(15)
	}

	if err := d.pdf.Error(); err != nil {
		return nil, fmt.Errorf("render patients report: %w", err)
	}
	return d.pdf, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repo.ErrNotFound)
}
