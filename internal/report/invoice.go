package report

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// InvoiceFilename derives the export filename for a bill.
func InvoiceFilename(billID int64) string {
	return fmt.Sprintf("bill-%03d.pdf", billID)
}

// Invoice renders the printable invoice for one bill.
func (g *Generator) Invoice(billID int64) (*gofpdf.Fpdf, error) {
	bill, err := g.store.GetBill(billID)
	if err != nil {
		return nil, err
	}

	d := newDoc()
	d.setFont("B", 22)
	d.y = 25
	d.centered(clinicName)
	d.setFont("", 16)
	d.y = 35
	d.centered(doctorName)

	d.setFont("", 12)
	d.y = 50
	d.text(15, fmt.Sprintf("Bill No: BILL-%03d", bill.ID))
	d.y = 60
	d.text(15, "Patient: "+bill.PatientName)
	d.y = 70
	d.text(15, "Date: "+bill.Date[:10])

	d.y = 90
	d.text(15, "Medicine")
	d.text(90, "Quantity")
	d.text(130, "Price")
	d.text(170, "Total")

	d.y = 100
	for _, item := range bill.Items {
		d.text(15, item.Name)
		d.text(90, fmt.Sprintf("%d", item.Quantity))
		d.text(130, fmt.Sprintf("Rs.%.2f", item.Price))
		d.text(170, fmt.Sprintf("Rs.%.2f", item.Price*float64(item.Quantity)))
		d.advance(10)
	}

	d.advance(20)
	d.centered(fmt.Sprintf("Total Amount: Rs.%.2f", bill.Total))

	if err := d.pdf.Error(); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return d.pdf, nil
}
