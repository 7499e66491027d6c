package orders

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"souq/errs"
	"souq/middleware"
	"souq/products"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

func formatAmount(minor int) string {
	return fmt.Sprintf("%d.%02d MAD", minor/100, minor%100)
}

// GetInvoice handles GET /api/orders/:id/invoice and renders the order as a
// PDF with an embedded QR code carrying the order reference.
func GetInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s := middleware.SessionFromContext(r.Context())

	order, err := ByID(r.Context(), ps.ByName("id"))
	if err != nil {
		errs.Write(w, err)
		return
	}
	if order.UserID != s.UserID && !s.IsAdmin {
		errs.Write(w, errs.ErrForbidden)
		return
	}

	items, err := ItemsByOrder(r.Context(), order.OrderID)
	if err != nil {
		errs.Write(w, err)
		return
	}

	qrData := fmt.Sprintf("order=%s&total=%d&ts=%d", order.OrderID, order.TotalAmount, time.Now().Unix())
	qrPNG, _ := qrcode.Encode(qrData, qrcode.Medium, 128)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 15, "Order Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 8, fmt.Sprintf(
		"Order: %s\nDate: %s\nStatus: %s\n\nCustomer: %s\nEmail: %s\nPhone: %s\nShipping: %s",
		order.OrderID,
		order.CreatedAt.Format("02 Jan 2006 15:04"),
		order.Status,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.ShippingAddress,
	), "", "L", false)
	pdf.Ln(5)

	// Line items table
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(80, 8, "Product", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, "Unit price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Line total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, item := range items {
		name := item.ProductID
		if p, err := products.ByID(r.Context(), item.ProductID); err == nil {
			name = p.Name
		}
		pdf.CellFormat(80, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, formatAmount(item.PriceAtPurchase), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, formatAmount(item.PriceAtPurchase*item.Quantity), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(140, 10, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 10, formatAmount(order.TotalAmount), "1", 1, "R", false, 0, "")

	imgOpts := gofpdf.ImageOptions{ImageType: "png"}
	pdf.RegisterImageOptionsReader("qr", imgOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 230, 40, 40, false, imgOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		errs.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+order.OrderID+".pdf")
	w.Write(buf.Bytes())
}
