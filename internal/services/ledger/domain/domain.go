// Package domain holds the ledger record shape and the sheet column contract.
package domain

// SheetHeader is the fixed column order of the ledger sheet. Open re-stamps
// any sheet whose first row disagrees with it.
var SheetHeader = [7]string{
	"Box Number",
	"Product",
	"Operator Name",
	"Chip Destination",
	"Date",
	"Time",
	"Net Weight",
}

// Entry is one accepted submission, stamped and ready for the sheet.
type Entry struct {
	BoxNumber    string
	Product      string
	NetWeight    string
	OperatorName string
	Destination  string
	Date         string
	Time         string
}

// SheetRow lays the entry out in sheet column order. The wire body arrives in
// submission order; the sheet wants destination before the stamps and the
// weight last.
func (e Entry) SheetRow() [7]string {
	return [7]string{
		e.BoxNumber,
		e.Product,
		e.OperatorName,
		e.Destination,
		e.Date,
		e.Time,
		e.NetWeight,
	}
}
