package reconcile

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/warp/pettycash/ledger"
)

// =============================================================================
// REPORT - WhatsApp-style text for cashiers to share
// =============================================================================

// ReportInput carries pre-computed values only. FormatReport does no
// arithmetic beyond the residual + inflow line of the summary.
type ReportInput struct {
	Outlet          ledger.Outlet
	Period          ledger.Period
	Residual        Residual
	Breakdown       Breakdown
	RequestedAmount ledger.Money
	Notes           string
}

// ReportInputFrom builds a report input from a calculation.
func ReportInputFrom(c *Calculation, requested ledger.Money, notes string) ReportInput {
	return ReportInput{
		Outlet:          c.Outlet,
		Period:          c.Period,
		Residual:        c.Residual,
		Breakdown:       c.Breakdown,
		RequestedAmount: requested,
		Notes:           notes,
	}
}

const reportDateLayout = "02/01/2006"

var dayNames = [...]string{
	time.Sunday:    "Minggu",
	time.Monday:    "Senin",
	time.Tuesday:   "Selasa",
	time.Wednesday: "Rabu",
	time.Thursday:  "Kamis",
	time.Friday:    "Jumat",
	time.Saturday:  "Sabtu",
}

// FormatRupiah renders an amount as "Rp 1.234.567". Negative amounts
// render as "-Rp 1.234.567".
func FormatRupiah(m ledger.Money) string {
	p := message.NewPrinter(language.Indonesian)
	s := "Rp " + p.Sprintf("%d", m.Abs().Int64())
	if m.IsNegative() {
		return "-" + s
	}
	return s
}

// FormatReport renders the reimbursement report.
//
// The anchor line and the residual line are separate facts: the residual
// already nets out everything before the period.
func FormatReport(in ReportInput) string {
	var b strings.Builder

	b.WriteString("*LAPORAN REIMBURSE KAS KECIL*\n")
	fmt.Fprintf(&b, "Outlet: %s\n", in.Outlet.Name)
	fmt.Fprintf(&b, "Periode: %s - %s\n", in.Period.Start.Format(reportDateLayout), in.Period.End.Format(reportDateLayout))
	if in.Outlet.BankName != "" {
		fmt.Fprintf(&b, "Bank: %s\n", in.Outlet.BankName)
	}
	if in.Outlet.BankAccount != "" {
		fmt.Fprintf(&b, "No. Rekening: %s\n", in.Outlet.BankAccount)
	}
	if in.Outlet.AccountHolder != "" {
		fmt.Fprintf(&b, "Atas Nama: %s\n", in.Outlet.AccountHolder)
	}
	fmt.Fprintf(&b, "Jumlah Reimburse: %s\n", FormatRupiah(in.RequestedAmount))
	if in.Notes != "" {
		fmt.Fprintf(&b, "Catatan: %s\n", in.Notes)
	}

	b.WriteString("\n*SALDO AWAL*\n")
	anchor := in.Residual.Anchor
	switch anchor.Kind {
	case AnchorReset:
		fmt.Fprintf(&b, "Reset saldo awal (%s): %s\n", anchor.Date.Format(reportDateLayout), FormatRupiah(anchor.Amount))
	case AnchorCarried:
		fmt.Fprintf(&b, "Kas masuk terakhir (%s): %s\n", anchor.Date.Format(reportDateLayout), FormatRupiah(anchor.Amount))
	default:
		b.WriteString("Belum ada kas masuk sebelumnya\n")
	}
	fmt.Fprintf(&b, "Sisa saldo sebelum periode: %s\n", FormatRupiah(in.Residual.Amount))

	b.WriteString("\n*RINCIAN HARIAN*\n")
	active := 0
	for _, day := range in.Breakdown.Days {
		if !day.Active() {
			continue
		}
		active++
		writeDay(&b, day)
	}
	if active == 0 {
		b.WriteString("Tidak ada transaksi pada periode ini\n")
	}

	b.WriteString("\n*RINGKASAN*\n")
	fmt.Fprintf(&b, "Total Saldo (Sisa + Kas Masuk): %s\n", FormatRupiah(in.Residual.Amount.Add(in.Breakdown.Totals.Inflow)))
	fmt.Fprintf(&b, "Total Pengeluaran: %s\n", FormatRupiah(in.Breakdown.Totals.Outflow))
	fmt.Fprintf(&b, "Saldo Fisik Akhir: %s\n", FormatRupiah(in.Breakdown.Closing))

	return b.String()
}

func writeDay(b *strings.Builder, day DaySummary) {
	fmt.Fprintf(b, "\n%s, %s\n", dayNames[day.Date.Weekday()], day.Date.Format(reportDateLayout))
	fmt.Fprintf(b, "Saldo awal: %s\n", FormatRupiah(day.Opening))
	for _, in := range day.Inflows {
		if in.Note != "" {
			fmt.Fprintf(b, "+ Kas masuk: %s (%s)\n", FormatRupiah(in.Amount), in.Note)
		} else {
			fmt.Fprintf(b, "+ Kas masuk: %s\n", FormatRupiah(in.Amount))
		}
	}
	for _, out := range day.OutflowItems {
		if len(out.LineItems) == 0 {
			fmt.Fprintf(b, "- %s: %s\n", outflowLabel(out), FormatRupiah(out.Amount))
			continue
		}
		for _, li := range out.LineItems {
			fmt.Fprintf(b, "- %s: %s\n", lineItemLabel(li), FormatRupiah(li.LineTotal))
		}
	}
	fmt.Fprintf(b, "Saldo akhir: %s\n", FormatRupiah(day.Closing))
}

func outflowLabel(out ledger.OutflowEvent) string {
	if out.Note == "" {
		return "Pengeluaran"
	}
	return out.Note
}

func lineItemLabel(li ledger.LineItem) string {
	if li.Quantity <= 0 {
		return li.Description
	}
	if li.Unit == "" {
		return fmt.Sprintf("%s (%d)", li.Description, li.Quantity)
	}
	return fmt.Sprintf("%s (%d %s)", li.Description, li.Quantity, li.Unit)
}
