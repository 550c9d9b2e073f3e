package report

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/traincore/certassist/internal/store"
)

// Exporter writes compliance overviews as xlsx workbooks.
type Exporter struct {
	store store.Store
}

func NewExporter(st store.Store) *Exporter {
	return &Exporter{store: st}
}

// ExportExpiring writes every certificate expiring within the window to an
// xlsx file, soonest first. Returns the number of rows written.
func (e *Exporter) ExportExpiring(ctx context.Context, path string, withinDays, limit int) (int, error) {
	certs, err := e.store.ListExpiringCertificates(ctx, withinDays, limit)
	if err != nil {
		return 0, err
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Expiring certificates")
	if err != nil {
		return 0, eris.Wrap(err, "report: add sheet")
	}

	writeHeader(sheet, "Employee", "Certificate", "Number", "Expiry date", "Days remaining")
	for _, c := range certs {
		row := sheet.AddRow()
		row.AddCell().SetString(c.EmployeeName)
		row.AddCell().SetString(c.CertificateType)
		row.AddCell().SetString(c.CertificateNumber)
		row.AddCell().SetString(c.ExpiryDate.Format("2006-01-02"))
		row.AddCell().SetInt(c.DaysRemaining)
	}

	if err := f.Save(path); err != nil {
		return 0, eris.Wrapf(err, "report: save %s", path)
	}
	zap.L().Info("expiry report written",
		zap.String("path", path),
		zap.Int("rows", len(certs)),
		zap.Int("within_days", withinDays))
	return len(certs), nil
}

// ExportAudit writes the most recent audit entries to an xlsx file, newest
// first. Returns the number of rows written.
func (e *Exporter) ExportAudit(ctx context.Context, path string, limit int) (int, error) {
	entries, err := e.store.ListAudit(ctx, limit)
	if err != nil {
		return 0, err
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Audit log")
	if err != nil {
		return 0, eris.Wrap(err, "report: add sheet")
	}

	writeHeader(sheet, "Timestamp", "Actor", "Operation", "Table", "Target", "Changed fields")
	for _, a := range entries {
		row := sheet.AddRow()
		row.AddCell().SetString(a.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetString(a.ActorID)
		row.AddCell().SetString(a.Operation)
		row.AddCell().SetString(a.Table)
		row.AddCell().SetString(a.TargetID)
		row.AddCell().SetString(strings.Join(a.ChangedFields, ", "))
	}

	if err := f.Save(path); err != nil {
		return 0, eris.Wrapf(err, "report: save %s", path)
	}
	zap.L().Info("audit report written",
		zap.String("path", path),
		zap.Int("rows", len(entries)))
	return len(entries), nil
}

func writeHeader(sheet *xlsx.Sheet, titles ...string) {
	row := sheet.AddRow()
	for _, title := range titles {
		row.AddCell().SetString(title)
	}
}
