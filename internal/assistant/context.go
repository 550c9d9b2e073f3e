package assistant

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/traincore/certassist/internal/model"
	"github.com/traincore/certassist/internal/store"
)

// Bounds on the platform summary sent with every dispatch. The context is a
// snapshot, not a full export: the model gets enough rows to ground names
// and ids without unbounded prompt growth.
const (
	contextEmployeeLimit = 25
	contextCourseLimit   = 15
	contextTrainingLimit = 10
	contextExpiryDays    = 60
	contextExpiryLimit   = 15
)

// contextBuilder assembles the bounded platform snapshot. Section fetches
// run concurrently and settle independently: a failed section is logged
// and rendered empty, it never aborts the build.
type contextBuilder struct {
	store store.Store
}

func (b *contextBuilder) Build(ctx context.Context) string {
	var (
		employees []model.Employee
		courses   []model.Course
		trainings []model.Training
		expiring  []model.ExpiringCertificate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := b.store.ListEmployees(gctx, contextEmployeeLimit)
		if err != nil {
			zap.L().Warn("context: employees section degraded", zap.Error(err))
			return nil
		}
		employees = rows
		return nil
	})
	g.Go(func() error {
		rows, err := b.store.ListCourses(gctx, contextCourseLimit)
		if err != nil {
			zap.L().Warn("context: courses section degraded", zap.Error(err))
			return nil
		}
		courses = rows
		return nil
	})
	g.Go(func() error {
		rows, err := b.store.ListTrainings(gctx, contextTrainingLimit)
		if err != nil {
			zap.L().Warn("context: trainings section degraded", zap.Error(err))
			return nil
		}
		trainings = rows
		return nil
	})
	g.Go(func() error {
		rows, err := b.store.ListExpiringCertificates(gctx, contextExpiryDays, contextExpiryLimit)
		if err != nil {
			zap.L().Warn("context: expiring certificates section degraded", zap.Error(err))
			return nil
		}
		expiring = rows
		return nil
	})
	_ = g.Wait() // goroutines never return errors

	var sb strings.Builder
	sb.WriteString("Platform snapshot (truncated):\n")

	sb.WriteString("\nEmployees:\n")
	for _, e := range employees {
		fmt.Fprintf(&sb, "- #%d %s (%s, %s)\n", e.ID, e.FullName(), e.Department, e.JobTitle)
	}
	sb.WriteString("\nCourses:\n")
	for _, c := range courses {
		fmt.Fprintf(&sb, "- #%d %s: %s\n", c.ID, c.Code, c.Title)
	}
	sb.WriteString("\nUpcoming trainings:\n")
	for _, t := range trainings {
		fmt.Fprintf(&sb, "- #%d %s on %s (%s)\n", t.ID, t.CourseTitle, t.StartDate.Format("2006-01-02"), t.Status)
	}
	sb.WriteString("\nCertificates expiring soon:\n")
	for _, c := range expiring {
		fmt.Fprintf(&sb, "- %s: %s expires %s (%d days)\n", c.EmployeeName, c.CertificateType, c.ExpiryDate.Format("2006-01-02"), c.DaysRemaining)
	}
	return sb.String()
}
