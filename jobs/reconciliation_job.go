package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/edusantana/academico/notifications"
	"github.com/edusantana/academico/services"
	"github.com/edusantana/academico/store"
)

// AuditEnrollments returns the cron job body for the scheduled enrollment
// audit. It only reports; repair stays an explicit operator action.
func AuditEnrollments(service *services.ReconciliationService) func() {
	return func() {
		log.Println("Running job: AuditEnrollments...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		ctx = store.WithPrincipal(ctx, store.SystemPrincipal())

		report, err := service.Audit(ctx)
		if err != nil {
			log.Printf("🔥 Scheduled enrollment audit failed: %v", err)
			return
		}

		if len(report.Missing) == 0 {
			log.Printf("Enrollment audit clean: %d paid orders, %d enrollments.", report.PaidOrders, report.Enrollments)
			return
		}

		log.Printf("⚠️ Enrollment audit found %d paid order(s) without enrollment.", len(report.Missing))
		for _, missing := range report.Missing {
			log.Printf("Missing enrollment: order %s (student %s, discipline %s)", missing.OrderID, missing.StudentID, missing.DisciplineID)
		}

		go notifications.AlertOperator(
			"Enrollment audit found discrepancies",
			fmt.Sprintf("<h1>Enrollment audit</h1><p>%d paid order(s) have no matching enrollment. Run a reconciliation sync to repair them.</p>", len(report.Missing)),
		)
	}
}
