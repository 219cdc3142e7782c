package reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/pg-management/pg-server/internal/models"
)

const (
	leaseReminderSubject = "Lease Expiry Reminder"
	paymentDigestSubject = "Payment Due Digest"
)

func leaseReminderMessage(t *models.Tenant, end time.Time, daysLeft int) (string, string) {
	name := t.Name
	if name == "" {
		name = "tenant"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", name)
	fmt.Fprintf(&b, "Your lease ends on %s (%s from today).\n", end.Format(models.DateLayout), plural(daysLeft, "day"))
	b.WriteString("Please contact the administrator if you wish to renew or to arrange your move-out.\n\n")
	b.WriteString("Regards,\nPG Management\n")

	return leaseReminderSubject, b.String()
}

// digestLine is one itemised payment of a digest
type digestLine struct {
	payment *models.Payment
	tenant  string
}

func paymentDigestMessage(today time.Time, window int, dueToday, upcoming []digestLine) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Payment summary for %s\n\n", today.Format(models.DateLayout))
	fmt.Fprintf(&b, "Due today: %d\n", len(dueToday))
	fmt.Fprintf(&b, "Upcoming in the next %s: %d\n", plural(window, "day"), len(upcoming))

	if len(dueToday) > 0 {
		b.WriteString("\nDue today:\n")
		for _, l := range dueToday {
			fmt.Fprintf(&b, "- %s | payment %s | %s | amount %d\n",
				l.tenant, l.payment.ID, l.payment.Month, l.payment.Amount)
		}
	}

	if len(upcoming) > 0 {
		b.WriteString("\nUpcoming:\n")
		for _, l := range upcoming {
			fmt.Fprintf(&b, "- %s | %s | payment %s | %s | amount %d\n",
				l.payment.DueDate.Format(models.DateLayout), l.tenant, l.payment.ID, l.payment.Month, l.payment.Amount)
		}
	}

	return paymentDigestSubject, b.String()
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
