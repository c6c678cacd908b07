package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/vishalbagda/MidWiseAi/internal/log"
	"github.com/vishalbagda/MidWiseAi/internal/queue"
	"go.uber.org/zap"
)

// Message is a rendered mail. Delivery is a log line until an SMTP relay is configured.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

type Sender struct {
	From    string
	// Deliver defaults to writing the message to the log.
	Deliver func(ctx context.Context, m Message) error
}

func (s *Sender) send(ctx context.Context, m Message) error {
	if s.Deliver != nil {
		return s.Deliver(ctx, m)
	}
	log.Ctx(ctx).Info("[MAIL]",
		zap.String("from", m.From), zap.String("to", m.To),
		zap.String("subject", m.Subject), zap.String("body", m.Body))
	return nil
}

// ThankDonor renders the thank-you note for one reported donation.
func ThankDonor(from string, ev queue.DonationReported) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for donating %s.\n", ev.Medicine)
	if ev.Center != "" {
		fmt.Fprintf(&b, "Drop-off point: %s.\n", ev.Center)
	}
	fmt.Fprintf(&b, "Your report %s is the %s donation recorded on MedWise", ev.ReportID, humanize.Ordinal(int(ev.Seq)))
	if !ev.SubmittedAt.IsZero() {
		fmt.Fprintf(&b, " (submitted %s)", ev.SubmittedAt.UTC().Format("2 Jan 2006 15:04 MST"))
	}
	b.WriteString(".\nYour contribution helps others in need.\n")

	return Message{
		From:    from,
		To:      ev.ContactMail,
		Subject: "Thanks for your donation " + ev.ReportID,
		Body:    b.String(),
	}
}

// HandleDonation is the queue handler for donation.reported. Reports without
// a contact address are acknowledged and skipped.
func (s *Sender) HandleDonation(ctx context.Context, body []byte) error {
	var ev queue.DonationReported
	if err := json.Unmarshal(body, &ev); err != nil {
		// битое сообщение не переотправляем
		log.Ctx(ctx).Warn("drop malformed donation event", zap.Error(err))
		return nil
	}
	if strings.TrimSpace(ev.ContactMail) == "" {
		log.Ctx(ctx).Debug("donation without contact email", zap.String("report_id", ev.ReportID))
		return nil
	}
	if err := s.send(ctx, ThankDonor(s.From, ev)); err != nil {
		return fmt.Errorf("send thank-you for %s: %w", ev.ReportID, err)
	}
	return nil
}
