package leads

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/adbroadcast/website-backend/pkg/config"
	"github.com/adbroadcast/website-backend/pkg/mailer"
)

func shopSupportEmail(cfg config.MailConfig, id uint64, s Submission) mailer.Message {
	notes := s.Notes
	if notes == "" {
		notes = "(none)"
	}
	requested := "(none captured)"
	if len(s.ItemIDs) > 0 {
		parts := make([]string, len(s.ItemIDs))
		for i, v := range s.ItemIDs {
			parts[i] = strconv.FormatInt(v, 10)
		}
		requested = strings.Join(parts, ", ")
	}
	lines := []string{
		fmt.Sprintf("You have a new shop quote request on %s website.", cfg.SiteName),
		"",
	}
	lines = append(lines, contactLines(s)...)
	lines = append(lines,
		"",
		"Notes:",
		notes,
		"",
		"Requested product IDs: "+requested,
		"",
		"View this in the admin panel (Leads -> Shop Requests).",
	)
	return mailer.Message{
		From:    cfg.NoReplyFrom,
		To:      cfg.SupportAddress,
		Subject: fmt.Sprintf("New Shop Quote Request #%d", id),
		Body:    mailer.Lines(lines...),
	}
}

func shopClientEmail(cfg config.MailConfig, id uint64, s Submission) mailer.Message {
	return mailer.Message{
		From:    cfg.SupportFrom,
		To:      s.Email,
		Subject: fmt.Sprintf("We received your request #%d - %s", id, cfg.SiteName),
		Body: mailer.Lines(
			fmt.Sprintf("Dear %s,", s.Name),
			"",
			fmt.Sprintf("Thank you for your request to purchase from %s.", cfg.CompanyName),
			"We have received your list of items and will prepare a formal quotation.",
			"",
			"Once you confirm the quotation, you will be able to pay via our shared banking / mobile money details.",
			"",
			"If you need urgent assistance, you can reply directly to this email.",
			"",
			"Best regards,",
			cfg.CompanyName,
		),
	}
}

func contactSupportEmail(cfg config.MailConfig, id uint64, s Submission, message string) mailer.Message {
	lines := []string{
		fmt.Sprintf("You have a new contact message from the %s website.", cfg.SiteName),
		"",
	}
	lines = append(lines, contactLines(s)...)
	lines = append(lines, "", "Message:", message)
	return mailer.Message{
		From:    cfg.NoReplyFrom,
		To:      cfg.SupportAddress,
		Subject: fmt.Sprintf("New Contact Message #%d", id),
		Body:    mailer.Lines(lines...),
	}
}

func contactClientEmail(cfg config.MailConfig, s Submission) mailer.Message {
	return mailer.Message{
		From:    cfg.SupportFrom,
		To:      s.Email,
		Subject: fmt.Sprintf("We received your message - %s", cfg.SiteName),
		Body: mailer.Lines(
			fmt.Sprintf("Dear %s,", s.Name),
			"",
			fmt.Sprintf("Thank you for reaching out to %s.", cfg.CompanyName),
			"We have received your message and will get back to you as soon as possible.",
			"",
			"Best regards,",
			cfg.CompanyName,
		),
	}
}

func contactLines(s Submission) []string {
	return []string{
		"Name: " + s.Name,
		"Email: " + s.Email,
		"Phone: " + s.Phone,
		"Company: " + s.Company,
		"Country: " + s.Country,
		"Preferred contact: " + s.ContactMethod,
		"Delivery location: " + s.DeliveryLocation,
	}
}
