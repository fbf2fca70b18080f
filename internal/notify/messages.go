package notify

import (
	"fmt"
	"strconv"
)

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// BidSelectedMessage is the mail sent to the winning seller when a buyer
// selects their bid.
func BidSelectedMessage(sellerName, buyerName, buyerEmail, projectTitle string, amount float64) (subject, body string) {
	subject = fmt.Sprintf("You've been selected for the project: %s", projectTitle)
	body = fmt.Sprintf(
		"Dear %s,\n\nCongratulations! Your bid of $%s has been selected for the project %q by %s (%s).\n\nPlease get in touch with the buyer to proceed.\n\nBest regards,\nBidding System Team",
		sellerName, formatAmount(amount), projectTitle, buyerName, buyerEmail,
	)
	return subject, body
}

// ProjectCompletedSellerMessage is the mail sent to the selected seller when
// the buyer marks the project completed.
func ProjectCompletedSellerMessage(sellerName, buyerName, buyerEmail, projectTitle string) (subject, body string) {
	subject = fmt.Sprintf("Project Completed: %s", projectTitle)
	body = fmt.Sprintf(
		"Dear %s,\n\nThe project %q has been marked as completed by %s (%s).\n\nThank you for your work!\n\nBest regards,\nBidding System Team",
		sellerName, projectTitle, buyerName, buyerEmail,
	)
	return subject, body
}

// ProjectCompletedBuyerMessage is the confirmation mail sent to the buyer.
func ProjectCompletedBuyerMessage(buyerName, projectTitle string) (subject, body string) {
	subject = fmt.Sprintf("Project Completed: %s", projectTitle)
	body = fmt.Sprintf(
		"Dear %s,\n\nYou have successfully marked the project %q as completed.\n\nThank you for using our platform!\n\nBest regards,\nBidding System Team",
		buyerName, projectTitle,
	)
	return subject, body
}
