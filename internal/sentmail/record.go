package sentmail

import "strings"

// Record is a persisted sent mail. ID is assigned by the store on insert and
// never changes afterwards.
type Record struct {
	Sender    string
	Recipient string
	Subject   string
	Body      string
	ID        int64
}

// Equal reports whether both values refer to the same stored record.
// Records are compared by identity, so two inserts with identical content
// are different records. Unsaved records (ID 0) are never equal.
func (r Record) Equal(other Record) bool {
	return r.ID != 0 && r.ID == other.ID
}

// Summary returns the display projection of the record.
func (r Record) Summary() Summary {
	return Summary{Recipient: r.Recipient, Subject: r.Subject, Body: r.Body}
}

// NewRecord is the input for Insert: a record that has no ID yet.
type NewRecord struct {
	Sender    string
	Recipient string
	Subject   string
	Body      string
}

func (r NewRecord) validate() error {
	if strings.TrimSpace(r.Sender) == "" {
		return ErrBlankSender
	}
	if strings.TrimSpace(r.Recipient) == "" {
		return ErrBlankRecipient
	}
	return nil
}

// Summary is the read-only view of a record used when listing a sender's
// history. It omits the ID and the sender, which the caller already knows.
type Summary struct {
	Recipient string
	Subject   string
	Body      string
}
