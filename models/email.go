package models

// Email is a transactional message.
type Email struct {
	To      []string `json:"to,omitempty"`
	Bcc     []string `json:"bcc,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// ComposeAction is returned instead of sending when no email provider is configured.
type ComposeAction struct {
	MailtoURL string `json:"mailtoUrl"`
}

// SendResult reports how an email left the system.
type SendResult struct {
	Sent    bool           `json:"sent"`
	Compose *ComposeAction `json:"compose,omitempty"`
}
