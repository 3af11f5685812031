package domain

const (
	MailTypeWelcome                  = "welcome"
	MailTypeApplicationReceived      = "application_received"
	MailTypeApplicationStatusChanged = "application_status_changed"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type WelcomeMailData struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

type ApplicationReceivedMailData struct {
	EmployerName   string `json:"employerName"`
	ApplicantName  string `json:"applicantName"`
	ApplicantEmail string `json:"applicantEmail"`
	JobTitle       string `json:"jobTitle"`
}

type ApplicationStatusChangedMailData struct {
	ApplicantName string            `json:"applicantName"`
	JobTitle      string            `json:"jobTitle"`
	Company       string            `json:"company"`
	Status        ApplicationStatus `json:"status"`
}
