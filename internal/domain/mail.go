package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type WelcomeMailData struct {
	Username string `json:"username"`
}

type ApplicationReceivedMailData struct {
	EmployerName string `json:"employerName"`
	JobTitle     string `json:"jobTitle"`
	Applicant    string `json:"applicant"`
}
