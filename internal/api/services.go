package api

// Services bundles one typed facade per API resource, all sharing a single
// configured client.
type Services struct {
	Auth         *AuthService
	Resumes      *ResumeService
	Jobs         *JobService
	Evaluations  *EvaluationService
	Applications *ApplicationService
}

// NewServices creates the service facades over a shared client.
func NewServices(client *Client) *Services {
	return &Services{
		Auth:         &AuthService{client: client},
		Resumes:      &ResumeService{client: client},
		Jobs:         &JobService{client: client},
		Evaluations:  &EvaluationService{client: client},
		Applications: &ApplicationService{client: client},
	}
}
