package similarwebdomain

// UserCapabilities é a resposta do endpoint user-capabilities, que não consome créditos
type UserCapabilities struct {
	Meta          Meta `json:"meta"`
	RemainingHits *int `json:"remaining_hits,omitempty"`
}
