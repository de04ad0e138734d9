package domains

// AddDomainRequest is the request body for connecting a custom domain.
type AddDomainRequest struct {
	Domain string `json:"domain" binding:"required"`
}
