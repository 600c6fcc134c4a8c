package http

type createUserReq struct {
	ID            string `json:"id" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Role          string `json:"role"`
	CompanyName   string `json:"companyName"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`
}
