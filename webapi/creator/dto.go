package creator

// SignupInput carries the data for creating a creator account.
type SignupInput struct {
	Handle      string `json:"handle" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	CountryCode string `json:"country_code" validate:"required,len=2"`
}
