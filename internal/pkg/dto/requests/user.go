package requests

type UpdateProfile struct {
	Name string `json:"name" validate:"required,max=100"`
}
