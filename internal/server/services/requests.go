package services

type SignUpRequest struct {
	UserName  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,emailaddr"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

var signUpRules = []rule{
	{tag: "required", msg: MsgMissingFields},
	{field: "Email", tag: "emailaddr", msg: MsgInvalidEmail},
	{field: "Password", tag: "min", msg: MsgPasswordTooShort},
}

type LogInRequest struct {
	UserName string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

var logInRules = []rule{
	{tag: "required", msg: MsgMissingFields},
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,nefield=CurrentPassword"`
}

var changePasswordRules = []rule{
	{tag: "required", msg: MsgMissingFields},
	{field: "NewPassword", tag: "min", msg: MsgNewPasswordTooShort},
	{field: "NewPassword", tag: "nefield", msg: MsgNewPasswordSame},
}

type CreateRoomRequest struct {
	Name string `json:"name" validate:"required"`
}

var createRoomRules = []rule{
	{tag: "required", msg: MsgMissingFields},
}
