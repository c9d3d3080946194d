package user

type CreateUserInput struct {
	Username string  `json:"username" form:"username" binding:"required"`
	Password string  `json:"password" form:"password" binding:"required"`
	Email    *string `json:"email,omitempty" form:"email,omitempty"`
	FullName *string `json:"full_name,omitempty" form:"full_name,omitempty"`
	Role     *string `json:"role,omitempty" form:"role,omitempty"`
}

type UpdateUserInput struct {
	Password    *string `json:"password,omitempty" form:"password,omitempty"`
	OldPassword *string `json:"old_password,omitempty" form:"old_password,omitempty"`
	Email       *string `json:"email,omitempty" form:"email,omitempty"`
	FullName    *string `json:"full_name,omitempty" form:"full_name,omitempty"`
	Role        *string `json:"role,omitempty" form:"role,omitempty"`
}

type LoginInput struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}
