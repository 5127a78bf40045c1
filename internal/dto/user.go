package dto

import "time"

type ProfileResponse struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Bio       string `json:"bio"`
}

// UserSummary is the follower/following projection: username and profile
// only, mirroring what the profile endpoints expose about other users.
type UserSummary struct {
	ID       uint            `json:"id"`
	Username string          `json:"username"`
	Profile  ProfileResponse `json:"profile"`
}

type UserResponse struct {
	ID              uint            `json:"id"`
	Email           string          `json:"email"`
	Username        string          `json:"username"`
	Role            string          `json:"role"`
	IsActive        bool            `json:"isActive"`
	IsEmailVerified bool            `json:"isEmailVerified"`
	Profile         ProfileResponse `json:"profile"`
	Followers       []UserSummary   `json:"followers,omitempty"`
	Following       []UserSummary   `json:"following,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type CreateUserRequest struct {
	Email    string        `json:"email" binding:"required,email"`
	Password string        `json:"password" binding:"required,min=8,max=100"`
	Username string        `json:"username" binding:"required,min=2,max=50"`
	Profile  *ProfileInput `json:"profile" binding:"omitempty"`
	Role     string        `json:"role" binding:"omitempty,oneof=user admin"`
}

type UpdateUserRequest struct {
	Email    string        `json:"email" binding:"omitempty,email"`
	Username string        `json:"username" binding:"omitempty,min=2,max=50"`
	Profile  *ProfileInput `json:"profile" binding:"omitempty"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

type ChangeStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

type FollowResponse struct {
	Followed       bool         `json:"followed"`
	FollowersCount int          `json:"followersCount"`
	User           UserResponse `json:"user"`
}

// StatisticsResponse is the admin aggregate view over users and todos.
type StatisticsResponse struct {
	Users struct {
		ByRole struct {
			Admin int64 `json:"admin"`
			User  int64 `json:"user"`
		} `json:"byRole"`
		ByStatus struct {
			Active   int64 `json:"active"`
			Inactive int64 `json:"inactive"`
		} `json:"byStatus"`
	} `json:"users"`
	Todos struct {
		Completed int64 `json:"completed"`
		Pending   int64 `json:"pending"`
		Overdue   int64 `json:"overdue"`
	} `json:"todos"`
	GeneratedAt time.Time `json:"generatedAt"`
}
