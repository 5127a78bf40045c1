package service

import (
	"github.com/surdiana/todoapi/internal/dto"
	"github.com/surdiana/todoapi/internal/model"
)

func toUserSummary(user *model.User) dto.UserSummary {
	return dto.UserSummary{
		ID:       user.ID,
		Username: user.Username,
		Profile: dto.ProfileResponse{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Bio:       user.Bio,
		},
	}
}

// toUserResponse maps a user record to its API shape. The password hash
// never crosses this boundary.
func toUserResponse(user *model.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		Username:        user.Username,
		Role:            user.Role,
		IsActive:        user.IsActive,
		IsEmailVerified: user.IsEmailVerified,
		Profile: dto.ProfileResponse{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Bio:       user.Bio,
		},
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	for _, follower := range user.Followers {
		resp.Followers = append(resp.Followers, toUserSummary(follower))
	}
	for _, following := range user.Following {
		resp.Following = append(resp.Following, toUserSummary(following))
	}

	return resp
}

func toTodoResponse(todo *model.Todo) *dto.TodoResponse {
	return &dto.TodoResponse{
		ID:        todo.ID,
		Text:      todo.Text,
		Completed: todo.Completed,
		Priority:  todo.Priority,
		DueDate:   todo.DueDate,
		OwnerID:   todo.UserID,
		CreatedAt: todo.CreatedAt,
		UpdatedAt: todo.UpdatedAt,
	}
}
