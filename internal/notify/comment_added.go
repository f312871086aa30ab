package notify

import (
	"strings"

	model "task-manager.com/task-manager/internal/models"
)

// CommentAdded tells the owner of task that comment was posted on it.
func CommentAdded(owner *model.User, task *model.Task, comment *model.Comment, baseURL string) Message {
	return Message{
		To:      owner.Email,
		ToName:  owner.Name,
		Subject: "New Comment on your Task",
		Lines: []string{
			"A new comment has been added to your task: " + task.Title,
			"Comment Content: " + comment.Content,
		},
		ActionText: "View Task",
		ActionURL:  strings.TrimRight(baseURL, "/") + "/tasks/" + task.ID,
		Outro:      "Thank you for using our Task Manager!",
	}
}
