package test_utils

import (
	"context"

	"github.com/centava/centava/pkg/user"
)

// ContextWithTestUser returns a context carrying a fixed test user, the way
// the user middleware would populate it for a real request.
func ContextWithTestUser(id int) context.Context {
	return user.WithUser(context.Background(), user.User{
		Id:          id,
		Uid:         "test-user-uid",
		Username:    "test_user",
		DisplayName: "Test User",
		Settings: user.Settings{
			Timezone: "Europe/Warsaw",
			Currency: "EUR",
		},
	})
}
