package navigation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsActiveExactMatch(t *testing.T) {
	require.True(t, IsActive("/admin/quizzes", "/admin/quizzes"))
	require.False(t, IsActive("/admin/quizzes", "/admin/quiz-types"))
	require.False(t, IsActive("/admin/quizzes", "/admin"))
	require.False(t, IsActive("/admin", "/admin/quizzes"))
	require.False(t, IsActive("/admin/quizzes/", "/admin/quizzes"))
	require.False(t, IsActive("", ""))
}
