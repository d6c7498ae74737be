package navigation

// IsActive reports whether url designates the current path. Matching is exact
// string equality: "/admin/quiz-types" is not active for "/admin/quizzes" and
// "/admin" is not active for "/admin/quizzes". Items without a url are never
// active.
func IsActive(currentPath, url string) bool {
	return url != "" && currentPath == url
}
