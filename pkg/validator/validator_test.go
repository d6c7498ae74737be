package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"omitempty,max=16"`
	Order int    `json:"order" validate:"gte=0"`
}

func TestValidateStructSuccess(t *testing.T) {
	require.NoError(t, ValidateStruct(testPayload{Title: "Quizzes", URL: "/admin/quizzes", Order: 1}))
}

func TestValidateStructFailures(t *testing.T) {
	err := ValidateStruct(testPayload{URL: "/admin/quizzes/very/long", Order: -1})
	require.Error(t, err)

	vErrs, ok := err.(ValidationErrors)
	require.True(t, ok, "expected ValidationErrors, got %T", err)
	require.Len(t, vErrs, 3)

	fields := map[string]string{}
	for _, v := range vErrs {
		fields[v.Field] = v.Tag
	}
	require.Equal(t, "required", fields["title"])
	require.Equal(t, "max", fields["url"])
	require.Equal(t, "gte", fields["order"])
}

func TestMenuKeyRule(t *testing.T) {
	type payload struct {
		Key string `json:"key" validate:"menu_key"`
	}

	require.NoError(t, ValidateStruct(payload{Key: "manage-tests"}))
	require.NoError(t, ValidateStruct(payload{Key: "quiz_types2"}))
	require.Error(t, ValidateStruct(payload{Key: "Manage Tests"}))
	require.Error(t, ValidateStruct(payload{Key: "-leading"}))
	require.False(t, IsMenuKey(""))
}

func TestMenuLinkRule(t *testing.T) {
	type payload struct {
		URL string `json:"url" validate:"omitempty,menu_link"`
	}

	for _, ok := range []string{"", "/", "/admin/quizzes?page=2", "#results", "https://help.examportal.example", "mailto:office@example.com"} {
		require.NoError(t, ValidateStruct(payload{URL: ok}), ok)
	}
	for _, bad := range []string{"//evil.example", "javascript:alert(1)", "https://", "admin/quizzes", "mailto:"} {
		err := ValidateStruct(payload{URL: bad})
		require.Error(t, err, bad)
		require.Equal(t, "menu_link", err.(ValidationErrors)[0].Tag)
	}
}

func TestRegisterValidation(t *testing.T) {
	err := RegisterValidation("examportal", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == "examportal"
	})
	require.NoError(t, err)

	type custom struct {
		Value string `validate:"examportal"`
	}

	require.NoError(t, ValidateStruct(custom{Value: "examportal"}))
	require.Error(t, ValidateStruct(custom{Value: "other"}))
}
