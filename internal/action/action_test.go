package action

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStaticWinsOverPrefix(t *testing.T) {
	// delete_faq would otherwise look like a malformed delete_<kind>_<id>.
	for _, n := range []Name{DeleteFAQ, DeletePackage, DeleteRouterFile, DeleteWelcomeImage} {
		a, err := Parse(string(n))
		require.NoError(t, err, n)
		assert.Equal(t, Static{Name: n}, a)
	}
}

func TestParseDelete(t *testing.T) {
	cases := map[string]Delete{
		"delete_file_12":            {Verb: Select, Kind: KindFile, ID: 12},
		"delete_package_7":          {Verb: Select, Kind: KindPackage, ID: 7},
		"confirm_delete_faq_3":      {Verb: Confirm, Kind: KindFAQ, ID: 3},
		"confirm_delete_admin_9001": {Verb: Confirm, Kind: KindAdmin, ID: 9001},
		"cancel_delete_admin":       {Verb: Cancel, Kind: KindAdmin},
	}
	for token, want := range cases {
		a, err := Parse(token)
		require.NoError(t, err, token)
		assert.Equal(t, want, a, token)
		assert.Equal(t, token, a.Token(), "round trip")
		assert.True(t, a.AdminOnly())
	}
}

func TestParseMalformed(t *testing.T) {
	for _, token := range []string{
		"delete_file_abc",
		"confirm_delete_package_-1",
		"delete_admin_",
		"confirm_delete_faq",
		"delete_file_99999999999999999999",
	} {
		_, err := Parse(token)
		require.Error(t, err, token)
		assert.ErrorIs(t, err, ErrMalformedToken, token)
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, token, pe.Token)
	}
}

func TestParseUnknown(t *testing.T) {
	for _, token := range []string{"", "admin_secret", "delete_user_1", "cancel_delete_user", "delete_faqs_1", "MAIN_MENU"} {
		_, err := Parse(token)
		assert.ErrorIs(t, err, ErrUnknownToken, token)
	}
}

func TestAdminOnly(t *testing.T) {
	for n, public := range statics {
		assert.Equal(t, !public, Static{Name: n}.AdminOnly(), n)
	}
	for n := range statics {
		if len(n) > 6 && n[:6] == "admin_" {
			assert.True(t, Static{Name: n}.AdminOnly(), n)
		}
	}
	assert.False(t, Static{Name: MainMenu}.AdminOnly())
}

func TestIs(t *testing.T) {
	a, err := Parse("main_menu")
	require.NoError(t, err)
	assert.True(t, Is(a, MainMenu))
	assert.False(t, Is(a, FAQ))
	assert.False(t, Is(SelectDelete(KindFAQ, 1), FAQ))
}
