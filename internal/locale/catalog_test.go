package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tOgg1/uplink/internal/models"
)

func TestLoadEmbeddedCatalogs(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	require.Equal(t, []models.Language{"en-US", "es-MX"}, c.Languages())
	require.True(t, c.Has(models.DefaultLanguage))
	require.False(t, c.Has("fr-FR"))
	assert.Equal(t, "Español (México)", c.Name("es-MX"))
	assert.Equal(t, "xx", c.Name("xx"))
}

func TestLookupFallbacks(t *testing.T) {
	c := MustLoad()

	assert.Equal(t, "Send a reply...", c.Lookup("en-US", "send_a_reply"))
	assert.Equal(t, "Envía una respuesta...", c.Lookup("es-MX", "send_a_reply"))
	assert.Equal(t, "Send a reply...", c.Lookup("fr-FR", "send_a_reply"))
	assert.Equal(t, "no_such_key", c.Lookup("en-US", "no_such_key"))
}

func TestCatalogsShareKeys(t *testing.T) {
	c := MustLoad()
	base := c.tables[models.DefaultLanguage].Strings
	for _, lang := range c.Languages() {
		for key := range base {
			_, ok := c.tables[lang].Strings[key]
			assert.True(t, ok, "%s missing %s", lang, key)
		}
	}
}

func TestFormat(t *testing.T) {
	c := MustLoad()
	got := c.Format("en-US", "conversation_started", map[string]string{
		"peer":         "did:key:bob",
		"conversation": "conv-1",
	})
	assert.Equal(t, "Chatting with did:key:bob in conv-1.", got)
	assert.Equal(t, "Friends", c.Format("en-US", "friends", nil))
}
