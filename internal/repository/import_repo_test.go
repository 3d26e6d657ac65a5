package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i9-energia/solar-estimator/internal/catalog"
	"github.com/i9-energia/solar-estimator/internal/models"
)

func TestHashContent(t *testing.T) {
	a := HashContent([]byte("abc"), []byte("def"))
	b := HashContent([]byte("abc"), []byte("def"))
	c := HashContent([]byte("abcd"), []byte("ef"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c, "different splits must not collide")
	assert.Len(t, a, 64)
}

func TestEncodeDecodeTables(t *testing.T) {
	original := catalog.Builtin()

	data, err := EncodeTables(original)
	require.NoError(t, err)

	ts, err := DecodeTables(&models.TableImport{ID: uuid.New(), Tables: data})
	require.NoError(t, err)
	assert.Equal(t, original.Tables(), ts.Tables())
}

func TestDecodeTables_Invalid(t *testing.T) {
	_, err := DecodeTables(&models.TableImport{ID: uuid.New(), Tables: []byte(`{"cities": [{"name": "X", "irradiance": 0}]}`)})
	assert.ErrorIs(t, err, catalog.ErrInvalidRecord)

	_, err = DecodeTables(&models.TableImport{ID: uuid.New(), Tables: []byte(`not json`)})
	assert.Error(t, err)
}
