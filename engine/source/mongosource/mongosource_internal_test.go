package mongosource

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniql-engine/queryengine/engine/value"
)

func TestSplitDatabaseAndCollectionPluralizesSingleSegment(t *testing.T) {
	u, err := url.Parse("mongodb://localhost/shop")
	require.NoError(t, err)

	db, coll := splitDatabaseAndCollection(u)
	assert.Equal(t, "shop", db)
	assert.Equal(t, "shops", coll)
}

func TestSplitDatabaseAndCollectionExplicitCollection(t *testing.T) {
	u, err := url.Parse("mongodb://localhost/shop/orders")
	require.NoError(t, err)

	db, coll := splitDatabaseAndCollection(u)
	assert.Equal(t, "shop", db)
	assert.Equal(t, "orders", coll)
}

func TestToValueScalars(t *testing.T) {
	v, ok := toValue(int32(4))
	assert.True(t, ok)
	assert.Equal(t, value.NewInt(4), v)

	v, ok = toValue("x")
	assert.True(t, ok)
	assert.Equal(t, value.NewString("x"), v)

	_, ok = toValue([]byte("raw"))
	assert.False(t, ok)
}
