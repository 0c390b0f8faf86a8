package media

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyarchinit/archweb/internal/httpclient"
)

const testBaseURL = "http://storage.test"

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()

	hc := httpclient.New(httpclient.Config{DefaultTimeout: time.Second})
	httpmock.ActivateNonDefault(hc.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	client := NewStorageClient(testBaseURL, "test-key", hc)
	return NewResolverWithClient(client, time.Minute, 4)
}

func TestResolveMapsDescriptors(t *testing.T) {
	resolver := newTestResolver(t)

	httpmock.RegisterResponder(http.MethodGet,
		testBaseURL+"/media/for-entity/INVENTARIO_MATERIALI/42",
		httpmock.NewStringResponder(http.StatusOK, `[
			{"id_media": 7, "media_filename": "reperto.jpg", "mediatype": "image/jpeg",
			 "filepath": "2024/reperto.jpg", "path_resize": "2024/resize/reperto.jpg"}
		]`))

	descriptors, err := resolver.Resolve(context.Background(), EntityMaterial, 42)
	require.NoError(t, err)
	require.Len(t, descriptors, 1)

	d := descriptors[0]
	assert.Equal(t, 7, d.MediaID)
	assert.Equal(t, EntityMaterial, d.EntityType)
	assert.Equal(t, 42, d.EntityID)
	assert.Equal(t, "reperto.jpg", d.Filename)
	assert.Equal(t, testBaseURL+"/files/original/2024/resize/reperto.jpg", d.URL)
	assert.Equal(t, testBaseURL+"/files/thumbnail/2024/reperto.jpg", d.ThumbnailURL)
}

func TestResolveEmptySetIsNotAnError(t *testing.T) {
	resolver := newTestResolver(t)

	httpmock.RegisterResponder(http.MethodGet,
		testBaseURL+"/media/for-entity/SITE/1",
		httpmock.NewStringResponder(http.StatusOK, `[]`))

	descriptors, err := resolver.Resolve(context.Background(), EntitySite, 1)
	require.NoError(t, err)
	assert.Empty(t, descriptors)
}

func TestResolveUnknownEntityIsEmpty(t *testing.T) {
	resolver := newTestResolver(t)

	httpmock.RegisterResponder(http.MethodGet,
		testBaseURL+"/media/for-entity/US/999",
		httpmock.NewStringResponder(http.StatusNotFound, `{"detail": "not found"}`))

	descriptors, err := resolver.Resolve(context.Background(), EntityStratUnit, 999)
	require.NoError(t, err)
	assert.Empty(t, descriptors)
}

func TestResolveCachesDescriptorSets(t *testing.T) {
	resolver := newTestResolver(t)

	httpmock.RegisterResponder(http.MethodGet,
		testBaseURL+"/media/for-entity/POTTERY/5",
		httpmock.NewStringResponder(http.StatusOK, `[]`))

	for i := 0; i < 3; i++ {
		_, err := resolver.Resolve(context.Background(), EntityPottery, 5)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestResolveSendsAPIKey(t *testing.T) {
	resolver := newTestResolver(t)

	httpmock.RegisterResponder(http.MethodGet,
		testBaseURL+"/media/for-entity/SITE/3",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "test-key", req.Header.Get("X-API-Key"))
			return httpmock.NewStringResponse(http.StatusOK, `[]`), nil
		})

	_, err := resolver.Resolve(context.Background(), EntitySite, 3)
	require.NoError(t, err)
}

func TestResolveManyDegradesPerEntity(t *testing.T) {
	resolver := newTestResolver(t)

	httpmock.RegisterResponder(http.MethodGet,
		testBaseURL+"/media/for-entity/INVENTARIO_MATERIALI/1",
		httpmock.NewStringResponder(http.StatusOK, `[
			{"id_media": 1, "media_filename": "a.jpg", "mediatype": "image/jpeg",
			 "filepath": "a.jpg", "path_resize": ""}
		]`))
	httpmock.RegisterResponder(http.MethodGet,
		testBaseURL+"/media/for-entity/INVENTARIO_MATERIALI/2",
		httpmock.NewStringResponder(http.StatusInternalServerError, `boom`))

	refs := []EntityRef{
		{Type: EntityMaterial, ID: 1},
		{Type: EntityMaterial, ID: 2},
	}
	results, warnings := resolver.ResolveMany(context.Background(), refs)

	// Every requested ref is present, the failing one as an empty set.
	require.Len(t, results, 2)
	assert.Len(t, results[refs[0]], 1)
	assert.Empty(t, results[refs[1]])

	require.Len(t, warnings, 1)
	assert.Equal(t, refs[1], warnings[0].Ref)
	assert.NotEmpty(t, warnings[0].Err)
}

func TestResolveManyEmptyBatch(t *testing.T) {
	resolver := newTestResolver(t)

	results, warnings := resolver.ResolveMany(context.Background(), nil)
	assert.Empty(t, results)
	assert.Empty(t, warnings)
}

func TestEntityTypeValid(t *testing.T) {
	t.Parallel()

	for _, valid := range []EntityType{EntitySite, EntityStratUnit, EntityMaterial, EntityPottery} {
		assert.True(t, valid.Valid(), string(valid))
	}
	assert.False(t, EntityType("TOMBA").Valid())
	assert.False(t, EntityType("").Valid())
}
