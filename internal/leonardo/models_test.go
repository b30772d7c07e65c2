package leonardo

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListModels(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/platformModels", r.URL.Path)
		w.Write([]byte(`{"platformModels": [
			{"id": "model-1", "name": "Leonardo Diffusion", "description": "general purpose"},
			{"id": "model-2", "name": "Leonardo Vision", "description": "photorealism"}
		]}`))
	}))

	models, err := client.ListModels(context.Background())

	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "model-1", models[0].ID)
	assert.Equal(t, "Leonardo Diffusion", models[0].Name)
}

func TestListModels_FallsBackToLegacyEndpoint(t *testing.T) {
	var paths []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/platformModels" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"models": [{"id": "model-9", "name": "Legacy Model"}]}`))
	}))

	models, err := client.ListModels(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"/platformModels", "/models"}, paths)
	require.Len(t, models, 1)
	assert.Equal(t, "model-9", models[0].ID)
}

func TestListCustomModels(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/models", r.URL.Path)
		w.Write([]byte(`{"loras": [{"id": "custom-1", "name": "my style", "status": "COMPLETE"}]}`))
	}))

	models, err := client.ListCustomModels(context.Background())

	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "custom-1", models[0].ID)
	assert.Equal(t, "COMPLETE", models[0].Status)
}
