package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"clipkeep/internal/controllers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRoutes_RegistersEndpoints(t *testing.T) {
	router := InitRoutes(&controllers.HistoryController{}, &controllers.PasteController{}, &controllers.ImageController{}, &controllers.EventsController{})

	urls := make([]string, 0)
	for _, r := range router.GetRoutes() {
		urls = append(urls, r.Url)
	}

	assert.ElementsMatch(t, []string{
		"/history", "/history/delete", "/history/pin", "/history/clear", "/history/reorder",
		"/settings", "/paste", "/paste/content", "/images", "/export", "/events",
	}, urls)
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	router := InitRoutes(&controllers.HistoryController{}, &controllers.PasteController{}, &controllers.ImageController{}, &controllers.EventsController{})
	mux := router.Mux()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/history"},
		{http.MethodGet, "/history/clear"},
		{http.MethodGet, "/paste"},
		{http.MethodPost, "/export"},
		{http.MethodDelete, "/settings"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
		})
	}
}
