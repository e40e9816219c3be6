package internal

import (
	"net/http"

	"clipkeep/internal/controllers"
	"clipkeep/internal/providers"
)

func InitRoutes(history *controllers.HistoryController, paste *controllers.PasteController, images *controllers.ImageController, events *controllers.EventsController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/history", http.HandlerFunc(history.GetHistory))
	routers.Post("/history/delete", http.HandlerFunc(history.DeleteItem))
	routers.Post("/history/pin", http.HandlerFunc(history.TogglePin))
	routers.Post("/history/clear", http.HandlerFunc(history.ClearAll))
	routers.Post("/history/reorder", http.HandlerFunc(history.ReorderItems))

	routers.Get("/settings", http.HandlerFunc(history.GetSettings))
	routers.Post("/settings", http.HandlerFunc(history.UpdateSetting))

	routers.Post("/paste", http.HandlerFunc(paste.PasteItem))
	routers.Post("/paste/content", http.HandlerFunc(paste.PasteContent))

	routers.Get("/images", http.HandlerFunc(images.GetImage))
	routers.Get("/export", http.HandlerFunc(images.Export))
	routers.Get("/events", http.HandlerFunc(events.Stream))
	return routers
}
