package router

import (
	"net/http"

	"dualcam/logger"
	"dualcam/web/controller"

	"github.com/gorilla/mux"
)

func InitRouter(controller *controller.Controller, logger *logger.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(logger.LogRequest)

	router.HandleFunc("/api/status", controller.DeviceStatus).Methods(http.MethodGet)

	router.HandleFunc("/record/start", controller.StartRecording).Methods(http.MethodPost)
	router.HandleFunc("/record/stop", controller.StopRecording).Methods(http.MethodPost)
	router.HandleFunc("/toggle", controller.ToggleCamera).Methods(http.MethodPost)
	router.HandleFunc("/select", controller.SelectCamera).Methods(http.MethodPost)
	router.HandleFunc("/stream.mjpeg", controller.ShowStream).Methods(http.MethodGet)
	router.HandleFunc("/toggle_stream", controller.ToggleStream).Methods(http.MethodPost)

	filerouter := router.PathPrefix("/file").Subrouter()
	filerouter.HandleFunc("/upload", controller.UploadFile).Methods(http.MethodPost)
	filerouter.HandleFunc("/upload-list", controller.ListFiles).Methods(http.MethodGet)
	filerouter.HandleFunc("/upload-all", controller.UploadAllFiles).Methods(http.MethodPost)

	return router
}
