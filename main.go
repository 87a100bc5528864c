package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"dualcam/app"
	"dualcam/config"
	"dualcam/logger"
	"dualcam/web/controller"
	"dualcam/web/router"
)

func main() {
	config.Load()
	logfile := fmt.Sprintf("dualcam_logs_%s.log", time.Now().Format("2006-01-02_15:04:05"))

	logman, err := logger.NewLogger(fmt.Sprintf("%s/%s", config.GetConfig().LogFolder, logfile))

	if err != nil {
		log.Fatal(err)
	}

	svc, err := app.NewApp(logman)

	if err != nil {
		logman.LogError(err, "Error creating app")
		log.Fatal(err)
	}

	ctrl := controller.NewController(svc, logman)
	r := router.InitRouter(ctrl, logman)

	logman.LogInfo("Starting server", "port", config.GetConfig().Port)

	if err = http.ListenAndServe(fmt.Sprintf(":%s", config.GetConfig().Port), r); err != nil {
		logman.LogError(err, "Error starting server")
	}
}
