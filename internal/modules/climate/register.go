package climate

import (
	"database/sql"
	"net/http"

	"surfsup-server/internal/modules/climate/controller"
	"surfsup-server/internal/modules/climate/repository"
	"surfsup-server/internal/modules/climate/service"
)

func RegisterFeature(mux *http.ServeMux, db *sql.DB, driverName string) {
	climateRepository := repository.NewRepository(db, driverName)
	climateService := service.NewService(climateRepository)
	climateController := controller.NewClimateController(climateService)
	climateController.RegisterRoutes(mux)
}
