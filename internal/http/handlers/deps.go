package handlers

import (
	"github.com/jmoiron/sqlx"

	"swapit/internal/repos"
	"swapit/internal/services"
)

type Deps struct {
	Api      *ApiHandler
	Listings *ListingHandler
}

func NewDeps(db *sqlx.DB, auth *services.AuthService) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	listRepo := repos.NewListingRepo(db)
	swapRepo := repos.NewSwapRepo(db)

	listingSvc := services.NewListingService(catRepo, listRepo)
	orderSvc := services.NewOrderService(swapRepo, listRepo)

	return &Deps{
		Api:      &ApiHandler{Auth: auth, Listings: listingSvc, Orders: orderSvc},
		Listings: &ListingHandler{Listings: listingSvc, Auth: auth},
	}
}
