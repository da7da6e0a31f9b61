package V1

import (
	"englishtalk/hander"
	"englishtalk/usecase"

	"github.com/google/wire"
)

type Handers struct {
	Health  *HealthHander
	Catalog *CatalogHander
	Session *SessionHander
}

var ProviderSet = wire.NewSet(
	hander.NewBaseHandler,
	NewHealthHander,
	NewCatalogHander,
	NewSessionHander,
	usecase.ProviderSet,

	wire.Struct(new(Handers), "*"),
)
