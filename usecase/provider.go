package usecase

import (
	"englishtalk/repo"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	repo.ProviderSet,

	NewGenerator,
	NewDialogueClient,
	NewSessionUsecase,
	NewCatalogUsecase,
	NewWsUseCase,
	NewFileUsecase,
	wire.Bind(new(TeacherAvatars), new(*repo.TeacherAvatarRepo)),
)

// AvatarSet is what the avatar CLI needs.
var AvatarSet = wire.NewSet(
	repo.ProviderSet,

	NewFileUsecase,
	NewAvatarUsecase,
	wire.Bind(new(AvatarStore), new(*repo.TeacherAvatarRepo)),
	wire.Bind(new(AvatarFiles), new(*FileUsecase)),
)
